package http

import (
	"net/http"
	"time"

	applog "github.com/manongfatu/dreamteamfinance/internal/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"store": "ok"}
	status := "ready"
	httpStatus := http.StatusOK

	if s.store == nil {
		checks["store"] = "failed: store not wired"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}
	if s.bridge != nil {
		checks["sync"] = s.bridge.State().String()
	} else {
		checks["sync"] = "disabled"
	}

	respondJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

// handleFlush forces any pending debounced write out immediately.
func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	if s.bridge == nil {
		respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	if err := s.bridge.Flush(r.Context()); err != nil {
		s.log.ErrorContext(r.Context(), "flush failed", applog.FieldError, err)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

package http

import (
	"net/http"
	"strings"

	applog "github.com/manongfatu/dreamteamfinance/internal/log"
	"github.com/manongfatu/dreamteamfinance/internal/notify"
)

type sendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

type sendSMSRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.To == "" || req.Subject == "" || req.Text == "" {
		respondError(w, http.StatusBadRequest, `missing "to", "subject", and "text"`)
		return
	}
	if s.email == nil {
		respondError(w, http.StatusNotImplemented, notify.ErrEmailNotConfigured.Error())
		return
	}

	html := req.HTML
	if html == "" {
		var lines []string
		for _, l := range strings.Split(req.Text, "\n") {
			if l != "" {
				lines = append(lines, l)
			}
		}
		html = notify.RenderReminderHTML(req.Subject, lines)
	}

	id, err := s.email.SendEmail(r.Context(), req.To, req.Subject, req.Text, html)
	if err == notify.ErrEmailNotConfigured {
		respondError(w, http.StatusNotImplemented, err.Error())
		return
	}
	if err != nil {
		s.log.ErrorContext(r.Context(), "email send failed",
			applog.FieldError, err, applog.FieldRecipient, req.To)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id, "provider": "brevo"})
}

func (s *Server) handleSendSMS(w http.ResponseWriter, r *http.Request) {
	var req sendSMSRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.To == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, `missing "to" and "message"`)
		return
	}
	if s.sms == nil {
		respondError(w, http.StatusNotImplemented, notify.ErrSMSNotConfigured.Error())
		return
	}

	sid, err := s.sms.SendSMS(r.Context(), req.To, req.Message)
	if err == notify.ErrSMSNotConfigured {
		respondError(w, http.StatusNotImplemented, err.Error())
		return
	}
	if err != nil {
		s.log.ErrorContext(r.Context(), "sms send failed",
			applog.FieldError, err, applog.FieldRecipient, req.To)
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true, "sid": sid})
}

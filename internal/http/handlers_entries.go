package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/manongfatu/dreamteamfinance/internal/core"
	"github.com/manongfatu/dreamteamfinance/internal/store"
)

type entryRequest struct {
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"entryType"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
	Notes    string  `json:"notes"`
	Paid     bool    `json:"paid"`
}

type entryUpdateRequest struct {
	Title    *string  `json:"title"`
	Amount   *float64 `json:"amount"`
	Type     *string  `json:"entryType"`
	Category *string  `json:"category"`
	Date     *string  `json:"date"`
	Notes    *string  `json:"notes"`
	Paid     *bool    `json:"paid"`
}

func (s *Server) handleYear(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonth(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid month index")
		return
	}
	entries, err := s.store.MonthEntries(month)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonth(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid month index")
		return
	}

	var req entryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	date, err := parseEntryDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date")
		return
	}

	entry, err := s.store.AddEntry(month, core.Entry{
		Title:    req.Title,
		Amount:   req.Amount,
		Type:     core.EntryType(req.Type),
		Category: req.Category,
		Date:     date,
		Notes:    req.Notes,
		Paid:     req.Paid,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonth(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid month index")
		return
	}

	var req entryUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u := store.EntryUpdate{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: req.Category,
		Notes:    req.Notes,
		Paid:     req.Paid,
	}
	if req.Type != nil {
		t := core.EntryType(*req.Type)
		u.Type = &t
	}
	if req.Date != nil {
		date, err := parseEntryDate(*req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date")
			return
		}
		u.Date = &date
	}

	if err := s.store.UpdateEntry(month, mux.Vars(r)["id"], u); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonth(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid month index")
		return
	}
	if err := s.store.DeleteEntry(month, mux.Vars(r)["id"]); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleClearMonth(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonth(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid month index")
		return
	}
	if err := s.store.ClearMonth(month); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// parseEntryDate accepts both RFC3339 timestamps and bare dates.
func parseEntryDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

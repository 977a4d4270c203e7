package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/manongfatu/dreamteamfinance/internal/export"
	applog "github.com/manongfatu/dreamteamfinance/internal/log"
)

func (s *Server) handleMonthTotals(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonth(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid month index")
		return
	}
	totals, err := s.store.MonthTotals(month)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

func (s *Server) handleYTDTotals(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.YTDTotals())
}

// handleExportCSV streams either one month's entries or the whole year,
// depending on the presence of the month query parameter.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var filename string
	entries := s.store.AllEntriesYTD()

	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid month index")
			return
		}
		entries, err = s.store.MonthEntries(month)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filename = export.MonthFilename(month)
	} else {
		filename = export.YearFilename(s.store.Year())
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteEntries(w, entries); err != nil {
		s.log.ErrorContext(r.Context(), "csv export failed", applog.FieldError, err)
	}
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/manongfatu/dreamteamfinance/internal/core"
	"github.com/manongfatu/dreamteamfinance/internal/store"
)

type installmentRequest struct {
	ItemName       string  `json:"itemName"`
	TotalAmount    float64 `json:"totalAmount"`
	DownPayment    float64 `json:"downPayment"`
	MonthlyAmount  float64 `json:"monthlyAmount"`
	NumberOfMonths int     `json:"numberOfMonths"`
	StartDate      string  `json:"startDate"`
}

type installmentUpdateRequest struct {
	ItemName      *string  `json:"itemName"`
	TotalAmount   *float64 `json:"totalAmount"`
	DownPayment   *float64 `json:"downPayment"`
	MonthlyAmount *float64 `json:"monthlyAmount"`
}

type togglePaymentRequest struct {
	Year       int  `json:"year"`
	MonthIndex int  `json:"monthIndex"`
	Paid       bool `json:"paid"`
}

func (s *Server) handleListInstallments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Installments())
}

func (s *Server) handleCreateInstallment(w http.ResponseWriter, r *http.Request) {
	var req installmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start, err := parseEntryDate(req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid start date")
		return
	}

	plan, err := s.store.AddInstallment(core.InstallmentPlan{
		ItemName:       req.ItemName,
		TotalAmount:    req.TotalAmount,
		DownPayment:    req.DownPayment,
		MonthlyAmount:  req.MonthlyAmount,
		NumberOfMonths: req.NumberOfMonths,
		StartDate:      start,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleUpdateInstallment(w http.ResponseWriter, r *http.Request) {
	var req installmentUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.store.UpdateInstallment(mux.Vars(r)["id"], store.InstallmentUpdate{
		ItemName:      req.ItemName,
		TotalAmount:   req.TotalAmount,
		DownPayment:   req.DownPayment,
		MonthlyAmount: req.MonthlyAmount,
	})
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleDeleteInstallment(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteInstallment(mux.Vars(r)["id"])
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleTogglePayment flips one schedule item's paid state, creating or
// removing the generated ledger entry as a side effect.
func (s *Server) handleTogglePayment(w http.ResponseWriter, r *http.Request) {
	var req togglePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !core.ValidMonthIndex(req.MonthIndex) {
		respondError(w, http.StatusBadRequest, "invalid month index")
		return
	}

	s.store.SetInstallmentPaid(mux.Vars(r)["id"], req.Year, req.MonthIndex, req.Paid)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Mk9397/Expense-Splitter/internal/adapter/http/dto"
	"github.com/Mk9397/Expense-Splitter/internal/domain"
	"github.com/Mk9397/Expense-Splitter/internal/usecase"
)

// LedgerService defines the derived views needed by LedgerHandler.
type LedgerService interface {
	GetTrip(ctx context.Context, id string) (*domain.Trip, error)
	Balances(ctx context.Context, tripID string) (*usecase.BalanceSheet, error)
	Settlements(ctx context.Context, tripID string) (*usecase.SettlementPlan, error)
	CheckConsistency(ctx context.Context, tripID string) (*usecase.ConsistencyReport, error)
}

// ReportService builds trip reports.
type ReportService interface {
	BuildReport(ctx context.Context, tripID string) (*usecase.TripReport, error)
}

// LedgerHandler serves balances, settlements, reports and consistency checks.
type LedgerHandler struct {
	ledger  LedgerService
	reports ReportService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger LedgerService, reports ReportService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, reports: reports}
}

// Balances returns every participant's balance.
func (h *LedgerHandler) Balances(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.ledger.Balances(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		writeServiceError(w, "failed to compute balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceSheetFromUseCase(sheet))
}

// Settlements returns the payments that clear the trip.
func (h *LedgerHandler) Settlements(w http.ResponseWriter, r *http.Request) {
	plan, err := h.ledger.Settlements(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		writeServiceError(w, "failed to compute settlements", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementPlanFromUseCase(plan))
}

// Consistency reports whether the trip's balances sum to zero within rounding.
func (h *LedgerHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	trip, err := h.ledger.GetTrip(r.Context(), tripID)
	if err != nil {
		writeServiceError(w, "failed to check consistency", err)
		return
	}

	report, err := h.ledger.CheckConsistency(r.Context(), tripID)
	if err != nil {
		writeServiceError(w, "failed to check consistency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromUseCase(report, trip.Currency))
}

// Report returns the full trip report.
func (h *LedgerHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.BuildReport(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		writeServiceError(w, "failed to build report", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromUseCase(report))
}

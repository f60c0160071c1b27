package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Mk9397/Expense-Splitter/internal/adapter/http/dto"
	"github.com/Mk9397/Expense-Splitter/internal/domain"
	"github.com/Mk9397/Expense-Splitter/internal/usecase"
)

// ExpenseService defines the behavior needed by ExpenseHandler.
type ExpenseService interface {
	GetTrip(ctx context.Context, id string) (*domain.Trip, error)
	AddExpense(ctx context.Context, tripID string, input usecase.ExpenseInput) (string, error)
	EditExpense(ctx context.Context, tripID, expenseID string, input usecase.ExpenseInput) (bool, error)
	DeleteExpense(ctx context.Context, tripID, expenseID string) (bool, error)
	GetExpense(ctx context.Context, tripID, expenseID string) (*domain.Expense, error)
}

// ExpenseHandler handles expense-related HTTP requests.
type ExpenseHandler struct {
	expenses ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenses ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// Create records an expense.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	input, currency, ok := h.readInput(w, r, tripID)
	if !ok {
		return
	}

	id, err := h.expenses.AddExpense(r.Context(), tripID, input)
	if err != nil {
		writeServiceError(w, "failed to add expense", err)
		return
	}

	h.writeExpense(w, r, http.StatusCreated, tripID, id, currency)
}

// List lists a trip's expenses in recording order.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	trip, err := h.expenses.GetTrip(r.Context(), tripID)
	if err != nil {
		writeServiceError(w, "failed to list expenses", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpensesFromDomain(trip.Expenses, trip.Currency))
}

// Get retrieves one expense.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	trip, err := h.expenses.GetTrip(r.Context(), tripID)
	if err != nil {
		writeServiceError(w, "failed to get expense", err)
		return
	}

	h.writeExpense(w, r, http.StatusOK, tripID, chi.URLParam(r, "expenseID"), trip.Currency)
}

// Update replaces an expense's fields.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	expenseID := chi.URLParam(r, "expenseID")

	input, currency, ok := h.readInput(w, r, tripID)
	if !ok {
		return
	}

	updated, err := h.expenses.EditExpense(r.Context(), tripID, expenseID, input)
	if err != nil {
		writeServiceError(w, "failed to update expense", err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "expense not found", expenseID)
		return
	}

	h.writeExpense(w, r, http.StatusOK, tripID, expenseID, currency)
}

// Delete removes an expense.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	expenseID := chi.URLParam(r, "expenseID")

	ok, err := h.expenses.DeleteExpense(r.Context(), chi.URLParam(r, "tripID"), expenseID)
	if err != nil {
		writeServiceError(w, "failed to delete expense", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "expense not found", expenseID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// readInput decodes an expense body using the trip's currency for the amount.
func (h *ExpenseHandler) readInput(w http.ResponseWriter, r *http.Request, tripID string) (usecase.ExpenseInput, string, bool) {
	var req dto.ExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return usecase.ExpenseInput{}, "", false
	}

	trip, err := h.expenses.GetTrip(r.Context(), tripID)
	if err != nil {
		writeServiceError(w, "failed to get trip", err)
		return usecase.ExpenseInput{}, "", false
	}

	input, err := req.ToUseCaseInput(trip.Currency)
	if err != nil {
		writeServiceError(w, "invalid expense", err)
		return usecase.ExpenseInput{}, "", false
	}

	return input, trip.Currency, true
}

func (h *ExpenseHandler) writeExpense(w http.ResponseWriter, r *http.Request, status int, tripID, expenseID, currency string) {
	expense, err := h.expenses.GetExpense(r.Context(), tripID, expenseID)
	if err != nil {
		writeServiceError(w, "failed to get expense", err)
		return
	}

	writeJSON(w, status, dto.ExpenseFromDomain(*expense, currency))
}

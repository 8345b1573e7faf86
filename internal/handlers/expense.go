package handlers

import (
	"net/http"

	"trip-planner-backend/internal/middleware"
	"trip-planner-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// ExpenseHandler handles trip expense requests
type ExpenseHandler struct {
	expenseService *services.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ListExpenses handles GET /api/v1/trips/{trip_id}/expenses
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	expenses, err := h.expenseService.ListExpenses(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "trip_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to list expenses")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

// AddExpense handles POST /api/v1/trips/{trip_id}/expenses
func (h *ExpenseHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req services.AddExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	expense, err := h.expenseService.AddExpense(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "trip_id"), req)
	if err != nil {
		respondServiceError(w, err, "Failed to add expense")
		return
	}
	respondJSON(w, http.StatusCreated, expense)
}

// DeleteExpense handles DELETE /api/v1/trips/{trip_id}/expenses/{expense_id}
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.expenseService.DeleteExpense(ctx, middleware.GetUserID(ctx),
		chi.URLParam(r, "trip_id"), chi.URLParam(r, "expense_id"))
	if err != nil {
		respondServiceError(w, err, "Failed to delete expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trip-planner-backend/internal/aggregate"
	"trip-planner-backend/internal/models"

	"github.com/google/uuid"
)

const defaultCurrency = "USD"

// ExpenseService handles trip expenses
type ExpenseService struct {
	trips    TripStore
	expenses ExpenseStore
	recalc   *aggregate.Recalculator
	notifier Notifier
}

// NewExpenseService creates a new expense service
func NewExpenseService(trips TripStore, expenses ExpenseStore, recalc *aggregate.Recalculator, notifier Notifier) *ExpenseService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &ExpenseService{trips: trips, expenses: expenses, recalc: recalc, notifier: notifier}
}

// AddExpenseRequest is the body of an expense creation call
type AddExpenseRequest struct {
	Category    models.ExpenseCategory `json:"category"`
	Amount      float64                `json:"amount"`
	Currency    string                 `json:"currency"`
	Description string                 `json:"description"`
	Date        time.Time              `json:"date"`
	PlaceID     *string                `json:"place_id,omitempty"`
	Receipt     *string                `json:"receipt,omitempty"`
}

// ListExpenses returns the trip's expenses, most recent first
func (s *ExpenseService) ListExpenses(ctx context.Context, userID, tripID string) ([]*models.Expense, error) {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return nil, err
	}
	expenses, err := s.expenses.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// AddExpense records an expense and re-aggregates the trip total
func (s *ExpenseService) AddExpense(ctx context.Context, userID, tripID string, req AddExpenseRequest) (*models.Expense, error) {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return nil, err
	}

	category := req.Category
	if category == "" {
		category = models.ExpenseOther
	}
	if !category.Valid() {
		return nil, invalid("unknown category %q", req.Category)
	}
	if req.Amount < 0 {
		return nil, invalid("amount must not be negative")
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	expense := &models.Expense{
		ID:          uuid.New().String(),
		TripID:      tripID,
		Category:    category,
		Amount:      req.Amount,
		Currency:    currency,
		Description: strings.TrimSpace(req.Description),
		Date:        date,
		PlaceID:     req.PlaceID,
		Receipt:     req.Receipt,
		CreatedAt:   time.Now(),
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	if err := s.recalc.ExpenseAdded(ctx, tripID); err != nil {
		return nil, err
	}

	s.notifier.NotifyTripChanged(userID, tripID, "expense_added")
	return expense, nil
}

// DeleteExpense removes an expense and re-aggregates the trip total
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, tripID, expenseID string) error {
	if _, err := ownedTrip(ctx, s.trips, userID, tripID); err != nil {
		return err
	}
	if err := s.expenses.Delete(ctx, tripID, expenseID); err != nil {
		return err
	}
	if err := s.recalc.ExpenseRemoved(ctx, tripID); err != nil {
		return err
	}

	s.notifier.NotifyTripChanged(userID, tripID, "expense_deleted")
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"trip-planner-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// ExpenseRepository handles database operations for expenses
type ExpenseRepository struct {
	db DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseColumns = `id, trip_id, category, amount, currency, description, date, place_id, receipt, created_at`

func scanExpense(row scanner) (*models.Expense, error) {
	var e models.Expense
	err := row.Scan(
		&e.ID, &e.TripID, &e.Category, &e.Amount, &e.Currency, &e.Description,
		&e.Date, &e.PlaceID, &e.Receipt, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create creates a new expense
func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.TripID, e.Category, e.Amount, e.Currency, e.Description,
		e.Date, e.PlaceID, e.Receipt, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense of a trip
func (r *ExpenseRepository) GetByID(ctx context.Context, tripID, expenseID string) (*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1 AND trip_id = $2`
	expense, err := scanExpense(r.db.QueryRow(ctx, query, expenseID, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("expense %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// ListByTrip returns the trip's expenses, most recent first
func (r *ExpenseRepository) ListByTrip(ctx context.Context, tripID string) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE trip_id = $1 ORDER BY date DESC`
	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	expenses, err := collect(rows, scanExpense)
	if err != nil {
		return nil, fmt.Errorf("failed to scan expenses: %w", err)
	}
	return expenses, nil
}

// Delete deletes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, tripID, expenseID string) error {
	query := `DELETE FROM expenses WHERE id = $1 AND trip_id = $2`
	result, err := r.db.Exec(ctx, query, expenseID, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("expense %w", ErrNotFound)
	}
	return nil
}

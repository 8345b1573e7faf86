package services

import (
	"context"
	"sync"
	"testing"

	"trip-planner-backend/internal/aggregate"
	"trip-planner-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExpenseFixture(t *testing.T) (*memDB, *ExpenseService, *models.Trip) {
	t.Helper()
	db := newMemDB()
	trips := memTrips{db}
	svc := NewExpenseService(trips, memExpenses{db}, aggregate.NewRecalculator(trips), nil)
	return db, svc, db.seedTrip("user-1")
}

func TestAddExpense_ReaggregatesTotal(t *testing.T) {
	db, svc, trip := newExpenseFixture(t)
	ctx := context.Background()

	first, err := svc.AddExpense(ctx, "user-1", trip.ID, AddExpenseRequest{Amount: 10.005, Category: models.ExpenseFood})
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, "user-1", trip.ID, AddExpenseRequest{Amount: 10.005})
	require.NoError(t, err)

	stored := db.trip(trip.ID)
	assert.Equal(t, 2, stored.ExpensesCount)
	assert.Equal(t, 20.01, stored.TotalExpenses)

	require.NoError(t, svc.DeleteExpense(ctx, "user-1", trip.ID, first.ID))
	stored = db.trip(trip.ID)
	assert.Equal(t, 1, stored.ExpensesCount)
	assert.Equal(t, 10.01, stored.TotalExpenses)
}

func TestAddExpense_Defaults(t *testing.T) {
	_, svc, trip := newExpenseFixture(t)

	e, err := svc.AddExpense(context.Background(), "user-1", trip.ID, AddExpenseRequest{Amount: 5, Currency: " eur "})
	require.NoError(t, err)
	assert.Equal(t, models.ExpenseOther, e.Category)
	assert.Equal(t, "EUR", e.Currency)
	assert.False(t, e.Date.IsZero())

	e, err = svc.AddExpense(context.Background(), "user-1", trip.ID, AddExpenseRequest{Amount: 5})
	require.NoError(t, err)
	assert.Equal(t, defaultCurrency, e.Currency)
}

func TestAddExpense_Validation(t *testing.T) {
	db, svc, trip := newExpenseFixture(t)
	ctx := context.Background()

	_, err := svc.AddExpense(ctx, "user-1", trip.ID, AddExpenseRequest{Amount: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddExpense(ctx, "user-1", trip.ID, AddExpenseRequest{Amount: 1, Category: "souvenirs"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddExpense(ctx, "someone-else", trip.ID, AddExpenseRequest{Amount: 1})
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Equal(t, 0, db.trip(trip.ID).ExpensesCount)
}

func TestDeleteExpense_Missing(t *testing.T) {
	db, svc, trip := newExpenseFixture(t)

	err := svc.DeleteExpense(context.Background(), "user-1", trip.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, db.trip(trip.ID).ExpensesCount)
}

func TestAddExpense_ConcurrentCountsAreExact(t *testing.T) {
	db, svc, trip := newExpenseFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddExpense(ctx, "user-1", trip.ID, AddExpenseRequest{Amount: 1.25})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored := db.trip(trip.ID)
	assert.Equal(t, 20, stored.ExpensesCount)

	// the total is last-writer-wins; the final refresh sees every expense
	total, err := aggregate.NewRecalculator(memTrips{db}).RefreshTotal(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, total)
}

package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner-backend/internal/models"
)

func TestTravelSegmentRepository_Update(t *testing.T) {
	mock := newMock(t)
	repo := NewTravelSegmentRepository(mock)

	seat := "14C"
	notes := "window seat"
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE travel_segments SET updated_at = NOW(), seat_number = $1, notes = $2 WHERE id = $3 AND trip_id = $4",
	)).
		WithArgs(seat, notes, "seg-1", "trip-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), "trip-1", "seg-1", models.TravelSegmentUpdate{
		SeatNumber: &seat,
		Notes:      &notes,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTravelSegmentRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewTravelSegmentRepository(mock)

	provider := "TAP"
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE travel_segments SET updated_at = NOW(), provider = $1 WHERE id = $2 AND trip_id = $3",
	)).
		WithArgs(provider, "seg-9", "trip-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), "trip-1", "seg-9", models.TravelSegmentUpdate{Provider: &provider})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTravelSegmentRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewTravelSegmentRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM travel_segments WHERE id = $1 AND trip_id = $2")).
		WithArgs("seg-9", "trip-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "trip-1", "seg-9")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

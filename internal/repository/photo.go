package repository

import (
	"context"
	"errors"
	"fmt"

	"trip-planner-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// PhotoRepository handles database operations for photos
type PhotoRepository struct {
	db DB
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

const photoColumns = `id, trip_id, place_id, s3_key, url, thumbnail_url, caption, latitude, longitude, taken_at, uploaded_at`

func scanPhoto(row scanner) (*models.Photo, error) {
	var p models.Photo
	err := row.Scan(
		&p.ID, &p.TripID, &p.PlaceID, &p.S3Key, &p.URL, &p.ThumbnailURL, &p.Caption,
		&p.Latitude, &p.Longitude, &p.TakenAt, &p.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a new photo
func (r *PhotoRepository) Create(ctx context.Context, p *models.Photo) error {
	query := `
		INSERT INTO photos (` + photoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.TripID, p.PlaceID, p.S3Key, p.URL, p.ThumbnailURL, p.Caption,
		p.Latitude, p.Longitude, p.TakenAt, p.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

// GetByID retrieves a photo of a trip
func (r *PhotoRepository) GetByID(ctx context.Context, tripID, photoID string) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1 AND trip_id = $2`
	photo, err := scanPhoto(r.db.QueryRow(ctx, query, photoID, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("photo %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return photo, nil
}

// ListByTrip returns the trip's photos, latest upload first
func (r *PhotoRepository) ListByTrip(ctx context.Context, tripID string) ([]*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE trip_id = $1 ORDER BY uploaded_at DESC`
	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	photos, err := collect(rows, scanPhoto)
	if err != nil {
		return nil, fmt.Errorf("failed to scan photos: %w", err)
	}
	return photos, nil
}

// ListByPlace returns the photos attached to one place
func (r *PhotoRepository) ListByPlace(ctx context.Context, tripID, placeID string) ([]*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE trip_id = $1 AND place_id = $2 ORDER BY uploaded_at DESC`
	rows, err := r.db.Query(ctx, query, tripID, placeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list place photos: %w", err)
	}
	photos, err := collect(rows, scanPhoto)
	if err != nil {
		return nil, fmt.Errorf("failed to scan photos: %w", err)
	}
	return photos, nil
}

// ListKeysByTrip returns the S3 keys of every photo of the trip
func (r *PhotoRepository) ListKeysByTrip(ctx context.Context, tripID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT s3_key FROM photos WHERE trip_id = $1`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photo keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan photo key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photo keys: %w", err)
	}
	return keys, nil
}

// Delete deletes a photo record
func (r *PhotoRepository) Delete(ctx context.Context, tripID, photoID string) error {
	query := `DELETE FROM photos WHERE id = $1 AND trip_id = $2`
	result, err := r.db.Exec(ctx, query, photoID, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("photo %w", ErrNotFound)
	}
	return nil
}

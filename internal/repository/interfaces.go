// Package repository provides data access to the prediction store.
package repository

import (
	"context"
	"time"

	"github.com/yourusername/hindsight/internal/models"
)

// PredictionRepository handles persistence operations for prediction records
type PredictionRepository interface {
	// GetSettledByDateRange retrieves settled predictions within a date range,
	// optionally filtered by league. Results are ordered by predicted_at.
	GetSettledByDateRange(ctx context.Context, start, end time.Time, league string) ([]*models.PredictionRecord, error)

	// GetByMatchID retrieves all predictions for a single match
	GetByMatchID(ctx context.Context, matchID string) ([]*models.PredictionRecord, error)

	// GetAlgorithmIDs retrieves the distinct algorithm identifiers present in the store
	GetAlgorithmIDs(ctx context.Context) ([]string, error)
}

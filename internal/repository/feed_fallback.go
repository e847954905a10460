package repository

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/hindsight/internal/models"
)

// SettledSource provides settled predictions from outside the database.
type SettledSource interface {
	FetchSettled(ctx context.Context, start, end time.Time, league string) ([]*models.PredictionRecord, error)
}

// FeedFallbackRepository serves range queries from the database and backfills
// from an external feed when the database has no rows for the range.
type FeedFallbackRepository struct {
	inner  PredictionRepository
	source SettledSource
	logger *logrus.Logger
}

// NewFeedFallbackRepository wraps a prediction repository with a feed fallback
func NewFeedFallbackRepository(inner PredictionRepository, source SettledSource, logger *logrus.Logger) *FeedFallbackRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &FeedFallbackRepository{
		inner:  inner,
		source: source,
		logger: logger,
	}
}

// GetSettledByDateRange reads from the database first and falls back to the
// feed when the database errors or has no rows for the range.
func (r *FeedFallbackRepository) GetSettledByDateRange(ctx context.Context, start, end time.Time, league string) ([]*models.PredictionRecord, error) {
	records, err := r.inner.GetSettledByDateRange(ctx, start, end, league)
	if err == nil && len(records) > 0 {
		return records, nil
	}
	if err != nil {
		r.logger.WithError(err).Warn("Database range lookup failed, falling back to prediction feed")
	} else {
		r.logger.WithFields(logrus.Fields{
			"start": start.Format("2006-01-02"),
			"end":   end.Format("2006-01-02"),
		}).Info("No predictions in database for range, backfilling from feed")
	}
	return r.source.FetchSettled(ctx, start, end, league)
}

// GetByMatchID delegates to the database repository
func (r *FeedFallbackRepository) GetByMatchID(ctx context.Context, matchID string) ([]*models.PredictionRecord, error) {
	return r.inner.GetByMatchID(ctx, matchID)
}

// GetAlgorithmIDs delegates to the database repository
func (r *FeedFallbackRepository) GetAlgorithmIDs(ctx context.Context) ([]string, error) {
	return r.inner.GetAlgorithmIDs(ctx)
}

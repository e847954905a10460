package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/hindsight/internal/database"
	"github.com/yourusername/hindsight/internal/models"
)

const predictionColumns = `match_id, algorithm_id, prediction, confidence, status, predicted_at,
	       league, home_team, away_team, home_score, away_score,
	       projected_home_score, projected_away_score`

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// GetSettledByDateRange retrieves settled predictions within a date range
func (r *PostgresPredictionRepository) GetSettledByDateRange(ctx context.Context, start, end time.Time, league string) ([]*models.PredictionRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM predictions
		WHERE status IN ('won', 'lost')
		  AND predicted_at >= $1 AND predicted_at <= $2
		  AND ($3 = '' OR league = $3)
		ORDER BY predicted_at ASC
	`, predictionColumns)

	rows, err := r.db.GetPool().Query(ctx, query, start, end, league)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by date range: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetByMatchID retrieves all predictions for a single match
func (r *PostgresPredictionRepository) GetByMatchID(ctx context.Context, matchID string) ([]*models.PredictionRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM predictions
		WHERE match_id = $1
		ORDER BY predicted_at ASC
	`, predictionColumns)

	rows, err := r.db.GetPool().Query(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by match: %w", err)
	}
	defer rows.Close()

	records, err := scanPredictions(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, models.ErrNotFound
	}

	return records, nil
}

// GetAlgorithmIDs retrieves the distinct algorithm identifiers present in the store
func (r *PostgresPredictionRepository) GetAlgorithmIDs(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT algorithm_id FROM predictions ORDER BY algorithm_id`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query algorithm ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan algorithm id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// scanPredictions reads prediction rows into records
func scanPredictions(rows pgx.Rows) ([]*models.PredictionRecord, error) {
	var records []*models.PredictionRecord
	for rows.Next() {
		record := &models.PredictionRecord{}
		err := rows.Scan(
			&record.MatchID, &record.AlgorithmID, &record.Prediction, &record.Confidence,
			&record.Status, &record.PredictedAt, &record.League, &record.HomeTeam, &record.AwayTeam,
			&record.HomeScore, &record.AwayScore, &record.ProjectedHomeScore, &record.ProjectedAwayScore,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

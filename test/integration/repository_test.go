//go:build integration

package integration

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/hindsight/internal/backtest"
	"github.com/yourusername/hindsight/internal/config"
	"github.com/yourusername/hindsight/internal/database"
	"github.com/yourusername/hindsight/internal/logger"
	"github.com/yourusername/hindsight/internal/models"
	"github.com/yourusername/hindsight/internal/repository"
)

const skipIntegration = "Skipping integration test in short mode"

const createPredictionsTable = `
	CREATE TABLE IF NOT EXISTS predictions (
		match_id TEXT NOT NULL,
		algorithm_id TEXT NOT NULL,
		prediction TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL,
		predicted_at TIMESTAMPTZ NOT NULL,
		league TEXT NOT NULL DEFAULT '',
		home_team TEXT NOT NULL DEFAULT '',
		away_team TEXT NOT NULL DEFAULT '',
		home_score INT,
		away_score INT,
		projected_home_score DOUBLE PRECISION,
		projected_away_score DOUBLE PRECISION,
		PRIMARY KEY (match_id, algorithm_id)
	)`

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Host:           envOr("TEST_DB_HOST", "localhost"),
		Port:           envIntOr("TEST_DB_PORT", 5432),
		User:           envOr("TEST_DB_USER", "test"),
		Password:       envOr("TEST_DB_PASSWORD", "test"),
		Name:           envOr("TEST_DB_NAME", "hindsight_test"),
		SSLMode:        "disable",
		MaxConnections: 4,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.NewDB(ctx, cfg)
	require.NoError(t, err, "failed to connect to test database")

	_, err = db.GetPool().Exec(ctx, createPredictionsTable)
	require.NoError(t, err, "failed to create predictions table")

	_, err = db.GetPool().Exec(ctx, "TRUNCATE predictions")
	require.NoError(t, err)

	return db
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func insertPrediction(t *testing.T, db *database.DB, record *models.PredictionRecord) {
	t.Helper()

	_, err := db.GetPool().Exec(context.Background(), `
		INSERT INTO predictions (match_id, algorithm_id, prediction, confidence, status,
			predicted_at, league, home_team, away_team)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.MatchID, record.AlgorithmID, record.Prediction, record.Confidence,
		record.Status, record.PredictedAt, record.League, record.HomeTeam, record.AwayTeam,
	)
	require.NoError(t, err)
}

func seedPredictions(t *testing.T, db *database.DB, base time.Time) {
	t.Helper()

	records := []*models.PredictionRecord{
		{MatchID: "m1", AlgorithmID: "elo", Prediction: "Hawks to win", Confidence: 72,
			Status: models.PredictionStatusWon, PredictedAt: base,
			League: "NBA", HomeTeam: "Hawks", AwayTeam: "Eagles"},
		{MatchID: "m1", AlgorithmID: "poisson", Prediction: "Hawks to win", Confidence: 64,
			Status: models.PredictionStatusWon, PredictedAt: base,
			League: "NBA", HomeTeam: "Hawks", AwayTeam: "Eagles"},
		{MatchID: "m2", AlgorithmID: "elo", Prediction: "Bulls to win", Confidence: 58,
			Status: models.PredictionStatusLost, PredictedAt: base.Add(24 * time.Hour),
			League: "NBA", HomeTeam: "Bulls", AwayTeam: "Knicks"},
		{MatchID: "m3", AlgorithmID: "elo", Prediction: "Rangers to win", Confidence: 66,
			Status: models.PredictionStatusPending, PredictedAt: base.Add(48 * time.Hour),
			League: "NHL", HomeTeam: "Rangers", AwayTeam: "Devils"},
	}
	for _, record := range records {
		insertPrediction(t, db, record)
	}
}

// TestPredictionRepositoryIntegration tests the repository against a real PostgreSQL
func TestPredictionRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	ctx := context.Background()
	db := setupTestDB(t)
	defer db.Close()

	base := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	seedPredictions(t, db, base)

	repo := repository.NewPostgresPredictionRepository(db)

	t.Run("GetSettledByDateRange", func(t *testing.T) {
		records, err := repo.GetSettledByDateRange(ctx, base.Add(-time.Hour), base.Add(72*time.Hour), "")
		require.NoError(t, err)
		require.Len(t, records, 3, "pending predictions must be excluded")

		for i := 1; i < len(records); i++ {
			assert.False(t, records[i].PredictedAt.Before(records[i-1].PredictedAt),
				"records must be ordered by predicted_at")
		}
	})

	t.Run("GetSettledByDateRangeLeagueFilter", func(t *testing.T) {
		records, err := repo.GetSettledByDateRange(ctx, base.Add(-time.Hour), base.Add(72*time.Hour), "NBA")
		require.NoError(t, err)
		assert.Len(t, records, 3)

		records, err = repo.GetSettledByDateRange(ctx, base.Add(-time.Hour), base.Add(72*time.Hour), "NHL")
		require.NoError(t, err)
		assert.Empty(t, records, "the only NHL prediction is pending")
	})

	t.Run("GetByMatchID", func(t *testing.T) {
		records, err := repo.GetByMatchID(ctx, "m1")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Hawks", records[0].HomeTeam)

		_, err = repo.GetByMatchID(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("GetAlgorithmIDs", func(t *testing.T) {
		ids, err := repo.GetAlgorithmIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"elo", "poisson"}, ids)
	})

	t.Run("CachedRepository", func(t *testing.T) {
		cached := repository.NewCachedPredictionRepository(repo, time.Minute)

		first, err := cached.GetByMatchID(ctx, "m1")
		require.NoError(t, err)

		// Mutate the row behind the cache; a second read must not see it.
		_, err = db.GetPool().Exec(ctx, "UPDATE predictions SET confidence = 99 WHERE match_id = 'm1'")
		require.NoError(t, err)

		second, err := cached.GetByMatchID(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, first[0].Confidence, second[0].Confidence)

		cached.Flush()
		third, err := cached.GetByMatchID(ctx, "m1")
		require.NoError(t, err)
		assert.Equal(t, 99.0, third[0].Confidence)
	})
}

// TestBacktestEngineIntegration runs a full simulation over database-backed predictions
func TestBacktestEngineIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	ctx := context.Background()
	db := setupTestDB(t)
	defer db.Close()

	base := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	seedPredictions(t, db, base)

	repos, err := repository.NewRepositories(db, time.Minute)
	require.NoError(t, err)

	log := logger.NewLogger("error")
	engine, err := backtest.NewEngine(repos.Prediction, log)
	require.NoError(t, err)

	result, err := engine.Run(ctx, backtest.SimulationConfig{
		Strategy:         "highest_confidence",
		StartingBankroll: 1000,
		StakeType:        "flat",
		StakeAmount:      100,
		StartDate:        base.Add(-time.Hour),
		EndDate:          base.Add(72 * time.Hour),
	})
	require.NoError(t, err)

	// One win on m1 and one loss on m2; the pending m3 never reaches the simulator.
	assert.Equal(t, 2, result.TotalBets)
	assert.Equal(t, 1, result.Wins)
	assert.Equal(t, 1, result.Losses)
	assert.InDelta(t, 1000+100*0.9091-100, result.FinalBankroll, 0.01)
}

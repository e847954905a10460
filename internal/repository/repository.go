package repository

import (
	"fmt"
	"time"

	"github.com/yourusername/hindsight/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Prediction PredictionRepository
}

// NewRepositories creates and returns all repository implementations.
// When cacheTTL is positive, the prediction repository is wrapped with a TTL cache.
func NewRepositories(db *database.DB, cacheTTL time.Duration) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	prediction := NewPostgresPredictionRepository(db)
	if cacheTTL > 0 {
		prediction = NewCachedPredictionRepository(prediction, cacheTTL)
	}

	return &Repositories{
		Prediction: prediction,
	}, nil
}

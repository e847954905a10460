package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/hindsight/internal/config"
	"github.com/yourusername/hindsight/internal/metrics"
	"github.com/yourusername/hindsight/internal/models"
)

// FeedConfig holds settings for the prediction feed client
type FeedConfig struct {
	BaseURL string
	APIKey  string
	HTTP    HTTPClientConfig
}

// PredictionFeed fetches settled prediction records from an HTTP feed.
// It backfills the prediction store when the database has gaps.
type PredictionFeed struct {
	cfg    FeedConfig
	client *RateLimitedHTTPClient
	logger *logrus.Logger
}

// feedPrediction mirrors the feed's wire format. Numeric fields arrive as
// strings with vendor-specific precision, so they are parsed with decimals.
type feedPrediction struct {
	MatchID            string `json:"match_id"`
	AlgorithmID        string `json:"algorithm_id"`
	Prediction         string `json:"prediction"`
	Confidence         string `json:"confidence"`
	Status             string `json:"status"`
	PredictedAt        string `json:"predicted_at"`
	League             string `json:"league"`
	HomeTeam           string `json:"home_team"`
	AwayTeam           string `json:"away_team"`
	HomeScore          *int   `json:"home_score"`
	AwayScore          *int   `json:"away_score"`
	ProjectedHomeScore string `json:"projected_home_score"`
	ProjectedAwayScore string `json:"projected_away_score"`
}

type feedResponse struct {
	Predictions []feedPrediction `json:"predictions"`
}

// NewPredictionFeed creates a feed client
func NewPredictionFeed(cfg FeedConfig, logger *logrus.Logger) *PredictionFeed {
	if logger == nil {
		logger = logrus.New()
	}
	return &PredictionFeed{
		cfg:    cfg,
		client: NewRateLimitedHTTPClient(cfg.HTTP, nil),
		logger: logger,
	}
}

// NewPredictionFeedFromConfig builds a feed client from app configuration,
// filling unset HTTP settings with defaults
func NewPredictionFeedFromConfig(cfg *config.FeedConfig, logger *logrus.Logger) *PredictionFeed {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.MaxRetries > 0 {
		httpCfg.MaxRetries = cfg.MaxRetries
	}
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}
	return NewPredictionFeed(FeedConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		HTTP:    httpCfg,
	}, logger)
}

// FetchSettled retrieves settled predictions within a date range from the feed
func (f *PredictionFeed) FetchSettled(ctx context.Context, start, end time.Time, league string) ([]*models.PredictionRecord, error) {
	endpoint, err := f.buildURL(start, end, league)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	if f.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.cfg.APIKey)
	}

	resp, err := f.client.Do(ctx, req)
	if err != nil {
		metrics.RecordPredictionFetch("failure")
		return nil, fmt.Errorf("%w: %v", models.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordPredictionFetch("failure")
		return nil, fmt.Errorf("%w: feed returned status %d", models.ErrFeedUnavailable, resp.StatusCode)
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.RecordPredictionFetch("failure")
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}

	records := make([]*models.PredictionRecord, 0, len(payload.Predictions))
	for _, raw := range payload.Predictions {
		record, err := normalizePrediction(raw)
		if err != nil {
			f.logger.WithFields(logrus.Fields{
				"match_id":  raw.MatchID,
				"algorithm": raw.AlgorithmID,
				"error":     err,
			}).Warn("Skipping malformed feed prediction")
			continue
		}
		records = append(records, record)
	}

	metrics.RecordPredictionFetch("success")
	f.logger.WithFields(logrus.Fields{
		"count":  len(records),
		"league": league,
	}).Debug("Fetched predictions from feed")

	return records, nil
}

// buildURL assembles the feed query URL
func (f *PredictionFeed) buildURL(start, end time.Time, league string) (string, error) {
	base, err := url.Parse(f.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid feed base URL: %w", err)
	}
	base = base.JoinPath("predictions", "settled")

	q := base.Query()
	q.Set("start", start.Format("2006-01-02"))
	q.Set("end", end.Format("2006-01-02"))
	if league != "" {
		q.Set("league", league)
	}
	base.RawQuery = q.Encode()

	return base.String(), nil
}

// normalizePrediction converts a wire prediction into a record
func normalizePrediction(raw feedPrediction) (*models.PredictionRecord, error) {
	confidence, err := decimal.NewFromString(raw.Confidence)
	if err != nil {
		return nil, fmt.Errorf("invalid confidence %q: %w", raw.Confidence, err)
	}

	predictedAt, err := time.Parse(time.RFC3339, raw.PredictedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid predicted_at %q: %w", raw.PredictedAt, err)
	}

	record := &models.PredictionRecord{
		MatchID:     raw.MatchID,
		AlgorithmID: raw.AlgorithmID,
		Prediction:  raw.Prediction,
		Confidence:  confidence.InexactFloat64(),
		Status:      models.PredictionStatus(raw.Status),
		PredictedAt: predictedAt,
		League:      raw.League,
		HomeTeam:    raw.HomeTeam,
		AwayTeam:    raw.AwayTeam,
		HomeScore:   raw.HomeScore,
		AwayScore:   raw.AwayScore,
	}

	if raw.ProjectedHomeScore != "" {
		projected, err := decimal.NewFromString(raw.ProjectedHomeScore)
		if err != nil {
			return nil, fmt.Errorf("invalid projected_home_score %q: %w", raw.ProjectedHomeScore, err)
		}
		v := projected.InexactFloat64()
		record.ProjectedHomeScore = &v
	}
	if raw.ProjectedAwayScore != "" {
		projected, err := decimal.NewFromString(raw.ProjectedAwayScore)
		if err != nil {
			return nil, fmt.Errorf("invalid projected_away_score %q: %w", raw.ProjectedAwayScore, err)
		}
		v := projected.InexactFloat64()
		record.ProjectedAwayScore = &v
	}

	return record, nil
}

// Close releases feed client resources
func (f *PredictionFeed) Close() error {
	return f.client.Close()
}

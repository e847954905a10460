package models

import "errors"

// Custom errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrNoPredictions     = errors.New("no settled predictions in range")
	ErrInvalidStakeType  = errors.New("invalid stake type")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrFeedUnavailable   = errors.New("prediction feed unavailable")
	ErrStrategyNameEmpty = errors.New("strategy name is required")
)

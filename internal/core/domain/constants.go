package domain

import (
	"errors"
	"fmt"
)

var (
	ErrExplainNotImplemented = errors.New("explain is not implemented for this model")
	ErrNoPredictor           = errors.New("no predictor configured for this model")
	ErrModelNotFound         = errors.New("model not found")

	errPredictionsNotArray = errors.New("predictions field is not an array")
)

// UpstreamError carries a non-200 reply from a backend service.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

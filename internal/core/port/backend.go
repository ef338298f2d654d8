package port

import (
	"context"
	"imgserve/internal/core/domain"
)

type Predictor interface {
	Predict(ctx context.Context, model string, request *domain.Request, headers map[string]string) (*domain.Response, error)
}

type Explainer interface {
	Explain(ctx context.Context, model string, request *domain.Request, headers map[string]string) (*domain.Response, error)
}

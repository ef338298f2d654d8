package port

import (
	"context"
	"imgserve/internal/core/domain"
)

type Model interface {
	// Name retrieves the model identifier used to build inference URLs.
	Name() string
	// Preprocess transforms the raw payload of every instance in the request into model input,
	// preserving instance order.
	Preprocess(ctx context.Context, request *domain.Request, headers map[string]string) (*domain.Request, error)
	// Predict forwards a preprocessed request to the predictor backend and returns its response.
	Predict(ctx context.Context, request *domain.Request, headers map[string]string) (*domain.Response, error)
	// Explain forwards a preprocessed request to the explainer backend and returns its response.
	Explain(ctx context.Context, request *domain.Request, headers map[string]string) (*domain.Response, error)
	// Postprocess gives the model a final look at the backend response before it is returned.
	Postprocess(ctx context.Context, response *domain.Response) (*domain.Response, error)
}

type ModelRegistry interface {
	// Register adds a model to the registry under its name.
	Register(model Model)
	// Get retrieves a registered Model by name or returns an error if not found.
	Get(name string) (Model, error)
	// ListModels returns the names of all registered models.
	ListModels() []string
}

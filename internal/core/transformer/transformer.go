package transformer

import (
	"context"
	"errors"
	"fmt"
	"imgserve/internal/core/domain"
	"imgserve/internal/core/port"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog/log"
)

// ImageTransformer adapts image-classification requests for a predictor
// backend and proxies explain calls to an explainer backend.
type ImageTransformer struct {
	name      string
	predictor port.Predictor
	explainer port.Explainer
	imageSize uint
}

// NewImageTransformer builds a transformer serving the given model name. A nil
// explainer disables explain calls; an imageSize of 0 keeps input dimensions.
func NewImageTransformer(name string, predictor port.Predictor, explainer port.Explainer,
	imageSize uint) *ImageTransformer {
	log.Info().Str("model", name).Msg("initializing image transformer")

	return &ImageTransformer{name: name, predictor: predictor, explainer: explainer, imageSize: imageSize}
}

func (t *ImageTransformer) Name() string {
	return t.name
}

func (t *ImageTransformer) Preprocess(_ context.Context, request *domain.Request,
	_ map[string]string) (*domain.Request, error) {
	instances := make([]domain.Instance, len(request.Instances))

	for i, instance := range request.Instances {
		transformed, err := t.transform(instance)
		if err != nil {
			return nil, fmt.Errorf("error transforming instance %d: %w", i, err)
		}

		instances[i] = transformed
	}

	return &domain.Request{Instances: instances, Extra: request.Extra}, nil
}

func (t *ImageTransformer) transform(instance domain.Instance) (domain.Instance, error) {
	data, ok := instance.Data.(string)
	if !ok {
		return domain.Instance{}, errors.New("instance data is not a base64 string")
	}

	img, err := decodeImage(data)
	if err != nil {
		return domain.Instance{}, err
	}

	if t.imageSize > 0 {
		img = resize.Resize(t.imageSize, t.imageSize, img, resize.Lanczos3)
	}

	instance.Data = imageToTensor(img)

	log.Debug().Interface("instance", instance).Msg("transformed instance")

	return instance, nil
}

func (t *ImageTransformer) Predict(ctx context.Context, request *domain.Request,
	headers map[string]string) (*domain.Response, error) {
	if t.predictor == nil {
		return nil, domain.ErrNoPredictor
	}

	return t.predictor.Predict(ctx, t.name, request, headers)
}

func (t *ImageTransformer) Explain(ctx context.Context, request *domain.Request,
	headers map[string]string) (*domain.Response, error) {
	if t.explainer == nil {
		return nil, domain.ErrExplainNotImplemented
	}

	return t.explainer.Explain(ctx, t.name, request, headers)
}

func (t *ImageTransformer) Postprocess(_ context.Context, response *domain.Response) (*domain.Response, error) {
	return response, nil
}

package registry

import (
	"errors"
	"imgserve/internal/core/domain"
	"imgserve/internal/core/port"
	"sort"

	"github.com/rs/zerolog/log"
)

type Registry struct {
	models map[string]port.Model
}

func (r *Registry) Register(model port.Model) {
	if r.models == nil {
		r.models = make(map[string]port.Model)
	}

	log.Info().Str("model", model.Name()).Msg("adding model to registry")
	r.models[model.Name()] = model
}

func (r *Registry) Get(name string) (port.Model, error) {
	log.Debug().Str("model", name).Msg("fetching model from registry")

	if r.models == nil {
		err := errors.New("can't fetch model, registry not initialized")
		return nil, err
	}

	model, ok := r.models[name]
	if !ok {
		return nil, domain.ErrModelNotFound
	}

	return model, nil
}

func (r *Registry) ListModels() []string {
	keys := make([]string, len(r.models))

	i := 0
	for k := range r.models {
		keys[i] = k
		i++
	}

	sort.Strings(keys)

	return keys
}

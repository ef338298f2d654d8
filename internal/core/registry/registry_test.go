package registry

import (
	"context"
	"imgserve/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockModel struct {
	name string
}

func (m *MockModel) Name() string {
	return m.name
}

func (m *MockModel) Preprocess(_ context.Context, request *domain.Request, _ map[string]string) (*domain.Request, error) {
	return request, nil
}

func (m *MockModel) Predict(_ context.Context, _ *domain.Request, _ map[string]string) (*domain.Response, error) {
	return &domain.Response{}, nil
}

func (m *MockModel) Explain(_ context.Context, _ *domain.Request, _ map[string]string) (*domain.Response, error) {
	return &domain.Response{}, nil
}

func (m *MockModel) Postprocess(_ context.Context, response *domain.Response) (*domain.Response, error) {
	return response, nil
}

func TestRegister(t *testing.T) {
	mr := &Registry{}
	mm := &MockModel{name: "mnist"}

	mr.Register(mm)
	assert.Len(t, mr.models, 1)
}

func TestGetNotRegistered(t *testing.T) {
	mr := &Registry{}

	_, err := mr.Get("mnist")
	require.Errorf(t, err, "can't fetch model, registry not initialized")
}

func TestGetModelNotFound(t *testing.T) {
	mr := &Registry{}
	mm := &MockModel{name: "mnist"}

	mr.Register(mm)
	assert.Len(t, mr.models, 1)

	_, err := mr.Get("cifar10")
	require.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestGetModelFound(t *testing.T) {
	mr := &Registry{}
	mm := &MockModel{name: "mnist"}

	mr.Register(mm)
	assert.Len(t, mr.models, 1)

	model, err := mr.Get("mnist")
	require.NoError(t, err)
	assert.NotNil(t, model)

	assert.Equal(t, "mnist", model.Name())
}

func TestListModels(t *testing.T) {
	mr := &Registry{}
	mm1 := &MockModel{name: "mnist"}
	mm2 := &MockModel{name: "cifar10"}

	mr.Register(mm1)
	mr.Register(mm2)
	assert.Len(t, mr.models, 2)

	list := mr.ListModels()

	assert.Equal(t, []string{"cifar10", "mnist"}, list)
}

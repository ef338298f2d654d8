package rest

import (
	"encoding/json"
	"imgserve/internal/core/domain"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientExplain(t *testing.T) {
	tests := []struct {
		name           string
		responseBody   string
		responseStatus int
		wantErr        bool
		wantStatus     int
		wantBody       string
	}{
		{
			name:           "success",
			responseBody:   `{"explanations": [1, 2, 3]}`,
			responseStatus: http.StatusOK,
		},
		{
			name:           "upstream error",
			responseBody:   "server error",
			responseStatus: http.StatusInternalServerError,
			wantErr:        true,
			wantStatus:     http.StatusInternalServerError,
			wantBody:       "server error",
		},
		{
			name:           "malformed JSON",
			responseBody:   "{not_json}",
			responseStatus: http.StatusOK,
			wantErr:        true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				w.WriteHeader(tc.responseStatus)
				w.Write([]byte(tc.responseBody))
			}))
			defer srv.Close()

			c := NewClient(strings.TrimPrefix(srv.URL, "http://"), 5*time.Second)

			got, err := c.Explain(t.Context(), "mnist", &domain.Request{}, nil)

			assert.Equal(t, "/v1/models/mnist:explain", gotPath)

			if tc.wantErr {
				require.Error(t, err)
				if tc.wantStatus != 0 {
					var upstream *domain.UpstreamError
					require.ErrorAs(t, err, &upstream)
					assert.Equal(t, tc.wantStatus, upstream.StatusCode)
					assert.Equal(t, tc.wantBody, upstream.Body)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, []any{float64(1), float64(2), float64(3)}, got.Extra["explanations"])
		})
	}
}

func TestClientPredict(t *testing.T) {
	var gotRequest domain.Request
	var gotHeader string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models/mnist:predict", r.URL.Path)
		gotHeader = r.Header.Get("X-Request-Id")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		w.Write([]byte(`{"predictions": [[0.1, 0.9]]}`))
	}))
	defer srv.Close()

	c := NewClient(strings.TrimPrefix(srv.URL, "http://"), 5*time.Second)

	request := &domain.Request{Instances: []domain.Instance{{Data: []any{1.0, 2.0}}}}
	headers := map[string]string{"X-Request-Id": "abc-123"}

	got, err := c.Predict(t.Context(), "mnist", request, headers)
	require.NoError(t, err)

	assert.Equal(t, "abc-123", gotHeader)
	require.Len(t, gotRequest.Instances, 1)
	assert.Equal(t, []any{1.0, 2.0}, gotRequest.Instances[0].Data)

	require.Len(t, got.Predictions, 1)
	assert.Equal(t, []any{0.1, 0.9}, got.Predictions[0])
}

func TestClientPredictUnreachableBackend(t *testing.T) {
	c := NewClient("localhost:1", 500*time.Millisecond)

	_, err := c.Predict(t.Context(), "mnist", &domain.Request{}, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "predict request")
}

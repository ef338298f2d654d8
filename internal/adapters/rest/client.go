package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"imgserve/internal/core/domain"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const inferenceURLFormat = "http://%s/v1/models/%s:%s"

// Client calls a model-serving backend over the v1 inference REST protocol.
type Client struct {
	host       string
	httpClient *http.Client
}

// NewClient binds a client to a backend host. Requests fail after the given
// timeout; there is no retry.
func NewClient(host string, timeout time.Duration) *Client {
	return &Client{host: host, httpClient: &http.Client{Timeout: timeout}}
}

func (c *Client) Predict(ctx context.Context, model string, request *domain.Request,
	headers map[string]string) (*domain.Response, error) {
	return c.post(ctx, model, "predict", request, headers)
}

func (c *Client) Explain(ctx context.Context, model string, request *domain.Request,
	headers map[string]string) (*domain.Response, error) {
	return c.post(ctx, model, "explain", request, headers)
}

func (c *Client) post(ctx context.Context, model, verb string, request *domain.Request,
	headers map[string]string) (*domain.Response, error) {
	payloadBuf := new(bytes.Buffer)
	if err := json.NewEncoder(payloadBuf).Encode(request); err != nil {
		return nil, fmt.Errorf("error encoding %s request: %w", verb, err)
	}

	url := fmt.Sprintf(inferenceURLFormat, c.host, model, verb)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, payloadBuf)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("error creating POST request for backend")
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error executing %s request: %w", verb, err)
	}

	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading %s response: %w", verb, err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{StatusCode: res.StatusCode, Body: string(body)}
	}

	log.Debug().Str("url", url).Int("bytes", len(body)).Msg("backend response received")

	var result domain.Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("error unmarshalling %s response: %w", verb, err)
	}

	return &result, nil
}

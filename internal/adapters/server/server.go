package server

import (
	"context"
	"errors"
	"fmt"
	"imgserve/internal/core/domain"
	"imgserve/internal/core/port"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	verbPredict = "predict"
	verbExplain = "explain"
)

// Server hosts registered models over the v1 inference REST protocol.
type Server struct {
	models         port.ModelRegistry
	listenAddr     string
	requestTimeout time.Duration
}

func New(models port.ModelRegistry, listenAddr string, requestTimeout time.Duration) *Server {
	return &Server{models: models, listenAddr: listenAddr, requestTimeout: requestTimeout}
}

// Router builds the gin engine with all inference routes attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID())

	router.GET("/", s.handleLive)
	router.GET("/v1/models", s.handleListModels)
	router.GET("/v1/models/:name", s.handleModelReady)
	router.POST("/v1/models/:model", s.handleInfer)

	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.listenAddr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	log.Info().Str("addr", s.listenAddr).Msg("server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}

		return <-errCh
	}
}

func (s *Server) handleLive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (s *Server) handleListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": s.models.ListModels()})
}

func (s *Server) handleModelReady(c *gin.Context) {
	name := c.Param("name")

	if _, err := s.models.Get(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("model %q not found", name)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": name, "ready": true})
}

// handleInfer serves POST /v1/models/<name>:predict and <name>:explain. The
// verb travels inside the last path segment, so it is split off the route
// parameter here.
func (s *Server) handleInfer(c *gin.Context) {
	name, verb, found := strings.Cut(c.Param("model"), ":")
	if !found || (verb != verbPredict && verb != verbExplain) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown inference verb"})
		return
	}

	model, err := s.models.Get(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("model %q not found", name)})
		return
	}

	var request domain.Request
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	l := log.With().
		Str("model", name).
		Str("verb", verb).
		Str("requestId", c.GetString(requestIDKey)).
		Logger()

	l.Info().Int("instances", len(request.Instances)).Msg("handling inference request")

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.requestTimeout)
	defer cancel()

	headers := flattenHeaders(c.Request.Header)

	processed, err := model.Preprocess(ctx, &request, headers)
	if err != nil {
		l.Warn().Err(err).Msg("preprocess failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var response *domain.Response
	switch verb {
	case verbPredict:
		response, err = model.Predict(ctx, processed, headers)
	case verbExplain:
		response, err = model.Explain(ctx, processed, headers)
	}

	if err != nil {
		l.Error().Err(err).Msg("backend call failed")
		writeBackendError(c, err)
		return
	}

	response, err = model.Postprocess(ctx, response)
	if err != nil {
		l.Error().Err(err).Msg("postprocess failed")
		writeBackendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func writeBackendError(c *gin.Context, err error) {
	var upstream *domain.UpstreamError
	var netErr net.Error

	switch {
	case errors.Is(err, domain.ErrExplainNotImplemented):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	case errors.As(err, &upstream):
		c.JSON(upstream.StatusCode, gin.H{"error": upstream.Body})
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "backend request timed out"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func flattenHeaders(header http.Header) map[string]string {
	headers := make(map[string]string, len(header))
	for k, v := range header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	return headers
}

package main

import (
	"context"
	"imgserve/internal/adapters/rest"
	"imgserve/internal/adapters/server"
	"imgserve/internal/core/port"
	"imgserve/internal/core/registry"
	"imgserve/internal/core/transformer"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting imgserve...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("server.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	modelName := viper.GetString("model.name")
	if modelName == "" {
		log.Fatal().Msg("model.name is required")
	}

	predictorHost := viper.GetString("model.predictor_host")
	if predictorHost == "" {
		log.Fatal().Msg("model.predictor_host is required")
	}

	viper.SetDefault("model.timeout", "100s")
	backendTimeout, err := time.ParseDuration(viper.GetString("model.timeout"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid timeout for backend calls in config")
	}

	predictor := rest.NewClient(predictorHost, backendTimeout)

	var explainer port.Explainer

	explainerHost := viper.GetString("model.explainer_host")
	if explainerHost != "" {
		explainer = rest.NewClient(explainerHost, backendTimeout)
	} else {
		log.Info().Msg("no explainer host configured, explain calls disabled")
	}

	log.Info().
		Str("model", modelName).
		Str("predictorHost", predictorHost).
		Str("explainerHost", explainerHost).
		Msg("wiring image transformer")

	model := transformer.NewImageTransformer(modelName, predictor, explainer,
		viper.GetUint("model.image_size"))

	modelRegistry := &registry.Registry{}
	modelRegistry.Register(model)

	viper.SetDefault("server.listen_addr", ":8080")
	viper.SetDefault("server.request_timeout", "110s")

	requestTimeout, err := time.ParseDuration(viper.GetString("server.request_timeout"))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid timeout for requests in config")
	}

	srv := server.New(modelRegistry, viper.GetString("server.listen_addr"), requestTimeout)

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("imgserve stopped")
}

package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/companyhub/companies-api/internal/pkg/config"
	"github.com/companyhub/companies-api/pkg/logger"
)

const serviceName = "companies-api"

type Globals struct {
	Debug   bool
	Version string
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}

// setup loads configuration and initialises the process logger. --debug
// overrides LOG_LEVEL.
func setup(ctx context.Context, globals *Globals) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Logger{}, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if globals.Debug {
		level = "debug"
	}

	log := logger.Init(logger.Options{
		Level:   level,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Version: globals.Version,
	})
	return cfg, log, nil
}

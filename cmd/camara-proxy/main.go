// Command camara-proxy serves normalized Câmara dos Deputados data over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/politicosbr/camara-client/internal/config"
	"github.com/politicosbr/camara-client/internal/server"
	"github.com/politicosbr/camara-client/internal/telemetry"
	"github.com/politicosbr/camara-client/pkg/cache"
	"github.com/politicosbr/camara-client/pkg/client"
	"github.com/politicosbr/camara-client/pkg/logging"
	"github.com/politicosbr/camara-client/pkg/query"
	"github.com/politicosbr/camara-client/pkg/ratelimit"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "camara-proxy: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:   logging.LogLevel(cfg.Log.Level),
		Pretty:  cfg.Log.Pretty,
		Output:  os.Stderr,
		Service: "camara-proxy",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("Proxy stopped with error")
		os.Exit(1)
	}
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	tp, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     version,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Tracer shutdown failed")
		}
	}()

	store := cache.NewStore[any]()
	store.StartSweeper(ctx, cfg.Cache.SweepInterval)
	defer store.Close()

	handler, err := newHandler(cfg, store, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// summaries page through a full year of expenses
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("upstream", cfg.Upstream.BaseURL).
			Str("version", version).
			Msg("Starting camara proxy")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Dur("timeout", cfg.Server.ShutdownTimeout).Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newHandler wires the client, query service and router over store.
func newHandler(cfg *config.Config, store *cache.Store[any], logger zerolog.Logger) (http.Handler, error) {
	c, err := client.New(client.Config{
		BaseURL:    cfg.Upstream.BaseURL,
		UserAgent:  cfg.Upstream.UserAgent,
		Timeout:    cfg.Upstream.Timeout,
		DefaultTTL: cfg.Cache.DefaultTTL,
		RateLimit: ratelimit.Config{
			RequestsPerSecond: cfg.Upstream.RateLimit,
			Burst:             cfg.Upstream.Burst,
		},
	}, store)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return server.New(query.NewService(c), logger.With().Str("component", "server").Logger()), nil
}

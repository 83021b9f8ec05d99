// Package app wires configuration, logging, the dictionary fetchers,
// and the HTTP server into a runnable application.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/wordfetch/internal/config"
	"github.com/heartmarshall/wordfetch/internal/fetch"
	"github.com/heartmarshall/wordfetch/internal/fetch/cambridge"
	"github.com/heartmarshall/wordfetch/internal/fetch/httpx"
	"github.com/heartmarshall/wordfetch/internal/fetch/wiktionary"
	"github.com/heartmarshall/wordfetch/internal/lookup"
	"github.com/heartmarshall/wordfetch/internal/transport/middleware"
	"github.com/heartmarshall/wordfetch/internal/transport/rest"
	"github.com/heartmarshall/wordfetch/internal/typo"
)

// Run is the application entry point. It loads configuration,
// initializes the logger and fetchers, and serves the REST API until
// ctx is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Int("sources", len(cfg.Lookup.Sources)),
	)

	client := httpx.NewClient(cfg.HTTP, logger)
	registry := fetch.NewRegistry(
		cambridge.New(client, logger),
		wiktionary.NewRussian(client, logger),
		wiktionary.NewEnglish(client, logger),
	)

	collector := typo.NewCollector(registry, cfg.Typo, logger)
	verifier := typo.NewVerifier(registry, cfg.Typo.MaxWorkers, logger)
	svc := lookup.NewService(registry, collector, verifier, cfg.Lookup, cfg.Typo, logger)

	mux := rest.NewRouter(rest.Handlers{
		Lookup:  rest.NewLookupHandler(svc, logger),
		Suggest: rest.NewSuggestHandler(collector, cfg.Lookup.Sources, cfg.Typo.MaxResults, logger),
		Health:  rest.NewHealthHandler(registry, BuildVersion()),
	})

	mws := []middleware.Middleware{
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	}
	var limiter *middleware.RateLimiter
	if cfg.Server.RatePerMinute > 0 {
		limiter = middleware.NewRateLimiter(time.Minute)
		defer limiter.Stop()
		mws = append(mws, limiter.Limit(cfg.Server.RatePerMinute))
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      middleware.Chain(mws...)(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down",
		slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"menusvc/internal/config"
	"menusvc/internal/seed"
	"menusvc/internal/services"
	"menusvc/pkg/rabbitmq"

	"golang.org/x/sync/errgroup"
)

// Run serves the menu API until ctx is cancelled, then shuts down in order:
// HTTP server, event publisher, store.
func Run(ctx context.Context, cfg *config.Config) error {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.SeedOnStart {
		seedCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		_, err := seed.Rebuild(seedCtx, store.Rebuilder)
		cancel()
		if err != nil {
			return errors.Join(err, store.Close(context.Background()))
		}
	}

	var (
		events services.EventPublisher
		mq     *rabbitmq.Client
	)
	if cfg.EventsEnabled() {
		mq, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.EventsQueue})
		if err != nil {
			return errors.Join(err, store.Close(context.Background()))
		}
		events = mq
		if err := mq.ConsumeEvents(rabbitmq.HandleEventMessage); err != nil {
			slog.Warn("menu event consumer not started", "error", err)
		}
	}

	app := Build(Dependencies{
		Accessor:       store.Accessor,
		Events:         events,
		StoreTimeout:   cfg.StoreTimeout,
		Ready:          store.Ping,
		RateLimit:      cfg.RateLimit,
		RateLimitBurst: cfg.RateLimitBurst,
		AccessLog:      os.Stdout,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "port", cfg.Port, "store", cfg.StoreDriver, "events", cfg.EventsEnabled())
		if err := app.Listen(cfg.Port); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	})
	runErr := g.Wait()

	var closeErrs []error
	if mq != nil {
		if err := mq.Close(); err != nil {
			closeErrs = append(closeErrs, err)
		}
	}
	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := store.Close(closeCtx); err != nil {
		closeErrs = append(closeErrs, fmt.Errorf("failed to close store: %w", err))
	}

	if err := errors.Join(append([]error{runErr}, closeErrs...)...); err != nil {
		return err
	}
	slog.Info("server gracefully stopped")
	return nil
}

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

	"github.com/ariefcatur/go-bookstore/internal/bookstore"
	"github.com/ariefcatur/go-bookstore/internal/config"
	"github.com/ariefcatur/go-bookstore/internal/httpx"
	"github.com/ariefcatur/go-bookstore/internal/i18n"
	kafkax "github.com/ariefcatur/go-bookstore/internal/kafka"
	"github.com/ariefcatur/go-bookstore/internal/logger"
	"github.com/ariefcatur/go-bookstore/internal/memstore"
	"github.com/ariefcatur/go-bookstore/internal/postgres"
	"github.com/ariefcatur/go-bookstore/internal/ratelimit"
	"github.com/ariefcatur/go-bookstore/internal/redisx"
	"github.com/ariefcatur/go-bookstore/internal/validation"
	"github.com/spf13/cobra"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.Env, cfg.ServiceName)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Store
	var repo bookstore.Repository
	switch cfg.Store {
	case config.StoreMemory:
		log.Warn().Msg("using in-memory store, data is lost on exit")
		repo = memstore.New()
	default:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer db.Close()
		if autoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
		}
		repo = postgres.NewStore(db)
	}

	// Kafka producer
	opts := []bookstore.Option{bookstore.WithProducer(cfg.ServiceName)}
	var prod *kafkax.Producer
	prodCtx, stopProducer := context.WithCancel(context.Background())
	defer stopProducer()
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, 1024, log)
		prod.Start(prodCtx)
		opts = append(opts, bookstore.WithPublisher(prod))
	} else {
		log.Info().Msg("KAFKA_BROKERS empty, events disabled")
	}

	deps := httpx.Deps{
		Services:       bookstore.New(repo, log, opts...),
		Messages:       i18n.New(cfg.DefaultLocale),
		Validator:      validation.New(),
		Log:            log,
		DefaultUserID:  cfg.DefaultUserID,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	}

	// Redis
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		if err := redisx.Ping(ctx, rdb); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, idempotency replay degraded")
		}
		deps.Idempotency = redisx.NewIdempotencyStore(rdb)
	}

	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
	if limiter.Enabled() {
		deps.Limiter = limiter
		go limiter.RunSweeper(time.Minute, ctx.Done())
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.Store).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}
	log.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if prod != nil {
		stopProducer()
		prod.WaitClosed()
	}
	return nil
}

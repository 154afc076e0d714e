package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-bookstore/internal/audit"
	"github.com/ariefcatur/go-bookstore/internal/config"
	kafkax "github.com/ariefcatur/go-bookstore/internal/kafka"
	"github.com/ariefcatur/go-bookstore/internal/logger"
	"github.com/ariefcatur/go-bookstore/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("error", "development", "bookstore-auditor")
		bootLog.Fatal().Err(err).Msg("config")
	}
	service := cfg.ServiceName + "-auditor"
	log := logger.New(cfg.LogLevel, cfg.Env, service)

	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal().Msg("KAFKA_BROKERS is required")
	}
	if cfg.RedisAddr == "" {
		log.Fatal().Msg("REDIS_ADDR is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		log.Fatal().Err(err).Msg("redis")
	}

	auditor := audit.New(redisx.NewDedup(rdb, service), log)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.AuditGroup, cfg.KafkaTopic, cfg.AuditWorkers, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info().Str("group", cfg.AuditGroup).Str("topic", cfg.KafkaTopic).Int("workers", cfg.AuditWorkers).Msg("auditor started")
		if err := cons.Start(ctx, auditor.HandleMessage); err != nil {
			log.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info().Interface("counts", auditor.Counts()).Msg("shutting down auditor")
	cancel()
	<-done
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fallingfour/internal/analytics"
	"fallingfour/internal/config"
)

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	brokers := cfg.KafkaBrokers
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := analytics.NewMetrics()
	consumer := analytics.NewConsumer(brokers, cfg.KafkaTopic, cfg.KafkaGroup, metrics)
	defer consumer.Close()

	log.Info().Strs("brokers", brokers).Str("topic", cfg.KafkaTopic).Msg("analytics consumer listening")

	go func() {
		ticker := time.NewTicker(cfg.StatsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.Log(log.Logger)
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := consumer.Run(ctx); err != nil {
		log.Error().Err(err).Msg("consumer stopped")
	}
	metrics.Log(log.Logger)
}

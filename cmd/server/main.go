package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fallingfour/internal/analytics"
	"fallingfour/internal/config"
	"fallingfour/internal/server"
)

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	var producer *analytics.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = analytics.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("analytics enabled")
	}

	srv := server.New(server.Config{
		Rows:      cfg.Rows,
		Cols:      cfg.Cols,
		Seed:      cfg.Seed,
		Analytics: producer,
	})

	log.Info().Str("addr", cfg.Addr).Int("rows", cfg.Rows).Int("cols", cfg.Cols).Msg("server listening")
	if err := srv.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

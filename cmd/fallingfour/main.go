package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fallingfour/internal/analytics"
	"fallingfour/internal/config"
	"fallingfour/internal/console"
	"fallingfour/internal/game"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.Rows < game.WinLength || cfg.Cols < game.WinLength {
		log.Warn().Int("rows", cfg.Rows).Int("cols", cfg.Cols).Bool("winnable", cfg.Winnable()).
			Msg("board smaller than 4x4")
	}

	producer := analytics.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	// A blocked stdin read cannot be cancelled, so leave from here.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info().Msg("interrupted")
		producer.Close()
		os.Exit(130)
	}()

	gameID := uuid.NewString()
	screen := console.NewPresenter(os.Stdout)
	var out game.Presenter = screen
	if producer != nil {
		out = game.Presenters{screen, analytics.NewReporter(producer, gameID)}
	}

	ctrl, err := game.NewController(game.Config{
		ID:          gameID,
		Rows:        cfg.Rows,
		Cols:        cfg.Cols,
		HumanStarts: cfg.HumanStarts,
		Input:       console.NewInput(os.Stdin, os.Stdout),
		Bot:         game.NewBot(game.PlayerB, cfg.Seed),
		Presenter:   out,
	})
	if err != nil {
		log.Error().Err(err).Msg("create game")
		os.Exit(1)
	}

	screen.Banner(cfg.Rows, cfg.Cols)
	if _, err := ctrl.Run(context.Background()); err != nil {
		if errors.Cause(err) != io.EOF {
			log.Error().Err(err).Msg("game aborted")
			producer.Close()
			os.Exit(1)
		}
		log.Info().Msg("input closed, leaving game")
	}
}

// Command weaver plays the word-ladder game in the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/weaver/internal/cli"
	"github.com/robalobadob/weaver/internal/config"
	"github.com/robalobadob/weaver/internal/game"
	"github.com/robalobadob/weaver/internal/history"
	"github.com/robalobadob/weaver/internal/pathfinder"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	dict, err := cfg.Dictionary()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dictionary")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, err := history.Open(ctx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open history")
	}
	defer ledger.Close()

	eng, err := game.New(dict,
		game.WithLogger(log.Logger),
		game.WithFlags(cfg.Flags()),
		game.WithFixedWords(cfg.FixedStart, cfg.FixedTarget),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create game")
	}

	repl := cli.New(eng, cli.Options{
		In:     os.Stdin,
		Out:    os.Stdout,
		Color:  !cfg.NoColor,
		Log:    log.Logger,
		Ledger: ledger,
		Solver: pathfinder.NewIndex(dict),
		Player: uuid.NewString(),
	})
	if err := repl.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("session ended")
		os.Exit(1)
	}
}

// Command weaver-server serves the word-ladder game over HTTP.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/weaver/internal/config"
	"github.com/robalobadob/weaver/internal/history"
	"github.com/robalobadob/weaver/internal/httpserver"
	"github.com/robalobadob/weaver/internal/store"
)

const sweepEvery = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.Level())

	dict, err := cfg.Dictionary()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dictionary")
	}
	signKey, err := cfg.DeriveKey("session", 32)
	if err != nil {
		log.Fatal().Err(err).Msg("derive session key")
	}
	salt, err := cfg.DeriveKey("daily", 16)
	if err != nil {
		log.Fatal().Err(err).Msg("derive daily salt")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, err := history.Open(ctx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open history")
	}
	defer ledger.Close()

	srv := httpserver.New(store.NewMemoryStore(), ledger, dict, httpserver.Options{
		Flags:          cfg.Flags(),
		FixedStart:     cfg.FixedStart,
		FixedTarget:    cfg.FixedTarget,
		DailySalt:      hex.EncodeToString(salt),
		SigningKey:     signKey,
		SessionTTL:     cfg.SessionTTL,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		RequestTimeout: 15 * time.Second,
	}, log.Logger)

	hs := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		t := time.NewTicker(sweepEvery)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				srv.Sweep(ctx)
			}
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", hs.Addr).Int("words", dict.Len()).Msg("starting weaver-server")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	srv.Close(context.Background())
	log.Info().Msg("stopped")
}

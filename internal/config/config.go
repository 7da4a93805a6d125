// Package config reads process configuration from the environment.
//
// A .env file in the working directory is loaded first (missing is fine),
// then variables are parsed into Config. Keys for individual purposes are
// derived from one secret with HKDF.
package config

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/hkdf"

	"github.com/robalobadob/weaver/internal/game"
	"github.com/robalobadob/weaver/internal/words"
)

// Config is the union of what both binaries read.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP shell
	BindAddr       string        `env:"BIND_ADDR"        envDefault:"127.0.0.1"`
	Port           int           `env:"PORT"             envDefault:"5175"`
	SessionTTL     time.Duration `env:"SESSION_TTL"      envDefault:"2h"`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS"   envDefault:"5"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"10"`

	// Game
	WordLength     int    `env:"WORD_LENGTH"     envDefault:"4"`
	DictionaryFile string `env:"DICTIONARY_FILE"`
	FixedStart     string `env:"FIXED_START"     envDefault:"EAST"`
	FixedTarget    string `env:"FIXED_TARGET"    envDefault:"WEST"`
	ShowErrors     bool   `env:"SHOW_ERRORS"     envDefault:"true"`
	ShowPath       bool   `env:"SHOW_PATH"`
	RandomWords    bool   `env:"RANDOM_WORDS"`

	// Secret seeds session signing and the daily salt. When empty a random
	// one is generated, so sessions and daily puzzles last one process.
	Secret string `env:"WEAVER_SECRET"`

	NoColor bool `env:"NO_COLOR"`
}

// Load reads .env and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if cfg.Secret == "" {
		b := make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, b); err != nil {
			return Config{}, fmt.Errorf("generate secret: %w", err)
		}
		cfg.Secret = hex.EncodeToString(b)
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.WordLength < 1 {
		errs = append(errs, fmt.Errorf("WORD_LENGTH must be positive, got %d", c.WordLength))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	return errors.Join(errs...)
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.BindAddr, strconv.Itoa(c.Port))
}

// Level is the parsed LOG_LEVEL.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Flags are the initial engine flags.
func (c Config) Flags() game.Flags {
	return game.Flags{ShowErrors: c.ShowErrors, ShowPath: c.ShowPath, RandomWords: c.RandomWords}
}

// Dictionary loads DICTIONARY_FILE, or the embedded list when unset.
func (c Config) Dictionary() (*words.Dictionary, error) {
	if c.DictionaryFile == "" {
		return words.Default(c.WordLength)
	}
	return words.LoadFile(c.DictionaryFile, c.WordLength)
}

// DeriveKey expands Secret into n bytes bound to purpose.
func (c Config) DeriveKey(purpose string, n int) ([]byte, error) {
	key := make([]byte, n)
	r := hkdf.New(sha256.New, []byte(c.Secret), nil, []byte("weaver/"+purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return key, nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/weaver/internal/game"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:5175", cfg.Addr())
	require.Equal(t, 4, cfg.WordLength)
	require.Equal(t, "EAST", cfg.FixedStart)
	require.Equal(t, "WEST", cfg.FixedTarget)
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.Equal(t, game.Flags{ShowErrors: true}, cfg.Flags())
	require.Equal(t, zerolog.InfoLevel, cfg.Level())
	require.Len(t, cfg.Secret, 64)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("BIND_ADDR", "0.0.0.0")
	t.Setenv("SHOW_PATH", "true")
	t.Setenv("RANDOM_WORDS", "1")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WEAVER_SECRET", "s3cret")

	cfg, err := Parse()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.Addr())
	require.Equal(t, game.Flags{ShowErrors: true, ShowPath: true, RandomWords: true}, cfg.Flags())
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, zerolog.DebugLevel, cfg.Level())
	require.Equal(t, "s3cret", cfg.Secret)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"WORD_LENGTH": "0",
		"PORT":        "70000",
		"LOG_LEVEL":   "loud",
		"SESSION_TTL": "0s",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			_, err := Parse()
			require.Error(t, err)
		})
	}

	t.Setenv("PORT", "eighty")
	_, err := Parse()
	require.Error(t, err)
}

func TestDeriveKey(t *testing.T) {
	cfg := Config{Secret: "s3cret"}
	a, err := cfg.DeriveKey("session", 32)
	require.NoError(t, err)
	require.Len(t, a, 32)

	again, err := cfg.DeriveKey("session", 32)
	require.NoError(t, err)
	require.Equal(t, a, again)

	b, err := cfg.DeriveKey("daily", 32)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	other, err := Config{Secret: "other"}.DeriveKey("session", 32)
	require.NoError(t, err)
	require.NotEqual(t, a, other)
}

func TestDictionary(t *testing.T) {
	d, err := Config{WordLength: 4}.Dictionary()
	require.NoError(t, err)
	require.True(t, d.Contains("EAST"))

	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("cat\ncot\ndog\nhorse\n"), 0o644))
	d, err = Config{WordLength: 3, DictionaryFile: path}.Dictionary()
	require.NoError(t, err)
	require.Equal(t, []string{"CAT", "COT", "DOG"}, d.Words())
}

package words

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFiltersAndNormalizes(t *testing.T) {
	src := strings.Join([]string{
		"# comment",
		"east",
		"  West ",
		"wast",
		"EAST",   // duplicate after normalisation
		"toolong",
		"ab",
		"w3st",
		"",
	}, "\n")

	d, err := Load(strings.NewReader(src), 4)
	require.NoError(t, err)
	require.Equal(t, []string{"EAST", "WEST", "WAST"}, d.Words())
	require.Equal(t, 3, d.Len())
	require.Equal(t, 4, d.WordLength())
	require.Equal(t, "WEST", d.At(1))
}

func TestContainsIsCaseInsensitive(t *testing.T) {
	d, err := New([]string{"EAST", "WEST"}, 4)
	require.NoError(t, err)
	require.True(t, d.Contains("east"))
	require.True(t, d.Contains(" West"))
	require.False(t, d.Contains("WAST"))
}

func TestTooFewWords(t *testing.T) {
	_, err := Load(strings.NewReader("east\nwest\n"), 5)
	require.ErrorIs(t, err, ErrTooFewWords)

	_, err = New([]string{"EAST", "east"}, 4)
	require.ErrorIs(t, err, ErrTooFewWords)

	_, err = New([]string{"EAST", "WEST"}, 0)
	require.ErrorIs(t, err, ErrBadLength)
}

func TestWordsReturnsCopy(t *testing.T) {
	d, err := New([]string{"EAST", "WEST"}, 4)
	require.NoError(t, err)
	ws := d.Words()
	ws[0] = "ZZZZ"
	require.Equal(t, "EAST", d.At(0))
}

func TestNilDictionary(t *testing.T) {
	var d *Dictionary
	require.False(t, d.Contains("EAST"))
	require.Zero(t, d.Len())
	require.Zero(t, d.WordLength())
	require.Nil(t, d.Words())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.txt")
	require.NoError(t, os.WriteFile(path, []byte("pore\nmore\nmode\nrode\nrude\nlonger\n"), 0o644))

	d, err := LoadFile(path, 4)
	require.NoError(t, err)
	require.Equal(t, 5, d.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"), 4)
	require.Error(t, err)
}

func TestDefaultDictionary(t *testing.T) {
	d, err := Default(4)
	require.NoError(t, err)
	for _, w := range []string{"EAST", "WAST", "WEST", "PORE", "RUDE"} {
		require.True(t, d.Contains(w), w)
	}
	for _, w := range d.Words() {
		require.Len(t, w, 4)
		require.Equal(t, strings.ToUpper(w), w)
	}
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "WEST", Normalize(" west\n"))
	require.Equal(t, "", Normalize("   "))
}

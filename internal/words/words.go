// Package words provides the game dictionary.
//
// A Dictionary is an immutable, ordered set of uppercase words that all
// share one length. It is built once at startup and then shared read-only
// by the validator, the path finder and the word generation strategies.
//
// Sources:
//   - Load / LoadFile: newline-delimited text, one word per line.
//   - Default: the dictionary embedded in the assets package.
//
// Lines are trimmed and upper-cased; lines of the wrong length or with
// characters outside A–Z are skipped; duplicates keep their first position.
// Lines starting with "#" are comments.
package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/robalobadob/weaver/assets"
)

// MinWords is the smallest dictionary a game can be played with.
const MinWords = 2

var (
	// ErrTooFewWords is returned when fewer than MinWords qualifying words are found.
	ErrTooFewWords = errors.New("words: dictionary needs at least 2 words of the configured length")
	// ErrBadLength is returned for a non-positive word length.
	ErrBadLength = errors.New("words: word length must be positive")
)

// Dictionary is an immutable ordered set of equal-length words.
// A nil *Dictionary behaves as an empty one.
type Dictionary struct {
	length int
	words  []string
	set    map[string]struct{}
}

// New builds a dictionary from raw entries, keeping only words of the given length.
func New(list []string, length int) (*Dictionary, error) {
	if length <= 0 {
		return nil, ErrBadLength
	}
	kept := lo.Uniq(lo.FilterMap(list, func(raw string, _ int) (string, bool) {
		w := Normalize(raw)
		return w, len(w) == length && isUpperAlpha(w)
	}))
	if len(kept) < MinWords {
		return nil, fmt.Errorf("%w (found %d)", ErrTooFewWords, len(kept))
	}
	return &Dictionary{length: length, words: kept, set: toSet(kept)}, nil
}

// Load reads one word per line from r.
func Load(r io.Reader, length int) (*Dictionary, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("words: read: %w", err)
	}
	return New(lines, length)
}

// LoadFile loads a dictionary from a file on disk.
func LoadFile(path string, length int) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, length)
}

// Default returns the embedded dictionary filtered to length.
func Default(length int) (*Dictionary, error) {
	lines, err := assets.DictionaryLines()
	if err != nil {
		return nil, fmt.Errorf("words: embedded dictionary: %w", err)
	}
	return New(lines, length)
}

// Normalize trims and upper-cases a word.
func Normalize(w string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(w))
}

// Contains reports whether w (in any case) is in the dictionary.
func (d *Dictionary) Contains(w string) bool {
	if d == nil {
		return false
	}
	_, ok := d.set[Normalize(w)]
	return ok
}

// Words returns a copy of the words in load order.
func (d *Dictionary) Words() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.words...)
}

// At returns the i-th word in load order.
func (d *Dictionary) At(i int) string { return d.words[i] }

// Len is the number of words.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.words)
}

// WordLength is the length shared by every word.
func (d *Dictionary) WordLength() int {
	if d == nil {
		return 0
	}
	return d.length
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isUpperAlpha reports whether s is all uppercase ASCII letters.
func isUpperAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

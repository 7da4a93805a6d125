// Package strategy chooses the start and target words of a game.
//
// Variants:
//   - Fixed:    always the same configured pair.
//   - Random:   two distinct words drawn uniformly from the dictionary.
//   - WithPath: wraps another strategy and retries until the pair has a
//     ladder between them; the ladder found is kept for Path().
//   - Daily:    a pair determined by the UTC date and a secret salt.
//
// New dispatches on Kind to build the variant a game is configured for.
package strategy

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/robalobadob/weaver/internal/pathfinder"
	"github.com/robalobadob/weaver/internal/words"
)

var (
	// ErrWordGeneration means no usable (start, target) pair could be produced.
	ErrWordGeneration = errors.New("word generation failed")
	// ErrInvalidArgument is returned for bad constructor input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Strategy produces the words for a new game.
type Strategy interface {
	// Generate returns a start and target word drawn for dict.
	Generate(dict *words.Dictionary) (start, target string, err error)
	// Path returns the solution found while generating, or nil if the
	// strategy does not compute one.
	Path() []string
}

// Kind selects a strategy variant.
type Kind int

const (
	KindFixed Kind = iota
	KindRandom
	KindRandomWithPath
	KindDaily
)

var kindNames = map[Kind]string{
	KindFixed:          "fixed",
	KindRandom:         "random",
	KindRandomWithPath: "random+path",
	KindDaily:          "daily",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a name from String back to its Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidArgument, s)
}

// Params carries the inputs every variant might need.
type Params struct {
	Start, Target string            // KindFixed
	Rand          *rand.Rand        // KindRandom*; nil seeds from crypto/rand
	Salt          string            // KindDaily
	Now           func() time.Time  // KindDaily; nil means time.Now
	MaxAttempts   int               // path-checked kinds; 0 means DefaultMaxAttempts
	Index         *pathfinder.Index // path-checked kinds; nil builds one on first use
}

// New builds the strategy for kind. Daily puzzles are always path-checked.
func New(kind Kind, p Params) (Strategy, error) {
	switch kind {
	case KindFixed:
		return NewFixed(p.Start, p.Target)
	case KindRandom:
		return NewRandom(p.Rand), nil
	case KindRandomWithPath:
		return newWithPath(NewRandom(p.Rand), p), nil
	case KindDaily:
		return newWithPath(NewDaily(p.Salt, p.Now), p), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, kind)
	}
}

// Fixed always returns the same pair.
type Fixed struct {
	start, target string
}

// NewFixed rejects empty words.
func NewFixed(start, target string) (*Fixed, error) {
	start, target = words.Normalize(start), words.Normalize(target)
	if start == "" || target == "" {
		return nil, fmt.Errorf("%w: the initial word or target word cannot be empty", ErrInvalidArgument)
	}
	return &Fixed{start: start, target: target}, nil
}

// Generate returns the configured pair. The pair must fit the dictionary's
// word length, otherwise no guess could ever be scored against it.
func (f *Fixed) Generate(dict *words.Dictionary) (string, string, error) {
	if n := dict.WordLength(); n > 0 && (len(f.start) != n || len(f.target) != n) {
		return "", "", fmt.Errorf("%w: fixed words %s/%s are not %d letters long", ErrWordGeneration, f.start, f.target, n)
	}
	return f.start, f.target, nil
}

// Path is always nil; the fixed pair is not searched.
func (f *Fixed) Path() []string { return nil }

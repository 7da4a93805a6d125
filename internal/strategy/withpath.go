package strategy

import (
	"fmt"

	"github.com/robalobadob/weaver/internal/pathfinder"
	"github.com/robalobadob/weaver/internal/words"
)

// DefaultMaxAttempts bounds how often WithPath re-asks its base strategy.
const DefaultMaxAttempts = 20

// WithPath guarantees a solvable pair by checking each candidate with the
// path finder.
type WithPath struct {
	base        Strategy
	maxAttempts int
	path        []string

	// cached index for the last dictionary seen
	dict  *words.Dictionary
	index *pathfinder.Index
}

// NewWithPath wraps base. maxAttempts <= 0 means DefaultMaxAttempts.
func NewWithPath(base Strategy, maxAttempts int) *WithPath {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &WithPath{base: base, maxAttempts: maxAttempts}
}

func newWithPath(base Strategy, p Params) *WithPath {
	w := NewWithPath(base, p.MaxAttempts)
	if p.Index != nil {
		w.dict, w.index = p.Index.Dictionary(), p.Index
	}
	return w
}

// Generate asks the base strategy for pairs until one is connected.
// Errors from the base strategy are returned immediately.
func (w *WithPath) Generate(dict *words.Dictionary) (string, string, error) {
	w.path = nil
	if w.index == nil || w.dict != dict {
		w.dict, w.index = dict, pathfinder.NewIndex(dict)
	}
	for range w.maxAttempts {
		start, target, err := w.base.Generate(dict)
		if err != nil {
			return "", "", err
		}
		if path := w.index.ShortestPath(start, target); len(path) > 0 {
			w.path = path
			return start, target, nil
		}
	}
	return "", "", fmt.Errorf("%w: no path found in %d attempts", ErrWordGeneration, w.maxAttempts)
}

// Path returns a copy of the ladder found by the last successful Generate.
func (w *WithPath) Path() []string {
	return append([]string(nil), w.path...)
}

// Base returns the wrapped strategy.
func (w *WithPath) Base() Strategy { return w.base }

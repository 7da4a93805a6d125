package game

import (
	"errors"

	"github.com/robalobadob/weaver/internal/strategy"
)

// invalidWordError is a rejection of a guess. Every instance matches
// ErrInvalidWord under errors.Is.
type invalidWordError struct{ msg string }

func (e *invalidWordError) Error() string        { return e.msg }
func (e *invalidWordError) Is(target error) bool { return target == ErrInvalidWord }

var (
	// ErrInvalidWord matches every guess rejection below.
	ErrInvalidWord = errors.New("invalid word")

	ErrNotInDictionary error = &invalidWordError{"this word is not in the dictionary"}
	ErrLength          error = &invalidWordError{"length of word is not equal to target word"}
	ErrLadderRule      error = &invalidWordError{"word must differ by exactly one letter from the previous word"}

	ErrWordGeneration  = strategy.ErrWordGeneration
	ErrInvalidArgument = strategy.ErrInvalidArgument

	ErrNotInitialized = errors.New("game not initialized")
	ErrGameOver       = errors.New("game is already won")
	ErrInternal       = errors.New("internal error")
)

// Reason returns the short user-facing text of a guess rejection, or the
// full error text for anything else.
func Reason(err error) string {
	var iw *invalidWordError
	if errors.As(err, &iw) {
		return iw.msg
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

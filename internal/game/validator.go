package game

import (
	"fmt"

	"github.com/robalobadob/weaver/internal/words"
)

// Messages attached when ValidatorConfig.ShowMessages is set.
const (
	MessageContinue = "Continue"
	MessageWin      = "You win the game!"
)

// ValidatorConfig tunes Validate without changing how letters are scored.
type ValidatorConfig struct {
	ShowMessages bool // attach MessageContinue / MessageWin
	AllowUnknown bool // skip the dictionary membership check
}

// Validate scores guess against target.
//
// Preconditions, checked before scoring:
//   - equal length, else ErrLength;
//   - both words in dict unless AllowUnknown, else ErrNotInDictionary.
//
// Both words are case-normalised first. Validate has no side effects.
func Validate(guess, target string, dict *words.Dictionary, cfg ValidatorConfig) (ValidationResult, error) {
	guess, target = words.Normalize(guess), words.Normalize(target)
	if len(guess) != len(target) {
		return ValidationResult{}, fmt.Errorf("%q (%d letters, want %d): %w", guess, len(guess), len(target), ErrLength)
	}
	if !cfg.AllowUnknown {
		if !dict.Contains(guess) {
			return ValidationResult{}, fmt.Errorf("%q: %w", guess, ErrNotInDictionary)
		}
		if !dict.Contains(target) {
			return ValidationResult{}, fmt.Errorf("target %q: %w", target, ErrNotInDictionary)
		}
	}

	res := newResult(scoreGuess(target, guess), "")
	if cfg.ShowMessages {
		res.message = MessageContinue
		if res.Win() {
			res.message = MessageWin
		}
	}
	return res, nil
}

// scoreGuess implements the two-pass multiset scoring.
//
// Pass 1:
//   - Mark exact matches CorrectPosition.
//   - Count the target letters that were not matched exactly.
//
// Pass 2:
//   - For each remaining guess letter: WrongPosition while that letter's
//     count is positive (decrementing it), otherwise NotInWord.
//
// Exact matches therefore always consume their letter before any
// misplaced occurrence can, and a letter is never credited more often
// than it appears in the target.
func scoreGuess(target, guess string) []LetterState {
	n := len(guess)
	res := make([]LetterState, n)

	// Remaining (non-exact) target letters, A–Z.
	var counts [26]int

	for i := 0; i < n; i++ {
		if guess[i] == target[i] {
			res[i] = CorrectPosition
		} else if j := idx(target[i]); j >= 0 {
			counts[j]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == CorrectPosition {
			continue
		}
		if j := idx(guess[i]); j >= 0 && counts[j] > 0 {
			res[i] = WrongPosition
			counts[j]--
		} else {
			res[i] = NotInWord
		}
	}
	return res
}

// idx maps an uppercase ASCII letter to 0..25, anything else to -1.
func idx(c byte) int {
	if c < 'A' || c > 'Z' {
		return -1
	}
	return int(c - 'A')
}

// ScorePath scores every step after the first against target, for
// displaying a solution ladder the way a played game is displayed.
// Scoring stops at the first step that fails validation.
func ScorePath(target string, path []string, dict *words.Dictionary) []ValidationResult {
	if len(path) <= 1 {
		return nil
	}
	out := make([]ValidationResult, 0, len(path)-1)
	for _, w := range path[1:] {
		res, err := Validate(w, target, dict, ValidatorConfig{})
		if err != nil {
			break
		}
		out = append(out, res)
	}
	return out
}

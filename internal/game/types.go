// internal/game/types.go
//
// Core type definitions for the word-ladder game.
// Defines:
//   - LetterState: per-letter result of a guess.
//   - ValidationResult: the scored guess.
//   - Flags: display and word-selection switches.
//   - Snapshot / Notification: what observers and shells see.

package game

import (
	"encoding/json"
	"slices"
)

// LetterState is the evaluation of one letter of a guess.
//   - "correct":   right letter, right position.
//   - "misplaced": letter is in the target but elsewhere.
//   - "absent":    letter is not in the target (or its budget is used up).
type LetterState string

const (
	CorrectPosition LetterState = "correct"
	WrongPosition   LetterState = "misplaced"
	NotInWord       LetterState = "absent"
)

// Symbol is the one-letter CLI code: G(reen), Y(ellow), L(ight grey).
func (s LetterState) Symbol() byte {
	switch s {
	case CorrectPosition:
		return 'G'
	case WrongPosition:
		return 'Y'
	case NotInWord:
		return 'L'
	}
	return '?'
}

// ValidationResult is an immutable scored guess.
type ValidationResult struct {
	states  []LetterState
	message string
}

func newResult(states []LetterState, message string) ValidationResult {
	return ValidationResult{states: states, message: message}
}

// States returns a copy of the per-position states.
func (r ValidationResult) States() []LetterState { return slices.Clone(r.states) }

// State returns the state at position i.
func (r ValidationResult) State(i int) LetterState { return r.states[i] }

// Len is the number of scored positions.
func (r ValidationResult) Len() int { return len(r.states) }

// Win is true iff every position is CorrectPosition.
func (r ValidationResult) Win() bool {
	if len(r.states) == 0 {
		return false
	}
	for _, s := range r.states {
		if s != CorrectPosition {
			return false
		}
	}
	return true
}

// Message is the optional feedback text ("" when messages are off).
func (r ValidationResult) Message() string { return r.message }

// Symbols renders the states as e.g. "G L G G".
func (r ValidationResult) Symbols() string {
	b := make([]byte, 0, 2*len(r.states))
	for i, s := range r.states {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, s.Symbol())
	}
	return string(b)
}

type resultJSON struct {
	States  []LetterState `json:"states"`
	Win     bool          `json:"win"`
	Message string        `json:"message,omitempty"`
}

// MarshalJSON exposes the unexported fields.
func (r ValidationResult) MarshalJSON() ([]byte, error) {
	states := r.states
	if states == nil {
		states = []LetterState{}
	}
	return json.Marshal(resultJSON{States: states, Win: r.Win(), Message: r.message})
}

// Flags are the engine-wide switches. They are not part of a session.
type Flags struct {
	ShowErrors  bool `json:"showErrors"`  // annotate results and surface error text
	ShowPath    bool `json:"showPath"`    // shells display the solution path
	RandomWords bool `json:"randomWords"` // random solvable pairs instead of the fixed pair
}

// Status is the coarse engine state.
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusPlaying       Status = "playing"
	StatusWon           Status = "won"
)

// Snapshot is a copy of the session at one point in time.
type Snapshot struct {
	Start   string             `json:"start"`
	Target  string             `json:"target"`
	Path    []string           `json:"path"`
	Results []ValidationResult `json:"results"`
	Won     bool               `json:"won"`
	Mode    string             `json:"mode"` // strategy kind that produced the words
}

// Steps is the number of accepted guesses.
func (s Snapshot) Steps() int { return len(s.Results) }

// Notification is pushed to observers after every state change.
// Message and Warning are blanked when ShowErrors is off.
type Notification struct {
	Snapshot Snapshot `json:"state"`
	Flags    Flags    `json:"flags"`
	Message  string   `json:"message,omitempty"`
	Warning  string   `json:"warning,omitempty"`
}

// internal/game/engine.go
//
// Package game implements the word-ladder game.
//
// Responsibilities:
//   - Score guesses against the target (validator.go).
//   - Run one game session as a state machine:
//     uninitialized → playing → won, with Reset back to the start word
//     and Initialize drawing fresh words.
//   - Enforce the ladder rule: each guess differs from the previous
//     word of the path in exactly one position.
//   - Select the word strategy and validator messages from Flags.
//   - Push a Notification to observers after every change.
//
// An Engine is not safe for concurrent use; shells serialise access.
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/weaver/internal/pathfinder"
	"github.com/robalobadob/weaver/internal/strategy"
	"github.com/robalobadob/weaver/internal/words"
)

// Default fixed pair, used when random words are off.
const (
	DefaultStart  = "EAST"
	DefaultTarget = "WEST"
)

// Notification texts.
const (
	noticeStarted  = "Game started. Enter your first word."
	noticeReset    = "Game reset. Enter your first word."
	noticeWon      = "You won the game!"
	noticeContinue = "Continue playing."
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for generation failures and recovered errors.
func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithFlags sets the initial flags.
func WithFlags(f Flags) Option { return func(e *Engine) { e.flags = f } }

// WithFixedWords overrides the pair used when random words are off.
func WithFixedWords(start, target string) Option {
	return func(e *Engine) { e.params.Start, e.params.Target = start, target }
}

// WithDaily makes every Initialize draw today's puzzle for salt,
// regardless of the random-words flag.
func WithDaily(salt string) Option {
	return func(e *Engine) { e.daily, e.params.Salt = true, salt }
}

// WithRand sets the generator for random pairs.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.params.Rand = r } }

// WithClock sets the clock used by the daily strategy.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.params.Now = now } }

// WithMaxAttempts bounds the solvable-pair retries.
func WithMaxAttempts(n int) Option { return func(e *Engine) { e.params.MaxAttempts = n } }

type observer struct {
	id int
	fn func(Notification)
}

// Engine holds one game session and the strategy/validator selected by its flags.
type Engine struct {
	dict   *words.Dictionary
	index  *pathfinder.Index
	log    zerolog.Logger
	flags  Flags
	params strategy.Params
	daily  bool

	cfg      ValidatorConfig
	strat    strategy.Strategy
	kind     strategy.Kind
	validate func(guess, target string, dict *words.Dictionary, cfg ValidatorConfig) (ValidationResult, error)

	// session
	initialized   bool
	start, target string
	mode          string
	path          []string
	results       []ValidationResult
	won           bool

	observers    []observer
	nextObserver int
}

// New creates an uninitialized engine over dict.
func New(dict *words.Dictionary, opts ...Option) (*Engine, error) {
	if dict.Len() < words.MinWords {
		return nil, fmt.Errorf("%w: dictionary has %d words", ErrInvalidArgument, dict.Len())
	}
	e := &Engine{
		dict:     dict,
		index:    pathfinder.NewIndex(dict),
		log:      zerolog.Nop(),
		params:   strategy.Params{Start: DefaultStart, Target: DefaultTarget},
		validate: Validate,
	}
	e.params.Index = e.index
	for _, opt := range opts {
		opt(e)
	}
	if _, err := strategy.NewFixed(e.params.Start, e.params.Target); err != nil {
		return nil, err
	}
	e.refreshValidator()
	if err := e.refreshStrategy(); err != nil {
		return nil, err
	}
	return e, nil
}

// Initialize draws new words from the active strategy and starts a fresh
// session at the start word.
//
// On failure the previous session is left as it was, observers get the
// warning, and the error (wrapping ErrWordGeneration) is returned; the
// caller decides whether to retry or give up.
func (e *Engine) Initialize() error {
	e.refreshValidator()
	if err := e.refreshStrategy(); err != nil {
		return e.failInit(err)
	}
	start, target, err := e.strat.Generate(e.dict)
	if err != nil {
		return e.failInit(err)
	}

	e.start, e.target = words.Normalize(start), words.Normalize(target)
	e.mode = e.kind.String()
	e.initialized = true
	e.clear()
	e.log.Debug().Str("start", e.start).Str("target", e.target).Str("mode", e.mode).Msg("game initialized")
	e.notify(noticeStarted, "")
	return nil
}

func (e *Engine) failInit(err error) error {
	e.log.Warn().Err(err).Str("mode", e.kind.String()).Msg("could not generate words")
	e.notify("", "Could not generate initial/target words: "+err.Error())
	return fmt.Errorf("initialize: %w", err)
}

// Tick plays one guess.
//
//  1. The guess is case-normalised.
//  2. It is validated against the target (dictionary and length).
//  3. It must differ from the last word of the path in exactly one letter.
//  4. Only then are the path, the results and the won flag updated.
//
// A rejected guess leaves the session untouched. Guessing before
// Initialize fails with ErrNotInitialized and after a win with ErrGameOver.
func (e *Engine) Tick(guess string) (ValidationResult, error) {
	if !e.initialized {
		return ValidationResult{}, ErrNotInitialized
	}
	if e.won {
		e.notify(ErrGameOver.Error(), "")
		return ValidationResult{}, ErrGameOver
	}

	guess = words.Normalize(guess)
	res, err := e.evaluate(guess)
	if err != nil {
		if errors.Is(err, ErrInternal) {
			e.notify("", "An unexpected error occurred while processing your input: "+err.Error())
		} else {
			e.notify(Reason(err), "")
		}
		return ValidationResult{}, err
	}

	e.path = append(e.path, guess)
	e.results = append(e.results, res)
	e.won = res.Win()

	msg := res.Message()
	if e.won {
		msg = noticeWon
	}
	e.notify(msg, "")
	return res, nil
}

// evaluate runs every check on guess without touching the session.
// Panics from the validator are turned into ErrInternal.
func (e *Engine) evaluate(guess string) (res ValidationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("guess", guess).Msg("recovered while scoring guess")
			res, err = ValidationResult{}, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	res, err = e.validate(guess, e.target, e.dict, e.cfg)
	if err != nil {
		return ValidationResult{}, err
	}
	last := e.path[len(e.path)-1]
	if !pathfinder.Adjacent(last, guess) {
		return ValidationResult{}, fmt.Errorf("%q after %q: %w", guess, last, ErrLadderRule)
	}
	return res, nil
}

// Reset returns to the start word, keeping start and target.
// It does nothing before the first Initialize.
func (e *Engine) Reset() {
	if !e.initialized {
		return
	}
	e.clear()
	e.notify(noticeReset, "")
}

func (e *Engine) clear() {
	e.path = []string{e.start}
	e.results = nil
	e.won = false
}

// SetShowErrors swaps validator messages on or off.
func (e *Engine) SetShowErrors(on bool) {
	if e.flags.ShowErrors == on {
		return
	}
	e.flags.ShowErrors = on
	e.refreshValidator()
	e.notify("", "")
}

// SetRandomWords switches between the fixed pair and random solvable
// pairs. The current words stay until the next Initialize.
func (e *Engine) SetRandomWords(on bool) {
	if e.flags.RandomWords == on {
		return
	}
	e.flags.RandomWords = on
	if err := e.refreshStrategy(); err != nil {
		e.log.Warn().Err(err).Msg("refresh strategy")
	}
	e.notify("", "")
}

// SetShowPath only changes what shells display.
func (e *Engine) SetShowPath(on bool) {
	if e.flags.ShowPath == on {
		return
	}
	e.flags.ShowPath = on
	e.notify("", "")
}

// SetFlags applies each flag through its setter.
func (e *Engine) SetFlags(f Flags) {
	e.SetShowErrors(f.ShowErrors)
	e.SetRandomWords(f.RandomWords)
	e.SetShowPath(f.ShowPath)
}

func (e *Engine) refreshValidator() {
	e.cfg = ValidatorConfig{ShowMessages: e.flags.ShowErrors}
}

func (e *Engine) refreshStrategy() error {
	kind := strategy.KindFixed
	switch {
	case e.daily:
		kind = strategy.KindDaily
	case e.flags.RandomWords:
		kind = strategy.KindRandomWithPath
	}
	s, err := strategy.New(kind, e.params)
	if err != nil {
		return err
	}
	e.strat, e.kind = s, kind
	return nil
}

// SolutionPath recomputes a shortest ladder from start to target.
// It never touches the session.
func (e *Engine) SolutionPath() []string {
	if !e.initialized {
		return nil
	}
	return e.index.ShortestPath(e.start, e.target)
}

// ScorePath scores each step of path against the current target.
func (e *Engine) ScorePath(path []string) []ValidationResult {
	return ScorePath(e.target, path, e.dict)
}

// StrategyPath is the ladder the active strategy found while generating,
// if it computes one. A flag change that swaps the strategy clears it.
func (e *Engine) StrategyPath() []string {
	if e.strat == nil {
		return nil
	}
	return e.strat.Path()
}

// Subscribe registers fn for notifications. Observers run synchronously,
// in subscription order, at the end of each mutating call.
func (e *Engine) Subscribe(fn func(Notification)) (unsubscribe func()) {
	e.nextObserver++
	id := e.nextObserver
	e.observers = append(e.observers, observer{id: id, fn: fn})
	return func() {
		e.observers = slices.DeleteFunc(e.observers, func(o observer) bool { return o.id == id })
	}
}

// notify fans out a snapshot. Message and warning are only sent when
// ShowErrors is on; with no explicit message a default one is used.
func (e *Engine) notify(message, warning string) {
	if len(e.observers) == 0 {
		return
	}
	n := Notification{Snapshot: e.Snapshot(), Flags: e.flags}
	if e.flags.ShowErrors {
		n.Message, n.Warning = message, warning
		if n.Message == "" {
			n.Message = noticeContinue
			if e.won {
				n.Message = noticeWon
			}
		}
	}
	for _, o := range slices.Clone(e.observers) {
		o.fn(n)
	}
}

// Snapshot copies the current session.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Start:   e.start,
		Target:  e.target,
		Path:    e.Path(),
		Results: e.Results(),
		Won:     e.won,
		Mode:    e.mode,
	}
}

// Start is the first word of the ladder.
func (e *Engine) Start() string { return e.start }

// Target is the word to reach.
func (e *Engine) Target() string { return e.target }

// Path returns a copy of the accepted words, starting with Start.
func (e *Engine) Path() []string { return slices.Clone(e.path) }

// Results returns a copy of the per-step results; Results()[i] scores Path()[i+1].
func (e *Engine) Results() []ValidationResult { return slices.Clone(e.results) }

// Won reports whether the last accepted guess was the target.
func (e *Engine) Won() bool { return e.won }

// Flags returns the current flags.
func (e *Engine) Flags() Flags { return e.flags }

// Mode is the strategy kind that produced the current words.
func (e *Engine) Mode() string { return e.mode }

// Status reports the state machine position.
func (e *Engine) Status() Status {
	switch {
	case !e.initialized:
		return StatusUninitialized
	case e.won:
		return StatusWon
	default:
		return StatusPlaying
	}
}

// Dictionary returns a copy of the dictionary words.
func (e *Engine) Dictionary() []string { return e.dict.Words() }

// WordLength is the length of every playable word.
func (e *Engine) WordLength() int { return e.dict.WordLength() }

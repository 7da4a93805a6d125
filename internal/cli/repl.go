// Package cli is the line-oriented terminal shell for the game.
//
// The REPL reads one command or guess per line, drives a *game.Engine
// and prints the board after every change. Finished games go to the
// history ledger when one is configured.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robalobadob/weaver/internal/game"
	"github.com/robalobadob/weaver/internal/history"
)

const helpText = `Commands:
  <word>               play a word
  reset                back to the start word
  new game             draw new words
  show path            print a shortest solution
  set errors on|off    explain rejected words
  set random on|off    random solvable words instead of the fixed pair
  set path on|off      print the solution under the board
  stats                games played this run
  help                 this text
  quit                 leave`

// Options configure a REPL.
type Options struct {
	In     io.Reader
	Out    io.Writer
	Color  bool
	Log    zerolog.Logger
	Ledger *history.Ledger // optional
	Solver history.Solver  // optimal lengths for the ledger
	Player string          // ledger session id
}

// REPL is one interactive session over an engine.
type REPL struct {
	eng    *game.Engine
	in     *bufio.Scanner
	out    io.Writer
	tiles  tiles
	log    zerolog.Logger
	ledger *history.Ledger
	rec    *history.Recorder
}

// New wires a REPL to eng. The engine should not be initialized yet;
// Run starts the first game.
func New(eng *game.Engine, opts Options) *REPL {
	r := &REPL{
		eng:    eng,
		in:     bufio.NewScanner(opts.In),
		out:    opts.Out,
		tiles:  newTiles(opts.Out, opts.Color),
		log:    opts.Log,
		ledger: opts.Ledger,
	}
	if opts.Ledger != nil {
		r.rec = opts.Ledger.Track(eng, opts.Player, opts.Solver)
	}
	return r
}

func (r *REPL) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *REPL) println(s string) {
	_, _ = io.WriteString(r.out, s+"\n")
}

// Run plays until "quit", end of input, or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	if r.rec != nil {
		defer r.rec.Close()
	}

	r.println("Welcome to Weaver!")
	if err := r.newGame(); err != nil {
		return err
	}

	var scanErr error
	lines := make(chan string)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(lines)
		for r.in.Scan() {
			select {
			case lines <- r.in.Text():
			case <-stop:
				return
			}
		}
		scanErr = r.in.Err()
	}()

	for {
		if r.eng.Won() {
			r.printf("Game won. Enter 'new game' to play again or 'quit' to exit: ")
		} else {
			r.printf("Enter a word or command ('help' lists them): ")
		}

		var (
			text string
			ok   bool
		)
		select {
		case <-ctx.Done():
			r.println("")
			return ctx.Err()
		case text, ok = <-lines:
		}
		if err := ctx.Err(); err != nil {
			r.println("")
			return err
		}
		if !ok {
			r.println("")
			return scanErr
		}

		cmd := ParseCommand(text)
		if cmd.Kind == Quit {
			r.println("Quitting game. Goodbye!")
			return nil
		}
		r.handle(ctx, cmd)
	}
}

func (r *REPL) handle(ctx context.Context, cmd Command) {
	if r.eng.Won() {
		switch cmd.Kind {
		case NewGame, Stats, Help:
		default:
			r.printf("Invalid input or command: '%s'.\n", cmd.Raw)
			return
		}
	}

	switch cmd.Kind {
	case Reset:
		r.eng.Reset()
		r.board()
		r.println("Game reset. Enter your first word.")
	case NewGame:
		if err := r.newGame(); err != nil {
			r.printf("Failed to start a new game: %v\n", err)
		}
	case ShowPath:
		r.solution()
	case SetErrors:
		r.eng.SetShowErrors(cmd.On)
		r.println("Show errors " + enabled(cmd.On) + ".")
		r.board()
	case SetRandom:
		r.eng.SetRandomWords(cmd.On)
		if cmd.On {
			r.println("Random words enabled. Start a new game for changes to take effect.")
		} else {
			r.println("Fixed words enabled. Start a new game for changes to take effect.")
		}
	case SetPath:
		r.eng.SetShowPath(cmd.On)
		r.println("Show path " + enabled(cmd.On) + ".")
		r.board()
	case Stats:
		r.stats(ctx)
	case Help:
		r.println(helpText)
	case Guess:
		r.guess(cmd.Word)
	default:
		if cmd.Raw != "" {
			r.printf("Invalid input or command: '%s'. Type 'help' for commands.\n", cmd.Raw)
		}
	}
}

func enabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

// newGame initializes and prints the board; the previous game stays on
// failure.
func (r *REPL) newGame() error {
	if err := r.eng.Initialize(); err != nil {
		r.log.Warn().Err(err).Msg("initialize")
		return err
	}
	r.println("\n--- New Game Started ---")
	r.board()
	r.println("Game started. Enter your first word.")
	return nil
}

func (r *REPL) guess(word string) {
	if n := r.eng.WordLength(); len(word) != n {
		r.board()
		r.printf("Invalid input: Please enter a %d-letter word or a valid command.\n", n)
		return
	}

	res, err := r.eng.Tick(word)
	r.board()
	r.report(res, err)
}

// report prints the outcome of a guess. With show-errors off a rejection
// is only acknowledged, never explained.
func (r *REPL) report(res game.ValidationResult, err error) {
	showErrors := r.eng.Flags().ShowErrors
	switch {
	case err != nil && !showErrors:
		r.println("Invalid input.")
	case errors.Is(err, game.ErrInvalidWord):
		r.println("Error: " + game.Reason(err))
	case err != nil:
		r.println("Error: " + err.Error())
	case showErrors && res.Message() != "":
		r.println("Message: " + res.Message())
	case r.eng.Won():
		r.println("Congratulations! You won the game!")
	}
}

// board prints start, target and the ladder so far, then the solution
// when show-path is on.
func (r *REPL) board() {
	r.println("\n--- Current Game State ---")
	r.printf("Start Word: %s\nTarget Word: %s\nPath:\n", r.eng.Start(), r.eng.Target())
	for _, line := range r.tiles.ladder(r.eng.Path(), r.eng.Results()) {
		r.println("  " + line)
	}
	r.println("--------------------------")
	if r.eng.Flags().ShowPath {
		r.solution()
	}
}

func (r *REPL) solution() {
	r.println("\n--- Full Solution Path ---")
	path := r.eng.SolutionPath()
	if len(path) == 0 {
		r.println("No path available.")
	} else {
		results := r.eng.ScorePath(path)
		for _, line := range r.tiles.ladder(path, results) {
			r.println("  " + line)
		}
	}
	r.println("--------------------------")
}

func (r *REPL) stats(ctx context.Context) {
	if r.ledger == nil {
		r.println("Stats are not available.")
		return
	}
	st, err := r.ledger.Stats(ctx, "")
	if err != nil {
		r.println("Error: " + err.Error())
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Played: %d  Won: %d", st.Played, st.Won)
	if st.Won > 0 {
		fmt.Fprintf(&b, "  Avg steps: %.1f  Avg over optimal: %.1f", st.AvgSteps, st.AvgOverhead)
	}
	r.println(b.String())
}

package history

import (
	"context"
	"time"

	"github.com/robalobadob/weaver/internal/game"
	"github.com/robalobadob/weaver/internal/strategy"
)

// Solver finds a shortest ladder; *pathfinder.Index satisfies it.
type Solver interface {
	ShortestPath(start, target string) []string
}

// Recorder turns one engine's notifications into ledger rows.
//
// An attempt starts at every notification with no accepted steps that
// follows a different game, a win, or progress (Initialize and Reset
// both qualify). A win is recorded once. An attempt with progress that
// is replaced before winning is recorded as abandoned.
type Recorder struct {
	ledger    *Ledger
	solver    Solver
	sessionID string
	now       func() time.Time

	unsubscribe func()

	key      string
	started  time.Time
	date     string // UTC date the attempt was drawn on
	last     game.Snapshot
	recorded bool
}

// Track subscribes a Recorder to eng. Call Close when the session ends.
func (l *Ledger) Track(eng *game.Engine, sessionID string, solver Solver) *Recorder {
	r := &Recorder{ledger: l, solver: solver, sessionID: sessionID, now: time.Now}
	r.unsubscribe = eng.Subscribe(r.observe)
	return r
}

func (r *Recorder) observe(n game.Notification) {
	s := n.Snapshot
	if s.Start == "" {
		return
	}
	key := s.Mode + "|" + s.Start + "|" + s.Target

	if s.Steps() == 0 && (key != r.key || r.recorded || r.last.Steps() > 0) {
		r.flushAbandoned()
		r.key, r.started, r.recorded = key, r.now(), false
		r.date = strategy.DateKey(r.started)
	}
	r.last = s

	if s.Won && !r.recorded {
		r.record(s, true)
		r.recorded = true
	}
}

func (r *Recorder) flushAbandoned() {
	if r.recorded || r.last.Steps() == 0 {
		return
	}
	r.record(r.last, false)
	r.recorded = true
}

func (r *Recorder) record(s game.Snapshot, won bool) {
	optimal := 0
	if r.solver != nil {
		if p := r.solver.ShortestPath(s.Start, s.Target); len(p) > 0 {
			optimal = len(p) - 1
		}
	}
	now := r.now()
	g := Game{
		SessionID: r.sessionID,
		Mode:      s.Mode,
		Date:      r.date,
		Start:     s.Start,
		Target:    s.Target,
		Steps:     s.Steps(),
		Optimal:   optimal,
		Won:       won,
		ElapsedMs: now.Sub(r.started).Milliseconds(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.ledger.Record(ctx, g); err != nil {
		r.ledger.log.Warn().Err(err).Str("session", r.sessionID).Msg("record game")
		return
	}
	r.ledger.log.Debug().Str("session", r.sessionID).Str("mode", g.Mode).Bool("won", won).Int("steps", g.Steps).Msg("game recorded")
}

// Close records an unfinished attempt with progress as abandoned and
// stops observing.
func (r *Recorder) Close() {
	r.flushAbandoned()
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

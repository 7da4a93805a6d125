package history

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/weaver/internal/game"
	"github.com/robalobadob/weaver/internal/pathfinder"
	"github.com/robalobadob/weaver/internal/words"
)

func openLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLedgersAreIsolated(t *testing.T) {
	ctx := context.Background()
	a, b := openLedger(t), openLedger(t)
	require.NoError(t, a.Record(ctx, Game{SessionID: "s", Mode: "fixed", Date: "2026-10-19", Start: "EAST", Target: "WEST", Steps: 2, Optimal: 2, Won: true}))

	sa, err := a.Stats(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 1, sa.Played)
	sb, err := b.Stats(ctx, "")
	require.NoError(t, err)
	require.Zero(t, sb.Played)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t)
	for _, g := range []Game{
		{SessionID: "a", Mode: "fixed", Start: "EAST", Target: "WEST", Steps: 2, Optimal: 2, Won: true, ElapsedMs: 900},
		{SessionID: "a", Mode: "fixed", Start: "EAST", Target: "WEST", Steps: 4, Optimal: 2, Won: true, ElapsedMs: 400},
		{SessionID: "b", Mode: "fixed", Start: "EAST", Target: "WEST", Steps: 1, Optimal: 2, Won: false},
		{SessionID: "b", Mode: "random+path", Start: "PORE", Target: "RUDE", Steps: 4, Optimal: 4, Won: true, ElapsedMs: 100},
	} {
		require.NoError(t, l.Record(ctx, g))
	}

	s, err := l.Stats(ctx, "fixed")
	require.NoError(t, err)
	require.Equal(t, Stats{Played: 3, Won: 2, AvgSteps: 3, AvgOverhead: 1, BestElapsed: 400}, s)

	s, err = l.Stats(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 4, s.Played)
	require.Equal(t, int64(100), s.BestElapsed)

	s, err = l.Stats(ctx, "daily")
	require.NoError(t, err)
	require.Equal(t, Stats{}, s)
}

func TestDailyLeaderboardAndOncePerDay(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t)
	day := "2026-10-19"
	daily := func(sid string, steps int, ms int64) Game {
		return Game{SessionID: sid, Mode: "daily", Date: day, Start: "EAST", Target: "WEST", Steps: steps, Optimal: 2, Won: true, ElapsedMs: ms}
	}
	require.NoError(t, l.Record(ctx, daily("slow", 2, 5000)))
	require.NoError(t, l.Record(ctx, daily("fast", 2, 1000)))
	require.NoError(t, l.Record(ctx, daily("long", 5, 10)))
	// second win on the same day is ignored
	require.NoError(t, l.Record(ctx, daily("long", 2, 1)))

	rows, err := l.Leaderboard(ctx, day, 0)
	require.NoError(t, err)
	require.Equal(t, []LeaderboardRow{
		{SessionID: "fast", Steps: 2, ElapsedMs: 1000},
		{SessionID: "slow", Steps: 2, ElapsedMs: 5000},
		{SessionID: "long", Steps: 5, ElapsedMs: 10},
	}, rows)

	played, err := l.PlayedDaily(ctx, "fast", day)
	require.NoError(t, err)
	require.True(t, played)
	played, err = l.PlayedDaily(ctx, "fast", "2026-10-20")
	require.NoError(t, err)
	require.False(t, played)

	rows, err = l.Leaderboard(ctx, "2026-10-20", 5)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t)
	fsys := fstest.MapFS{
		"001_games.sql": {Data: []byte(`CREATE TABLE IF NOT EXISTS games (id TEXT PRIMARY KEY);`)},
		"003_extra.sql": {Data: []byte(`CREATE TABLE extra (x INTEGER);`)},
	}
	require.NoError(t, migrate(ctx, l.db, fsys, zerolog.Nop()))
	// 003 would fail on a second CREATE TABLE if it were re-applied
	require.NoError(t, migrate(ctx, l.db, fsys, zerolog.Nop()))

	var n int
	require.NoError(t, l.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM _migrations`).Scan(&n))
	require.Equal(t, 3, n)
}

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t)

	d, err := words.New([]string{"EAST", "WAST", "WEST", "VAST", "VEST"}, 4)
	require.NoError(t, err)
	eng, err := game.New(d)
	require.NoError(t, err)

	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	r := l.Track(eng, "sess", pathfinder.NewIndex(d))
	r.now = func() time.Time { return now }

	// abandoned after progress
	require.NoError(t, eng.Initialize())
	_, err = eng.Tick("VAST")
	require.NoError(t, err)

	// new attempt, won in three steps
	now = now.Add(time.Second)
	eng.Reset()
	_, err = eng.Tick("VAST")
	require.NoError(t, err)
	_, err = eng.Tick("VEST")
	require.NoError(t, err)
	now = now.Add(1500 * time.Millisecond)
	_, err = eng.Tick("WEST")
	require.NoError(t, err)

	// further notifications after the win change nothing
	eng.SetShowPath(true)
	_, _ = eng.Tick("WAST")

	// a fresh attempt without progress is not recorded on close
	eng.Reset()
	r.Close()

	s, err := l.Stats(ctx, "fixed")
	require.NoError(t, err)
	require.Equal(t, Stats{Played: 2, Won: 1, AvgSteps: 3, AvgOverhead: 1, BestElapsed: 1500}, s)
}

func TestRecorderDatesAttemptByItsStart(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t)

	d, err := words.New([]string{"EAST", "WAST", "WEST"}, 4)
	require.NoError(t, err)
	now := time.Date(2026, 10, 19, 23, 59, 30, 0, time.UTC)
	clock := func() time.Time { return now }
	eng, err := game.New(d, game.WithDaily("salt"), game.WithClock(clock))
	require.NoError(t, err)

	r := l.Track(eng, "sess", pathfinder.NewIndex(d))
	r.now = clock
	require.NoError(t, eng.Initialize())

	// solved after midnight
	now = now.Add(time.Minute)
	for _, w := range eng.SolutionPath()[1:] {
		_, err = eng.Tick(w)
		require.NoError(t, err)
	}
	require.True(t, eng.Won())
	r.Close()

	played, err := l.PlayedDaily(ctx, "sess", "2026-10-19")
	require.NoError(t, err)
	require.True(t, played)
	rows, err := l.Leaderboard(ctx, "2026-10-20", 0)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestRecorderCloseFlushesProgress(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t)

	d, err := words.New([]string{"EAST", "WAST", "WEST"}, 4)
	require.NoError(t, err)
	eng, err := game.New(d)
	require.NoError(t, err)

	r := l.Track(eng, "sess", nil)
	require.NoError(t, eng.Initialize())
	_, err = eng.Tick("WAST")
	require.NoError(t, err)
	r.Close()
	r.Close()

	s, err := l.Stats(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 1, s.Played)
	require.Zero(t, s.Won)
}

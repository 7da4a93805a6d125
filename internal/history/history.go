// Package history is a process-lifetime ledger of finished games.
//
// Responsibilities:
//   - Opening a private in-memory SQLite database (nothing touches disk,
//     so the ledger disappears with the process).
//   - Applying the embedded migrations, recorded in _migrations.
//   - Recording games and answering stats / daily leaderboard queries.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/robalobadob/weaver/assets"
)

// Game is one finished or abandoned attempt.
type Game struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	Mode      string `json:"mode"`
	Date      string `json:"date"` // YYYY-MM-DD, UTC
	Start     string `json:"start"`
	Target    string `json:"target"`
	Steps     int    `json:"steps"`
	Optimal   int    `json:"optimal"` // shortest ladder length in steps, 0 if unknown
	Won       bool   `json:"won"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Stats aggregates recorded games.
type Stats struct {
	Played      int     `json:"played"`
	Won         int     `json:"won"`
	AvgSteps    float64 `json:"avgSteps"`      // over won games
	AvgOverhead float64 `json:"avgOverhead"`   // steps beyond optimal, over won games
	BestElapsed int64   `json:"bestElapsedMs"` // fastest win
}

// LeaderboardRow is one daily win.
type LeaderboardRow struct {
	SessionID string `json:"sessionId"`
	Steps     int    `json:"steps"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Ledger wraps the database handle. It is safe for concurrent use.
type Ledger struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open creates a fresh in-memory ledger and migrates it.
func Open(ctx context.Context, log zerolog.Logger) (*Ledger, error) {
	// A unique name keeps ledgers in one process apart; shared cache keeps
	// the database alive across pooled connections.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_busy_timeout=5000&_foreign_keys=on"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping ledger: %w", err)
	}

	migrations, err := assets.Migrations()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(ctx, db, migrations, log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Ledger{db: db, log: log}, nil
}

// Close releases the database; its contents are gone afterwards.
func (l *Ledger) Close() error { return l.db.Close() }

// migrate applies *.sql files from fsys in lexical order, each in its own
// transaction, skipping names already in _migrations.
func migrate(ctx context.Context, db *sql.DB, fsys fs.FS, log zerolog.Logger) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		body, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Debug().Str("migration", f).Msg("applied")
	}
	return nil
}

// Record inserts g. A second daily win for the same session and date is
// ignored.
func (l *Ledger) Record(ctx context.Context, g Game) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	won := 0
	if g.Won {
		won = 1
	}
	_, err := l.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO games
            (id, session_id, mode, play_date, start_word, target_word, steps, optimal, won, elapsed_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.SessionID, g.Mode, g.Date, g.Start, g.Target, g.Steps, g.Optimal, won, g.ElapsedMs,
	)
	if err != nil {
		return fmt.Errorf("record game: %w", err)
	}
	return nil
}

// Stats aggregates games of mode, or of every mode when mode is "".
func (l *Ledger) Stats(ctx context.Context, mode string) (Stats, error) {
	var s Stats
	err := l.db.QueryRowContext(ctx, `
        SELECT COUNT(1),
               COALESCE(SUM(won), 0),
               COALESCE(AVG(CASE WHEN won = 1 THEN steps END), 0),
               COALESCE(AVG(CASE WHEN won = 1 AND optimal > 0 THEN steps - optimal END), 0),
               COALESCE(MIN(CASE WHEN won = 1 THEN elapsed_ms END), 0)
        FROM games
        WHERE (? = '' OR mode = ?)`, mode, mode,
	).Scan(&s.Played, &s.Won, &s.AvgSteps, &s.AvgOverhead, &s.BestElapsed)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return s, nil
}

// PlayedDaily reports whether the session already won the daily puzzle of date.
func (l *Ledger) PlayedDaily(ctx context.Context, sessionID, date string) (bool, error) {
	var cnt int
	if err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM games WHERE mode='daily' AND won=1 AND session_id=? AND play_date=?`,
		sessionID, date,
	).Scan(&cnt); err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// Leaderboard lists daily wins for date, fewest steps first, then fastest.
// A non-positive limit means 20.
func (l *Ledger) Leaderboard(ctx context.Context, date string, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx, `
        SELECT session_id, steps, elapsed_ms
        FROM games
        WHERE mode = 'daily' AND won = 1 AND play_date = ?
        ORDER BY steps ASC, elapsed_ms ASC, created_at ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0, limit)
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.SessionID, &r.Steps, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

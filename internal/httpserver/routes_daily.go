// internal/httpserver/routes_daily.go
//
// Ledger routes.
//   - GET /stats             → aggregate over recorded games (?mode= filters)
//   - GET /daily/leaderboard → daily wins for ?date= (default today, UTC)

package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/weaver/internal/strategy"
)

func (s *Server) mountLedger(r chi.Router) {
	r.Get("/stats", s.handleStats)
	r.Route("/daily", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeError(w, http.StatusServiceUnavailable, "no_ledger", "")
		return
	}
	mode := r.URL.Query().Get("mode")
	if mode != "" {
		if _, err := strategy.ParseKind(mode); err != nil {
			writeError(w, http.StatusBadRequest, "bad_mode", err.Error())
			return
		}
	}
	st, err := s.ledger.Stats(r.Context(), mode)
	if err != nil {
		s.log.Error().Err(err).Msg("stats")
		writeError(w, http.StatusInternalServerError, "ledger_failed", "")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type leaderboardRes struct {
	Date string `json:"date"`
	Rows any    `json:"rows"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeError(w, http.StatusServiceUnavailable, "no_ledger", "")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = strategy.DateKey(s.now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date", "want YYYY-MM-DD")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > 100 {
		limit = 100
	}

	rows, err := s.ledger.Leaderboard(r.Context(), date, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "ledger_failed", "")
		return
	}
	writeJSON(w, http.StatusOK, leaderboardRes{Date: date, Rows: rows})
}

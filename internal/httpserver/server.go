// internal/httpserver/server.go
//
// HTTP shell for the word-ladder game.
//
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, timeouts,
//     JSON content type, access log, per-IP rate limit).
//   - Public endpoints: "/", "/health".
//   - Game endpoints under /game, bound to the caller's session.
//   - Ledger endpoints: /stats and /daily/leaderboard.
//
// Notes:
//   - One session owns one engine. The JWT in the weaver_session cookie
//     (or an Authorization bearer) carries the player (sub) and the
//     engine (sid); an unknown sid gets a fresh engine.
//   - Rejection messages follow the engine's show-errors flag.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/robalobadob/weaver/internal/game"
	"github.com/robalobadob/weaver/internal/history"
	"github.com/robalobadob/weaver/internal/pathfinder"
	"github.com/robalobadob/weaver/internal/store"
	"github.com/robalobadob/weaver/internal/strategy"
	"github.com/robalobadob/weaver/internal/words"
)

// Options configure a Server.
type Options struct {
	Flags                   game.Flags
	FixedStart, FixedTarget string
	DailySalt               string
	SigningKey              []byte
	SessionTTL              time.Duration
	RateLimitRPS            float64
	RateLimitBurst          int
	RequestTimeout          time.Duration
}

// Server bundles router, session store, dictionary, and history ledger.
type Server struct {
	r       *chi.Mux
	store   store.Store
	ledger  *history.Ledger
	dict    *words.Dictionary
	index   *pathfinder.Index
	opts    Options
	signKey []byte
	limiter *limiter
	log     zerolog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// New constructs a Server, installs middleware, and registers routes.
// ledger may be nil, in which case nothing is recorded and the ledger
// endpoints answer 503.
func New(st store.Store, ledger *history.Ledger, dict *words.Dictionary, opts Options, log zerolog.Logger) *Server {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.FixedStart == "" || opts.FixedTarget == "" {
		opts.FixedStart, opts.FixedTarget = game.DefaultStart, game.DefaultTarget
	}
	s := &Server{
		r:        chi.NewRouter(),
		store:    st,
		ledger:   ledger,
		dict:     dict,
		index:    pathfinder.NewIndex(dict),
		opts:     opts,
		signKey:  opts.SigningKey,
		limiter:  newLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*session),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(accessLog(log))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(opts.RequestTimeout))
	s.r.Use(jsonContentType)
	s.r.Use(s.limiter.middleware)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"weaver","endpoints":["/health","/game","/stats","/daily/leaderboard"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/game", func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.handleState)
		r.Post("/new", s.handleNewGame)
		r.Post("/guess", s.handleGuess)
		r.Post("/reset", s.handleReset)
		r.Post("/flags", s.handleFlags)
		r.Get("/solution", s.handleSolution)
	})
	s.mountLedger(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	})

	return s
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler { return s.r }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Close records every open session's unfinished attempt.
func (s *Server) Close(ctx context.Context) {
	s.mu.Lock()
	open := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()
	for _, sess := range open {
		s.closeSession(ctx, sess)
	}
}

// ------------------------------ payloads -----------------------------------

type errorRes struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorRes{Error: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// stateRes is the common view of a session.
type stateRes struct {
	Status   game.Status   `json:"status"`
	State    game.Snapshot `json:"state"`
	Flags    game.Flags    `json:"flags"`
	Solution []string      `json:"solution,omitempty"` // only with showPath
	Message  string        `json:"message,omitempty"`
	Warning  string        `json:"warning,omitempty"`
}

func view(eng *game.Engine) stateRes {
	res := stateRes{Status: eng.Status(), State: eng.Snapshot(), Flags: eng.Flags()}
	if res.Flags.ShowPath {
		res.Solution = eng.SolutionPath()
	}
	return res
}

// withNotice copies the latest notification's text into res. The entry
// lock must not be held.
func withNotice(res stateRes, e *store.Entry) stateRes {
	n := e.Last()
	res.Message, res.Warning = n.Message, n.Warning
	return res
}

// ------------------------------- GAME ---------------------------------------

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var res stateRes
	_ = sess.entry.Do(func(eng *game.Engine) error {
		res = view(eng)
		return nil
	})
	writeJSON(w, http.StatusOK, res)
}

type newGameReq struct {
	Mode string `json:"mode"` // "" keeps the current mode; "fixed" | "random" | "daily"
}

// handleNewGame initializes the session's engine, first swapping it for
// a daily (or non-daily) engine when the requested mode needs that.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}

	sess := sessionFrom(r)
	kind := strategy.Kind(-1)
	if req.Mode != "" {
		k, err := strategy.ParseKind(req.Mode)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_mode", err.Error())
			return
		}
		kind = k
	}

	// an empty mode keeps the session's current one
	wantDaily := kind == strategy.KindDaily || (kind < 0 && sess.daily)
	if wantDaily && !s.dailyOpen(w, r, sess) {
		return
	}

	if kind >= 0 && wantDaily != sess.daily {
		next, err := s.openSession(r.Context(), w, sess.player, wantDaily)
		if err != nil {
			s.log.Error().Err(err).Msg("open session")
			writeError(w, http.StatusInternalServerError, "session_failed", "")
			return
		}
		s.closeSession(r.Context(), sess)
		sess = next
	}

	var (
		res     stateRes
		initErr error
	)
	_ = sess.entry.Do(func(eng *game.Engine) error {
		switch kind {
		case strategy.KindFixed:
			eng.SetRandomWords(false)
		case strategy.KindRandom, strategy.KindRandomWithPath:
			eng.SetRandomWords(true)
		}
		initErr = eng.Initialize()
		res = view(eng)
		return nil
	})
	res = withNotice(res, sess.entry)
	if initErr != nil {
		s.log.Warn().Err(initErr).Str("session", sess.entry.ID).Msg("new game")
		writeError(w, http.StatusServiceUnavailable, "word_generation_failed", res.Warning)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type guessReq struct {
	Guess string `json:"guess"`
}

type guessRes struct {
	Result game.ValidationResult `json:"result"`
	stateRes
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}

	sess := sessionFrom(r)
	var (
		res     guessRes
		tickErr error
		verbose bool
	)
	_ = sess.entry.Do(func(eng *game.Engine) error {
		res.Result, tickErr = eng.Tick(req.Guess)
		res.stateRes = view(eng)
		verbose = eng.Flags().ShowErrors
		return nil
	})

	if tickErr != nil {
		status, code := errorStatus(tickErr)
		msg := ""
		switch {
		case verbose:
			msg = game.Reason(tickErr)
		case errors.Is(tickErr, game.ErrInvalidWord):
			code = "rejected"
		}
		writeError(w, status, code, msg)
		return
	}
	res.stateRes = withNotice(res.stateRes, sess.entry)
	writeJSON(w, http.StatusOK, res)
}

// errorStatus maps engine errors to HTTP statuses and stable codes.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrLadderRule):
		return http.StatusBadRequest, "ladder_rule"
	case errors.Is(err, game.ErrNotInDictionary):
		return http.StatusBadRequest, "not_in_dictionary"
	case errors.Is(err, game.ErrLength):
		return http.StatusBadRequest, "bad_length"
	case errors.Is(err, game.ErrNotInitialized):
		return http.StatusConflict, "not_initialized"
	case errors.Is(err, game.ErrGameOver):
		return http.StatusConflict, "game_over"
	case errors.Is(err, game.ErrWordGeneration):
		return http.StatusServiceUnavailable, "word_generation_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// dailyOpen reports whether the player may still play today's puzzle,
// answering 409 already_played (or 500) when not.
func (s *Server) dailyOpen(w http.ResponseWriter, r *http.Request, sess *session) bool {
	if s.ledger == nil {
		return true
	}
	played, err := s.ledger.PlayedDaily(r.Context(), sess.player, strategy.DateKey(s.now()))
	if err != nil {
		s.log.Error().Err(err).Msg("check daily")
		writeError(w, http.StatusInternalServerError, "ledger_failed", "")
		return false
	}
	if played {
		writeError(w, http.StatusConflict, "already_played", "Today's puzzle is already solved.")
		return false
	}
	return true
}

// handleReset puts the session back on its start word. A solved daily
// stays solved.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if sess.daily && !s.dailyOpen(w, r, sess) {
		return
	}
	var res stateRes
	_ = sess.entry.Do(func(eng *game.Engine) error {
		eng.Reset()
		res = view(eng)
		return nil
	})
	writeJSON(w, http.StatusOK, withNotice(res, sess.entry))
}

// flagsReq fields are optional; absent ones are left unchanged.
type flagsReq struct {
	ShowErrors  *bool `json:"showErrors"`
	ShowPath    *bool `json:"showPath"`
	RandomWords *bool `json:"randomWords"`
}

func (s *Server) handleFlags(w http.ResponseWriter, r *http.Request) {
	var req flagsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	sess := sessionFrom(r)
	var res stateRes
	_ = sess.entry.Do(func(eng *game.Engine) error {
		if req.ShowErrors != nil {
			eng.SetShowErrors(*req.ShowErrors)
		}
		if req.RandomWords != nil {
			eng.SetRandomWords(*req.RandomWords)
		}
		if req.ShowPath != nil {
			eng.SetShowPath(*req.ShowPath)
		}
		res = view(eng)
		return nil
	})
	writeJSON(w, http.StatusOK, res)
}

type solutionRes struct {
	Path    []string                `json:"path"`
	Results []game.ValidationResult `json:"results"`
}

// handleSolution computes the shortest ladder on demand, independent of
// the show-path flag.
func (s *Server) handleSolution(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	var (
		res    solutionRes
		status = http.StatusOK
	)
	_ = sess.entry.Do(func(eng *game.Engine) error {
		if eng.Status() == game.StatusUninitialized {
			status = http.StatusConflict
			return nil
		}
		res.Path = eng.SolutionPath()
		res.Results = game.ScorePath(eng.Target(), res.Path, s.dict)
		return nil
	})
	if status != http.StatusOK {
		writeError(w, status, "not_initialized", "")
		return
	}
	if res.Path == nil {
		res.Path = []string{}
	}
	if res.Results == nil {
		res.Results = []game.ValidationResult{}
	}
	writeJSON(w, http.StatusOK, res)
}

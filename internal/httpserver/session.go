package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/robalobadob/weaver/internal/game"
	"github.com/robalobadob/weaver/internal/history"
	"github.com/robalobadob/weaver/internal/store"
)

// CookieName carries the session token.
const CookieName = "weaver_session"

// sessionClaims ties a player (Subject) to one live engine (sid).
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// session is the server-side bookkeeping for one store entry.
type session struct {
	player string
	entry  *store.Entry
	rec    *history.Recorder
	daily  bool
}

type ctxSessionKey struct{}

func sessionFrom(r *http.Request) *session {
	s, _ := r.Context().Value(ctxSessionKey{}).(*session)
	return s
}

func (s *Server) signToken(player, sid string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.opts.SessionTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   player,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString(s.signKey)
	return ss, exp, err
}

func (s *Server) parseToken(tok string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (interface{}, error) {
		return s.signKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !t.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// setSessionCookie writes the token cookie. The shell is meant for
// localhost, so the cookie is not marked Secure.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or the session cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// withSession resolves the caller's session, creating a player and an
// engine when the token is missing, invalid, or points at a swept entry.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var player, sid string
		if tok := bearerOrCookie(r); tok != "" {
			if c, err := s.parseToken(tok); err == nil {
				player, sid = c.Subject, c.SessionID
			}
		}
		if player == "" {
			player = uuid.NewString()
		}

		sess := s.lookup(r.Context(), sid)
		if sess == nil || sess.player != player {
			var err error
			sess, err = s.openSession(r.Context(), w, player, false)
			if err != nil {
				s.log.Error().Err(err).Msg("open session")
				writeError(w, http.StatusInternalServerError, "session_failed", "")
				return
			}
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) lookup(ctx context.Context, sid string) *session {
	if sid == "" {
		return nil
	}
	if _, err := s.store.Get(ctx, sid); err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sid]
}

// openSession creates an engine for player, registers it and issues a
// new token for it.
func (s *Server) openSession(ctx context.Context, w http.ResponseWriter, player string, daily bool) (*session, error) {
	eng, err := s.newEngine(daily)
	if err != nil {
		return nil, err
	}
	entry, err := s.store.Put(ctx, eng)
	if err != nil {
		return nil, err
	}
	sess := &session{player: player, entry: entry, daily: daily}
	if s.ledger != nil {
		sess.rec = s.ledger.Track(eng, player, s.index)
	}

	s.mu.Lock()
	s.sessions[entry.ID] = sess
	s.mu.Unlock()

	tok, exp, err := s.signToken(player, entry.ID)
	if err != nil {
		s.closeSession(ctx, sess)
		return nil, err
	}
	s.setSessionCookie(w, tok, exp)
	w.Header().Set("X-Session-Token", tok)
	s.log.Debug().Str("player", player).Str("session", entry.ID).Bool("daily", daily).Msg("session opened")
	return sess, nil
}

func (s *Server) newEngine(daily bool) (*game.Engine, error) {
	opts := []game.Option{
		game.WithLogger(s.log),
		game.WithFlags(s.opts.Flags),
		game.WithFixedWords(s.opts.FixedStart, s.opts.FixedTarget),
	}
	if daily {
		opts = append(opts, game.WithDaily(s.opts.DailySalt))
	}
	return game.New(s.dict, opts...)
}

// closeSession records any unfinished attempt and forgets the session.
func (s *Server) closeSession(ctx context.Context, sess *session) {
	if sess.rec != nil {
		_ = sess.entry.Do(func(*game.Engine) error {
			sess.rec.Close()
			return nil
		})
	}
	_ = s.store.Delete(ctx, sess.entry.ID)
	s.mu.Lock()
	delete(s.sessions, sess.entry.ID)
	s.mu.Unlock()
}

// Sweep closes sessions idle longer than the session TTL and forgets
// idle rate-limit buckets. It returns the number of sessions closed.
func (s *Server) Sweep(ctx context.Context) int {
	return s.sweepBefore(ctx, time.Now().Add(-s.opts.SessionTTL))
}

func (s *Server) sweepBefore(ctx context.Context, cutoff time.Time) int {
	swept := s.store.Sweep(ctx, cutoff)
	for _, e := range swept {
		s.mu.Lock()
		sess := s.sessions[e.ID]
		s.mu.Unlock()
		if sess != nil {
			s.closeSession(ctx, sess)
		}
	}
	s.limiter.sweep(cutoff)
	if len(swept) > 0 {
		s.log.Info().Int("sessions", len(swept)).Msg("swept idle sessions")
	}
	return len(swept)
}

package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one zerolog event per request.
func accessLog(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info().
					Str("req_id", chimw.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("took", time.Since(start)).
					Msg("http")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

// limiter hands out one token bucket per client IP.
type limiter struct {
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
	visitors map[string]*visitor
}

func newLimiter(rps float64, burst int) *limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &limiter{rps: rate.Limit(rps), burst: burst, visitors: make(map[string]*visitor)}
}

func (l *limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = v
	}
	v.seen = time.Now()
	return v.lim
}

// sweep forgets clients not seen since cutoff.
func (l *limiter) sweep(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k, v := range l.visitors {
		if v.seen.Before(cutoff) {
			delete(l.visitors, k)
		}
	}
}

// middleware rejects requests over the client's budget with 429.
// RealIP must run first so RemoteAddr is the client address.
func (l *limiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if host, _, err := net.SplitHostPort(key); err == nil {
			key = host
		}
		if !l.get(key).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please slow down.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

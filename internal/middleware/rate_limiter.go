package middleware

import (
	"net/http"
	"sync"
	"time"

	"cotizador/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// window tracks request counts of one key within a fixed window.
type window struct {
	count int
	ends  time.Time
}

// RateLimiter is a fixed-window limiter keyed by client IP.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	span      time.Duration
	entries   map[string]*window
	nextPurge time.Time
	now       func() time.Time
}

func NewRateLimiter(limit int, span time.Duration) *RateLimiter {
	return &RateLimiter{limit: limit, span: span, entries: make(map[string]*window), now: time.Now}
}

// Allow counts one request for key and reports whether it is within the limit.
// The second value is when the current window ends.
func (l *RateLimiter) Allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.purgeLocked(now)

	w, ok := l.entries[key]
	if !ok || now.After(w.ends) {
		w = &window{ends: now.Add(l.span)}
		l.entries[key] = w
	}
	w.count++
	return w.count <= l.limit, w.ends
}

// purgeLocked drops expired windows so IPs that never return do not accumulate.
func (l *RateLimiter) purgeLocked(now time.Time) {
	if now.Before(l.nextPurge) {
		return
	}
	purged := 0
	for k, w := range l.entries {
		if now.After(w.ends) {
			delete(l.entries, k)
			purged++
		}
	}
	l.nextPurge = now.Add(5 * time.Minute)
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.entries)).Msg("rate limiter purged")
	}
}

// Middleware rejects requests beyond the limit with 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, ends := l.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", ends.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

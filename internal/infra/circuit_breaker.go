package infra

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// BreakerState is the position of a CircuitBreaker: closed (calls flow),
// open (calls fail fast) or half-open (probing for recovery).
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned by Execute while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerConfig holds the tunables of a CircuitBreaker.
type BreakerConfig struct {
	Name             string
	FailureThreshold int           // consecutive failures that trip the breaker
	SuccessThreshold int           // half-open successes needed to close again
	OpenTimeout      time.Duration // time spent open before probing
}

// DefaultBreakerConfig returns the defaults used for the ERP and FX clients.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
	}
}

// CircuitBreaker guards calls to a flaky upstream. Safe for concurrent use.
type CircuitBreaker struct {
	cfg BreakerConfig
	now func() time.Time

	mu        sync.Mutex
	state     BreakerState
	failures  int
	successes int
	openedAt  time.Time
}

func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	def := DefaultBreakerConfig(cfg.Name)
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

func (cb *CircuitBreaker) Name() string { return cb.cfg.Name }

// State reports the current state, moving open → half-open once the timeout elapsed.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentLocked()
}

func (cb *CircuitBreaker) currentLocked() BreakerState {
	if cb.state == BreakerOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.OpenTimeout {
		cb.setLocked(BreakerHalfOpen)
	}
	return cb.state
}

// Execute runs fn unless the breaker is open. Context cancellation is not
// counted as an upstream failure: a superseded search says nothing about the ERP.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if cb.State() == BreakerOpen {
		return ErrCircuitOpen
	}

	err := fn(ctx)

	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch {
	case err == nil:
		cb.onSuccessLocked()
	case errors.Is(err, context.Canceled):
	default:
		cb.onFailureLocked()
	}
	return err
}

func (cb *CircuitBreaker) onFailureLocked() {
	cb.failures++
	switch cb.state {
	case BreakerClosed:
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.tripLocked()
		}
	case BreakerHalfOpen:
		cb.tripLocked()
	}
}

func (cb *CircuitBreaker) onSuccessLocked() {
	switch cb.state {
	case BreakerClosed:
		cb.failures = 0
	case BreakerHalfOpen:
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.setLocked(BreakerClosed)
		}
	}
}

func (cb *CircuitBreaker) tripLocked() {
	cb.openedAt = cb.now()
	cb.setLocked(BreakerOpen)
}

func (cb *CircuitBreaker) setLocked(s BreakerState) {
	if cb.state == s {
		return
	}
	log.Warn().
		Str("breaker", cb.cfg.Name).
		Str("from", cb.state.String()).
		Str("to", s.String()).
		Msg("circuit breaker state change")
	cb.state = s
	cb.failures = 0
	cb.successes = 0
}

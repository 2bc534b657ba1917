package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cotizador/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueQuoteEmail = "jobs:quote_email"
	QueueERPExport  = "jobs:erp_export"

	JobQuoteEmail = "quote_email"
	JobERPExport  = "erp_export"

	// MaxJobAttempts bounds how often a handler runs before the job goes to the DLQ.
	MaxJobAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Replays int             `json:"replays,omitempty"`
}

// QuoteJobPayload addresses a saved quote.
type QuoteJobPayload struct {
	QuoteID string `json:"quote_id"`
}

// Handler runs one job. Returning an error makes the pool retry it.
type Handler func(ctx context.Context, payload json.RawMessage) error

var errInvalidPayload = errors.New("invalid job payload")

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

var _ service.JobQueue = (*Dispatcher)(nil)

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueQuoteEmail schedules the PDF + email of a quote.
func (d *Dispatcher) EnqueueQuoteEmail(ctx context.Context, quoteID string) error {
	return d.enqueue(ctx, QueueQuoteEmail, JobQuoteEmail, QuoteJobPayload{QuoteID: quoteID})
}

// EnqueueERPExport schedules the GENERIC_TXT export of an ordered quote.
func (d *Dispatcher) EnqueueERPExport(ctx context.Context, quoteID string) error {
	return d.enqueue(ctx, QueueERPExport, JobERPExport, QuoteJobPayload{QuoteID: quoteID})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{ID: uuid.NewString(), Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	queues   []string
	handlers map[string]Handler
	backoff  func(attempt int) time.Duration
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{rdb: rdb, handlers: make(map[string]Handler), backoff: exponentialBackoff}
}

// Handle registers h for jobType arriving on queue.
func (p *Pool) Handle(queue, jobType string, h Handler) {
	p.handlers[jobType] = h
	for _, q := range p.queues {
		if q == queue {
			return
		}
	}
	p.queues = append(p.queues, queue)
}

// Start launches numWorkers goroutines consuming every registered queue.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if len(p.queues) == 0 {
		return
	}
	for i := 0; i < numWorkers; i++ {
		go p.runWorker(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", p.queues).Msg("worker pool started")
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.Process(ctx, result[0], result[1])
		}
	}
}

// Process runs one raw job taken from queue, retrying with backoff and moving
// it to the DLQ when it keeps failing.
func (p *Pool) Process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		SendToDLQ(ctx, p.rdb, queue, Job{Payload: quoted}, "malformed envelope", 0)
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job, "no handler for job type", 0)
		return
	}

	logger := log.With().Str("queue", queue).Str("type", job.Type).Str("job_id", job.ID).Logger()
	attempts, err := withRetry(ctx, MaxJobAttempts, p.backoff, func(attempt int) error {
		err := h(ctx, job.Payload)
		if err != nil && !permanent(err) {
			logger.Warn().Err(err).Int("attempt", attempt+1).Msg("job attempt failed, retrying")
		}
		return err
	})
	if err != nil {
		logger.Error().Err(err).Int("attempts", attempts).Msg("job failed")
		SendToDLQ(ctx, p.rdb, queue, job, err.Error(), attempts)
		return
	}
	logger.Debug().Msg("job done")
}

// permanent errors are not retried: the job can never succeed.
func permanent(err error) bool {
	return errors.Is(err, service.ErrQuoteNotFound) || errors.Is(err, errInvalidPayload)
}

func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt-1)) * time.Second
}

// withRetry calls fn up to maxAttempts times, waiting backoff(i) before the
// i-th retry. It returns the number of attempts made and the last error.
func withRetry(ctx context.Context, maxAttempts int, backoff func(int) time.Duration, fn func(attempt int) error) (int, error) {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return i, ctx.Err()
			case <-time.After(backoff(i)):
			}
		}
		lastErr = fn(i)
		if lastErr == nil {
			return i + 1, nil
		}
		if permanent(lastErr) {
			return i + 1, lastErr
		}
	}
	return maxAttempts, lastErr
}

func decodeQuotePayload(raw json.RawMessage) (string, error) {
	var payload QuoteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.QuoteID == "" {
		return "", fmt.Errorf("%w: %s", errInvalidPayload, string(raw))
	}
	return payload.QuoteID, nil
}

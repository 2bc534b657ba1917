package worker

// retry_cron.go
// Background goroutine that periodically gives dead-lettered jobs another
// chance. An SMTP outage or a full export disk parks jobs in the DLQ; once the
// dependency is back they go through on replay. Each job is replayed at most
// MaxReplays times and then stays in the DLQ for manual inspection.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	defaultReplayInterval = 5 * time.Minute
	replayBatchSize       = 20
	MaxReplays            = 3
)

// ReplayConfig holds all dependencies for the replay goroutine.
type ReplayConfig struct {
	RDB      *redis.Client
	Queues   []string
	Interval time.Duration
}

// StartDLQReplay launches a goroutine that ticks every Interval and replays
// each queue's DLQ. It respects the context for graceful shutdown.
func StartDLQReplay(ctx context.Context, cfg ReplayConfig) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultReplayInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("dlq_replay: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("dlq_replay: shutting down")
				return
			case <-ticker.C:
				for _, q := range cfg.Queues {
					if _, err := ReplayDLQ(ctx, cfg.RDB, q); err != nil {
						log.Error().Err(err).Str("queue", q).Msg("dlq_replay: replay failed")
					}
				}
			}
		}
	}()
}

// ReplayDLQ moves up to one batch of entries from queue's DLQ back onto queue.
// Entries that already used their replays are kept in the DLQ. It returns the
// number of jobs re-enqueued.
func ReplayDLQ(ctx context.Context, rdb *redis.Client, queue string) (int, error) {
	dlqKey := DLQPrefix + queue
	pending, err := rdb.LLen(ctx, dlqKey).Result()
	if err != nil {
		return 0, err
	}
	if pending > replayBatchSize {
		pending = replayBatchSize
	}

	replayed := 0
	var exhausted [][]byte
	for i := int64(0); i < pending; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Bytes()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return replayed, err
		}

		var entry DLQEntry
		if err := json.Unmarshal(raw, &entry); err != nil || entry.Job.Type == "" || entry.Job.Replays >= MaxReplays {
			exhausted = append(exhausted, raw)
			continue
		}
		entry.Job.Replays++
		encoded, err := json.Marshal(entry.Job)
		if err != nil {
			exhausted = append(exhausted, raw)
			continue
		}
		if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
			exhausted = append(exhausted, raw)
			break
		}
		replayed++
	}

	// Exhausted entries rotate to the head so they stop crowding the batch.
	for _, raw := range exhausted {
		if err := rdb.LPush(ctx, dlqKey, raw).Err(); err != nil {
			return replayed, err
		}
	}
	if replayed > 0 {
		log.Info().Str("queue", queue).Int("replayed", replayed).Msg("dlq_replay: jobs re-enqueued")
	}
	return replayed, nil
}

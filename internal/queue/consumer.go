package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lapor-warga/internal/metrics"
)

// Handler processes one job payload. Returning nil acknowledges the entry;
// returning an error leaves it pending for redelivery with backoff. Handlers
// must only return nil once their durable side effect has committed.
type Handler func(ctx context.Context, payload []byte) error

type ConsumerOptions struct {
	Group       string
	Consumer    string
	Workers     int
	MaxAttempts int
	BackoffBase time.Duration
	ClaimEvery  time.Duration
}

func (o *ConsumerOptions) defaults() {
	if o.Group == "" {
		o.Group = "workers"
	}
	if o.Consumer == "" {
		o.Consumer = "consumer"
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 5
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = 15 * time.Second
	}
	if o.ClaimEvery <= 0 {
		o.ClaimEvery = 10 * time.Second
	}
}

// Consumer drains one stream through a consumer group: fresh entries via
// XREADGROUP, stalled ones via the pending-entries list, dead ones into a
// dead-letter stream once the attempt budget is spent.
type Consumer struct {
	rdb     *redis.Client
	stream  string
	handler Handler
	opts    ConsumerOptions
	log     zerolog.Logger
}

func NewConsumer(rdb *redis.Client, stream string, handler Handler, opts ConsumerOptions, log zerolog.Logger) *Consumer {
	opts.defaults()
	return &Consumer{
		rdb:     rdb,
		stream:  stream,
		handler: handler,
		opts:    opts,
		log:     log.With().Str("stream", stream).Logger(),
	}
}

// BackoffFor returns how long an entry must sit idle before redelivery
// attempt n (1-based): base, 2*base, 4*base... capped at 16x.
func BackoffFor(base time.Duration, attempt int64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	shift := attempt - 1
	if shift > 4 {
		shift = 4
	}
	return base * time.Duration(1<<shift)
}

// Run blocks until ctx is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	err := c.rdb.XGroupCreateMkStream(ctx, c.stream, c.opts.Group, "0").Err()
	if err != nil && !isBusyGroup(err) {
		return fmt.Errorf("create consumer group: %w", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < c.opts.Workers; i++ {
		wg.Add(1)
		name := fmt.Sprintf("%s-%d", c.opts.Consumer, i)
		go func() {
			defer wg.Done()
			c.readLoop(ctx, name)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.claimLoop(ctx)
	}()

	wg.Wait()
	return ctx.Err()
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}

func (c *Consumer) readLoop(ctx context.Context, consumer string) {
	for {
		if ctx.Err() != nil {
			return
		}

		streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.opts.Group,
			Consumer: consumer,
			Streams:  []string{c.stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error().Err(err).Msg("read group failed")
			time.Sleep(time.Second)
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

// claimLoop redelivers entries whose consumer died or whose handler failed,
// respecting the per-attempt backoff, and dead-letters entries out of budget.
func (c *Consumer) claimLoop(ctx context.Context) {
	ticker := time.NewTicker(c.opts.ClaimEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pending, err := c.rdb.XPendingExt(ctx, &redis.XPendingExtArgs{
			Stream: c.stream,
			Group:  c.opts.Group,
			Start:  "-",
			End:    "+",
			Count:  100,
		}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			c.log.Error().Err(err).Msg("pending scan failed")
			continue
		}

		for _, p := range pending {
			if int(p.RetryCount) >= c.opts.MaxAttempts {
				c.deadLetter(ctx, p)
				continue
			}
			if p.Idle < BackoffFor(c.opts.BackoffBase, p.RetryCount) {
				continue
			}

			msgs, err := c.rdb.XClaim(ctx, &redis.XClaimArgs{
				Stream:   c.stream,
				Group:    c.opts.Group,
				Consumer: c.opts.Consumer + "-claim",
				MinIdle:  p.Idle,
				Messages: []string{p.ID},
			}).Result()
			if err != nil || len(msgs) == 0 {
				continue
			}
			c.process(ctx, msgs[0])
		}
	}
}

// deadLetter moves a spent entry aside for manual inspection; it is never
// silently dropped.
func (c *Consumer) deadLetter(ctx context.Context, p redis.XPendingExt) {
	msgs, err := c.rdb.XClaim(ctx, &redis.XClaimArgs{
		Stream:   c.stream,
		Group:    c.opts.Group,
		Consumer: c.opts.Consumer + "-dead",
		MinIdle:  0,
		Messages: []string{p.ID},
	}).Result()
	if err != nil || len(msgs) == 0 {
		return
	}
	msg := msgs[0]

	meta, _ := json.Marshal(map[string]interface{}{
		"origin_id": msg.ID,
		"attempts":  p.RetryCount,
		"failed_at": time.Now().UTC().Format(time.RFC3339),
	})
	values := map[string]interface{}{"meta": meta}
	if v, ok := msg.Values[payloadField]; ok {
		values[payloadField] = v
	}

	if err := c.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: c.stream + DeadLetterSuffix,
		Values: values,
	}).Err(); err != nil {
		c.log.Error().Err(err).Str("id", msg.ID).Msg("dead letter append failed")
		return
	}

	if err := c.rdb.XAck(ctx, c.stream, c.opts.Group, msg.ID).Err(); err != nil {
		c.log.Error().Err(err).Str("id", msg.ID).Msg("dead letter ack failed")
		return
	}

	metrics.JobsProcessed.WithLabelValues(c.stream, "dead").Inc()
	c.log.Warn().Str("id", msg.ID).Int64("attempts", p.RetryCount).Msg("job moved to dead letter")
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	raw, ok := msg.Values[payloadField].(string)
	if !ok {
		// Malformed entry; ack it away rather than poison the group.
		c.log.Error().Str("id", msg.ID).Msg("entry without payload field")
		_ = c.rdb.XAck(ctx, c.stream, c.opts.Group, msg.ID).Err()
		return
	}

	start := time.Now()
	err := c.handler(ctx, []byte(raw))
	metrics.JobDuration.WithLabelValues(c.stream).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.JobsProcessed.WithLabelValues(c.stream, "retry").Inc()
		c.log.Warn().Err(err).Str("id", msg.ID).Msg("job failed, leaving pending")
		return
	}

	if err := c.rdb.XAck(ctx, c.stream, c.opts.Group, msg.ID).Err(); err != nil {
		// The handler committed; redelivery will be a no-op retry of an
		// idempotent insert path at worst.
		c.log.Error().Err(err).Str("id", msg.ID).Msg("ack failed")
		return
	}
	metrics.JobsProcessed.WithLabelValues(c.stream, "ok").Inc()
}

//go:build integration
// +build integration

package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const defaultRedisURL = "redis://localhost:6379/0"

func setupRedis(t *testing.T) *redis.Client {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = defaultRedisURL
	}

	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)

	for i := 0; i < 10; i++ {
		if err = rdb.Ping(context.Background()).Err(); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "redis not ready")

	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func testStream(t *testing.T, rdb *redis.Client) string {
	stream := fmt.Sprintf("queue:test:%s:%d", t.Name(), time.Now().UnixNano())
	t.Cleanup(func() {
		rdb.Del(context.Background(), stream, stream+DeadLetterSuffix)
	})
	return stream
}

func fastOptions(maxAttempts int) ConsumerOptions {
	return ConsumerOptions{
		Group:       "workers",
		Consumer:    "itest",
		Workers:     1,
		MaxAttempts: maxAttempts,
		BackoffBase: 20 * time.Millisecond,
		ClaimEvery:  50 * time.Millisecond,
	}
}

// A handler that keeps failing must see its entry redelivered with backoff and
// finally moved to the dead-letter stream, acked out of the group.
func TestConsumer_DeadLettersAfterMaxAttempts(t *testing.T) {
	rdb := setupRedis(t)
	stream := testStream(t, rdb)

	var attempts int64
	handler := func(ctx context.Context, payload []byte) error {
		atomic.AddInt64(&attempts, 1)
		return errors.New("storage unavailable")
	}

	consumer := NewConsumer(rdb, stream, handler, fastOptions(2), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = consumer.Run(ctx)
	}()

	q := NewRedisQueue(rdb)
	require.NoError(t, q.Enqueue(ctx, stream, map[string]string{"file_name": "a.jpg"}))

	require.Eventually(t, func() bool {
		n, err := rdb.XLen(context.Background(), stream+DeadLetterSuffix).Result()
		return err == nil && n == 1
	}, 10*time.Second, 50*time.Millisecond, "entry never reached the dead-letter stream")

	// Dead-lettered entries leave the pending list; the group is clean.
	pending, err := rdb.XPending(context.Background(), stream, "workers").Result()
	require.NoError(t, err)
	require.Zero(t, pending.Count)

	// The payload rides along for manual inspection.
	msgs, err := rdb.XRange(context.Background(), stream+DeadLetterSuffix, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Contains(t, msgs[0].Values, "payload")
	require.Contains(t, msgs[0].Values, "meta")

	require.GreaterOrEqual(t, atomic.LoadInt64(&attempts), int64(1))

	cancel()
	<-done
}

// A transient failure is retried until the handler commits; the entry is then
// acknowledged exactly once and never dead-lettered.
func TestConsumer_RedeliversUntilHandlerCommits(t *testing.T) {
	rdb := setupRedis(t)
	stream := testStream(t, rdb)

	var attempts, successes int64
	handler := func(ctx context.Context, payload []byte) error {
		if atomic.AddInt64(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		atomic.AddInt64(&successes, 1)
		return nil
	}

	consumer := NewConsumer(rdb, stream, handler, fastOptions(10), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = consumer.Run(ctx)
	}()

	q := NewRedisQueue(rdb)
	require.NoError(t, q.Enqueue(ctx, stream, map[string]string{"device_token": "tok"}))

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&successes) == 1
	}, 10*time.Second, 50*time.Millisecond, "handler never committed")

	require.Eventually(t, func() bool {
		pending, err := rdb.XPending(context.Background(), stream, "workers").Result()
		return err == nil && pending.Count == 0
	}, 5*time.Second, 50*time.Millisecond, "committed entry was not acknowledged")

	require.Equal(t, int64(3), atomic.LoadInt64(&attempts))

	dead, err := rdb.XLen(context.Background(), stream+DeadLetterSuffix).Result()
	require.NoError(t, err)
	require.Zero(t, dead)

	cancel()
	<-done
}

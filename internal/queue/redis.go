package queue

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"lapor-warga/internal/metrics"
)

// payloadField is the single stream-entry field holding the JSON job body.
const payloadField = "payload"

// maxStreamLen bounds stream growth; trimming is approximate (XADD MAXLEN ~).
const maxStreamLen = 100_000

type RedisQueue struct {
	rdb *redis.Client
}

func NewRedisQueue(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{rdb: rdb}
}

func (q *RedisQueue) Enqueue(ctx context.Context, stream string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	err = q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]interface{}{payloadField: body},
	}).Err()
	if err != nil {
		return err
	}

	metrics.JobsEnqueued.WithLabelValues(stream).Inc()
	return nil
}

package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

const (
	redisQueueKey   = "storefront:queue:jobs"
	redisDelayedKey = "storefront:queue:delayed"
)

// RedisDriver keeps ready jobs in a list (LPUSH/BRPOP) and delayed jobs in
// a sorted set scored by their release time in Unix milliseconds.
type RedisDriver struct {
	rdb  *redis.Client
	stop context.CancelFunc
	done chan struct{}
}

// NewRedisDriver creates the driver and starts the goroutine that promotes
// due delayed jobs. Call Close to stop it.
func NewRedisDriver(rdb *redis.Client) *RedisDriver {
	ctx, cancel := context.WithCancel(context.Background())
	d := &RedisDriver{rdb: rdb, stop: cancel, done: make(chan struct{})}
	go d.promoteLoop(ctx)
	return d
}

func (d *RedisDriver) Push(payload []byte) error {
	if err := d.rdb.LPush(context.Background(), redisQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

// Pop waits up to five seconds for a job.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	result, err := d.rdb.BRPop(ctx, 5*time.Second, redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	}
	if len(result) < 2 {
		return nil, nil
	}
	return []byte(result[1]), nil
}

func (d *RedisDriver) PushDelayed(payload []byte, delay time.Duration) error {
	runAt := float64(time.Now().Add(delay).UnixMilli())
	if err := d.rdb.ZAdd(context.Background(), redisDelayedKey, redis.Z{
		Score:  runAt,
		Member: string(payload),
	}).Err(); err != nil {
		return fmt.Errorf("queue/redis: push delayed: %w", err)
	}
	return nil
}

// Close stops the promotion loop.
func (d *RedisDriver) Close() error {
	d.stop()
	<-d.done
	return nil
}

func (d *RedisDriver) promoteLoop(ctx context.Context) {
	defer close(d.done)

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.promote(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("queue/redis: promote delayed jobs", "error", err)
			}
		}
	}
}

// promote moves due jobs to the ready list. Only the caller whose ZREM
// succeeds pushes a job, so several app instances never run it twice.
func (d *RedisDriver) promote(ctx context.Context) error {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	due, err := d.rdb.ZRangeByScore(ctx, redisDelayedKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		return err
	}

	for _, job := range due {
		removed, err := d.rdb.ZRem(ctx, redisDelayedKey, job).Result()
		if err != nil {
			return err
		}
		if removed == 0 {
			continue
		}
		if err := d.rdb.LPush(ctx, redisQueueKey, job).Err(); err != nil {
			return err
		}
	}
	return nil
}

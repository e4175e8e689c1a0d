package runstates

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	activeTasksKeyPrefix = "run:active_tasks:"
	runSemaphoreKey      = "crawler:run_semaphore"

	DefaultRunStateTTL = 24 * time.Hour
)

type RedisRunStateManager struct {
	client *redis.Client
	logger *zap.SugaredLogger
	nodeID string
}

func NewRedisRunStateManager(client *redis.Client, logger *zap.SugaredLogger, nodeID string) *RedisRunStateManager {
	return &RedisRunStateManager{
		client: client,
		logger: logger,
		nodeID: nodeID,
	}
}

func (m *RedisRunStateManager) activeTasksKey(runID string) string {
	return activeTasksKeyPrefix + runID
}

func (m *RedisRunStateManager) IncrementActiveTasks(ctx context.Context, runID string) (int64, error) {
	key := m.activeTasksKey(runID)

	val, err := m.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment active tasks: %w", err)
	}

	if val == 1 {
		m.client.Expire(ctx, key, DefaultRunStateTTL)
	}

	return val, nil
}

func (m *RedisRunStateManager) DecrementActiveTasks(ctx context.Context, runID string) (int64, error) {
	val, err := m.client.Decr(ctx, m.activeTasksKey(runID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to decrement active tasks: %w", err)
	}
	return val, nil
}

// AcquireRunSlot grabs one slot of the cluster-wide run semaphore. Returns
// false without blocking when all slots are taken.
func (m *RedisRunStateManager) AcquireRunSlot(ctx context.Context, maxConcurrent int) (bool, error) {
	val, err := m.client.Incr(ctx, runSemaphoreKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run slot: %w", err)
	}

	if val > int64(maxConcurrent) {
		if errDecr := m.client.Decr(ctx, runSemaphoreKey).Err(); errDecr != nil {
			m.logger.Warnw("failed to roll back run slot", "err", errDecr)
		}
		return false, nil
	}

	return true, nil
}

func (m *RedisRunStateManager) ReleaseRunSlot(ctx context.Context) error {
	val, err := m.client.Decr(ctx, runSemaphoreKey).Result()
	if err != nil {
		return fmt.Errorf("failed to release run slot: %w", err)
	}

	if val < 0 {
		m.logger.Warnw("run semaphore went negative, resetting", "val", val)
		return m.client.Set(ctx, runSemaphoreKey, 0, 0).Err()
	}

	return nil
}

func (m *RedisRunStateManager) CleanupRun(ctx context.Context, runID string) error {
	return m.client.Del(ctx, m.activeTasksKey(runID)).Err()
}

func (m *RedisRunStateManager) Stop(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- m.client.Close()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

package runstates

import "context"

// RunStateManager keeps run accounting in shared storage so several crawler
// nodes can work the same run. Increments and decrements are atomic.
type RunStateManager interface {
	IncrementActiveTasks(ctx context.Context, runID string) (int64, error)
	DecrementActiveTasks(ctx context.Context, runID string) (int64, error)
	AcquireRunSlot(ctx context.Context, maxConcurrent int) (bool, error)
	ReleaseRunSlot(ctx context.Context) error
	CleanupRun(ctx context.Context, runID string) error
	Stop(ctx context.Context) error
}

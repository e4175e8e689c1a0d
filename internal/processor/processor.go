package processor

import (
	"context"

	"browser-crawler/internal/domain/config"
)

// Processor feeds the crawler with runs and tasks and accepts the tasks the
// crawler discovers.
type Processor interface {
	SendTask(task *config.Task) error
	QueueRun(run *config.Run)
	StartTaskConsumer()
	StartRunConsumer()
	GetTasksChan() <-chan *config.Task
	GetRunsChan() <-chan *config.Run
	Stop(ctx context.Context) error
}

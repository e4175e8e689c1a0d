package processor

import (
	"context"
	"encoding/json"
	"time"

	"browser-crawler/internal/domain/config"
	"browser-crawler/internal/processor/queue"
	"browser-crawler/internal/webcrawler/runstates"

	"go.uber.org/zap"
)

// QueueProcessor bridges the kafka-backed queues and the typed channels the
// crawler consumes.
type QueueProcessor struct {
	logger     *zap.SugaredLogger
	tasksQueue queue.Queue
	runsQueue  queue.Queue
	runState   runstates.RunStateManager

	tasksChan chan *config.Task
	runsChan  chan *config.Run
}

func NewQueueProcessor(logger *zap.SugaredLogger, tasksQueue, runsQueue queue.Queue, runState runstates.RunStateManager) *QueueProcessor {
	return &QueueProcessor{
		logger:     logger,
		tasksQueue: tasksQueue,
		runsQueue:  runsQueue,
		runState:   runState,
		tasksChan:  make(chan *config.Task, queue.ChannelBufferLimit),
		runsChan:   make(chan *config.Run, queue.ChannelBufferLimit),
	}
}

// SendTask enqueues a task, bumping the run's shared active-task counter so
// run completion can be detected across nodes.
func (p *QueueProcessor) SendTask(task *config.Task) error {
	if err := p.updateRunInfo(task); err != nil {
		return err
	}

	bytes, err := json.Marshal(task)
	if err != nil {
		p.logger.Warnw("Failed to marshal task to json", "task", task, "err", err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, errIncr := p.runState.IncrementActiveTasks(ctx, task.Run.ID); errIncr != nil {
		p.logger.Warnw("Failed to increment active tasks", "runID", task.Run.ID, "err", errIncr)
		return errIncr
	}

	p.tasksQueue.GetProducerChan() <- bytes
	return nil
}

func (p *QueueProcessor) updateRunInfo(task *config.Task) error {
	task.Run.Lock()
	defer task.Run.Unlock()

	if task.Run.CurrentLinks >= task.Run.MaxLinks || task.CurrentDepth >= task.Run.MaxDepth {
		return ErrRunLimitExceeded
	}

	task.Run.ActiveTasks++
	task.Run.CurrentLinks++
	return nil
}

func (p *QueueProcessor) QueueRun(run *config.Run) {
	bytes, err := json.Marshal(run)
	if err != nil {
		p.logger.Warnw("Failed to marshal run to json", "run", run, "err", err)
		return
	}

	p.runsQueue.GetProducerChan() <- bytes
}

// StartTaskConsumer starts the queue loops and the translation from raw
// records into typed tasks. Blocks until the queue closes.
func (p *QueueProcessor) StartTaskConsumer() {
	go p.tasksQueue.StartQueueConsumer()
	go p.tasksQueue.StartQueueProducer()

	for taskBytes := range p.tasksQueue.GetConsumerChan() {
		task := new(config.Task)
		if err := json.Unmarshal(taskBytes, task); err != nil {
			p.logger.Warnw("Failed to unmarshal task from kafka", "record", string(taskBytes), "err", err)
			continue
		}

		p.tasksChan <- task
	}

	close(p.tasksChan)
}

func (p *QueueProcessor) StartRunConsumer() {
	go p.runsQueue.StartQueueConsumer()
	go p.runsQueue.StartQueueProducer()

	for runBytes := range p.runsQueue.GetConsumerChan() {
		run := new(config.Run)
		if err := json.Unmarshal(runBytes, run); err != nil {
			p.logger.Warnw("Failed to unmarshal run from kafka", "record", string(runBytes), "err", err)
			continue
		}

		p.runsChan <- run
	}

	close(p.runsChan)
}

func (p *QueueProcessor) GetTasksChan() <-chan *config.Task {
	return p.tasksChan
}

func (p *QueueProcessor) GetRunsChan() <-chan *config.Run {
	return p.runsChan
}

func (p *QueueProcessor) Stop(ctx context.Context) error {
	if err := p.tasksQueue.CloseQueue(ctx); err != nil {
		return err
	}
	return p.runsQueue.CloseQueue(ctx)
}

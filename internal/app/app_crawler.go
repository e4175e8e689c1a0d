package app

import (
	"context"
	"time"

	"browser-crawler/internal/domain/config"
	"browser-crawler/internal/middleware"
	"browser-crawler/internal/pages"
	"browser-crawler/internal/processor"
	"browser-crawler/internal/utils"
	"browser-crawler/internal/webcrawler"
	"browser-crawler/internal/webcrawler/runstates"

	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type CrawlerApp struct {
	logger          *zap.SugaredLogger
	crawler         webcrawler.Crawler
	processorQueue  processor.Processor
	pageRepo        pages.PageRepo
	runStateManager runstates.RunStateManager
	browserMW       *middleware.BrowserMiddleware
	tracerProvider  *trace.TracerProvider

	maxConcurrentRuns int
}

func NewCrawlerApp(
	logger *zap.SugaredLogger,
	crawler webcrawler.Crawler,
	pageRepo pages.PageRepo,
	processorQueue processor.Processor,
	runStateManager runstates.RunStateManager,
	browserMW *middleware.BrowserMiddleware,
	tracerProvider *trace.TracerProvider,
) *CrawlerApp {
	return &CrawlerApp{
		logger:            logger,
		crawler:           crawler,
		processorQueue:    processorQueue,
		pageRepo:          pageRepo,
		runStateManager:   runStateManager,
		browserMW:         browserMW,
		tracerProvider:    tracerProvider,
		maxConcurrentRuns: DefaultConcurrentRunsWorkers,
	}
}

func (app *CrawlerApp) StartApp(ctx context.Context) error {
	if err := app.pageRepo.EnsureConnectivity(); err != nil {
		app.logger.Errorf("Error ensuring page repo connectivity: %v", err)
		return err
	}

	crawlerCBChan := make(chan struct{}, 1)
	taskProducerChan := make(chan []*config.Task, 100)

	crawlerCfg := webcrawler.CrawlerConfig{
		TaskConsumerChan:  app.processorQueue.GetTasksChan(),
		SaverChan:         app.pageRepo.GetSaverChan(),
		TaskProducerChan:  taskProducerChan,
		CrawlCallbackChan: crawlerCBChan,
		WorkersNumber:     DefaultConcurrentTasksWorkers,
	}

	go app.processorQueue.StartRunConsumer()
	go app.processorQueue.StartTaskConsumer()
	go app.startTaskProducer(taskProducerChan)
	go app.startCrawlerCallbackListener(crawlerCBChan)

	app.pageRepo.StartSaverWorkers(DefaultConcurrentTasksWorkers)
	app.crawler.StartCrawler(&crawlerCfg)

	go app.startRunListener(ctx)

	return nil
}

func (app *CrawlerApp) startRunListener(ctx context.Context) {
	runsChan := app.processorQueue.GetRunsChan()

	for run := range runsChan {
		if !app.acquireRunSlot(ctx, run) {
			continue
		}

		firstTask := &config.Task{
			URL:          utils.CorrectURLScheme(run.StartURL),
			Run:          run,
			CurrentDepth: 0,
		}

		if err := app.processorQueue.SendTask(firstTask); err != nil {
			app.logger.Errorf("Error sending first task: %v", err)
			app.releaseRunSlot()
		}
	}
}

func (app *CrawlerApp) acquireRunSlot(ctx context.Context, run *config.Run) bool {
	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for {
		acquired, err := app.runStateManager.AcquireRunSlot(waitCtx, app.maxConcurrentRuns)
		if err != nil {
			app.logger.Errorw("Error acquiring run slot", "error", err)
			return false
		}

		if acquired {
			return true
		}

		select {
		case <-waitCtx.Done():
			app.logger.Warnw("Timeout waiting for run slot, requeueing", "runID", run.ID)
			app.processorQueue.QueueRun(run)
			return false
		case <-time.After(1 * time.Second):
		}
	}
}

func (app *CrawlerApp) releaseRunSlot() {
	releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.runStateManager.ReleaseRunSlot(releaseCtx); err != nil {
		app.logger.Errorw("Failed to release run slot", "error", err)
	}
}

func (app *CrawlerApp) startCrawlerCallbackListener(sigChan <-chan struct{}) {
	for range sigChan {
		app.logger.Infof("Received crawler callback signal, run ended")
		app.releaseRunSlot()
	}
}

func (app *CrawlerApp) startTaskProducer(tpChan <-chan []*config.Task) {
	for tasks := range tpChan {
		for _, task := range tasks {
			if err := app.processorQueue.SendTask(task); err != nil {
				app.logger.Debugw("Task not queued", "url", task.URL, "err", err)
			}
		}
	}
}

// StopApp tears resources down in dependency order. The browser driver is
// quit exactly once here.
func (app *CrawlerApp) StopApp(ctx context.Context) error {
	if app.browserMW != nil {
		if err := app.browserMW.SpiderClosed(ctx); err != nil {
			app.logger.Errorw("Failed to close browser driver", "error", err)
		}
	}

	if err := app.processorQueue.Stop(ctx); err != nil {
		app.logger.Errorw("Failed to stop processor queues", "error", err)
	}

	if err := app.runStateManager.Stop(ctx); err != nil {
		app.logger.Errorw("Failed to stop run state manager", "error", err)
	}

	if app.tracerProvider != nil {
		if err := app.tracerProvider.Shutdown(ctx); err != nil {
			app.logger.Errorw("Failed to shut down tracer provider", "error", err)
		}
	}

	return nil
}

package webcrawler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"browser-crawler/internal/browser"
	"browser-crawler/internal/domain/config"
	"browser-crawler/internal/domain/data"
	"browser-crawler/internal/middleware"
	"browser-crawler/internal/networker"
	"browser-crawler/internal/pageparser"
	"browser-crawler/internal/request"
	"browser-crawler/internal/webcrawler/cache"
	"browser-crawler/internal/webcrawler/runstates"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const screenshotDir = "output/screenshots"

type CrawlerRepo struct {
	Logger      *zap.SugaredLogger
	Parser      pageparser.PageParser
	Fetcher     networker.Fetcher
	Middlewares middleware.Chain
	CachePages  cache.CachedStorage
	RunState    runstates.RunStateManager
}

func NewCrawlerRepo(
	logger *zap.SugaredLogger,
	parser pageparser.PageParser,
	fetcher networker.Fetcher,
	middlewares middleware.Chain,
	cachePages cache.CachedStorage,
	runState runstates.RunStateManager,
) *CrawlerRepo {
	return &CrawlerRepo{
		Logger:      logger,
		Parser:      parser,
		Fetcher:     fetcher,
		Middlewares: middlewares,
		CachePages:  cachePages,
		RunState:    runState,
	}
}

func (repo *CrawlerRepo) StartCrawler(cfg *CrawlerConfig) {
	for range cfg.WorkersNumber {
		go repo.crawlWorker(cfg)
	}
}

func (repo *CrawlerRepo) crawlWorker(cfg *CrawlerConfig) {
	repo.Logger.Infof("Started crawlWorker")

	for task := range cfg.TaskConsumerChan {
		newTasks, err := repo.processTask(task, cfg)
		if err != nil {
			repo.Logger.Warnw("Error processing task", "url", task.URL, "err", err)
			continue
		}

		if len(newTasks) > 0 {
			cfg.TaskProducerChan <- newTasks
		}
	}
}

func (repo *CrawlerRepo) processTask(task *config.Task, cfg *CrawlerConfig) ([]*config.Task, error) {
	ctx, span := otel.Tracer("webcrawler").Start(context.Background(), "process_task",
		trace.WithAttributes(attribute.String("url", task.URL), attribute.Int("depth", task.CurrentDepth)))
	defer span.End()

	defer repo.onTaskDone(ctx, task.Run, cfg.CrawlCallbackChan)

	if task.Run.UseCacheFlag {
		cachedLinks, errCached := repo.getCachedLinks(task)
		if errCached == nil {
			return repo.createNewTasksFromLinks(task, cachedLinks), nil
		}
	}

	pd, err := repo.scrape(ctx, task)
	if err != nil {
		return nil, err
	}

	select {
	case cfg.SaverChan <- pd:
		repo.Logger.Debugw("Sent pageData to saver", "url", pd.URL)
	case <-time.After(3 * time.Second):
		repo.Logger.Warnw("Saver channel full, dropping page data", "url", task.URL)
	}

	if errCache := repo.CachePages.Set(task.URL, pd, cache.BaseTTL); errCache != nil {
		repo.Logger.Warnw("Failed to cache page", "url", task.URL, "err", errCache)
	}

	return repo.createNewTasksFromLinks(task, pd.Links), nil
}

// scrape runs the request through the middleware chain. A middleware may
// reject it (robots) or serve it from the browser; when nothing handles it,
// the native HTTP downloader takes over.
func (repo *CrawlerRepo) scrape(ctx context.Context, task *config.Task) (*data.PageData, error) {
	repo.Logger.Infow("scraping link", "url", task.URL)

	req := repo.buildRequest(task)

	resp, err := repo.Middlewares.ProcessRequest(req)
	if err != nil {
		return nil, err
	}

	status := http.StatusOK
	contentType := "text/html; charset=utf-8"
	rendered := resp != nil

	if resp == nil {
		fetchRes, errFetch := repo.Fetcher.Fetch(ctx, task.URL)
		if errFetch != nil {
			repo.Logger.Warnw("Failed to fetch link", "url", task.URL, "err", errFetch)
			return nil, ErrFetching
		}

		resp = request.NewHTMLResponse(task.URL, fetchRes.Body, req)
		status = fetchRes.Status
		contentType = fetchRes.ContentType
	}

	repo.persistScreenshot(req)

	links, errExtract := repo.extractLinks(task, resp, contentType)
	if errExtract != nil {
		repo.Logger.Warnw("Failed to extract links", "url", task.URL, "err", errExtract)
		links = []string{}
	}

	return &data.PageData{
		URL:           resp.URL,
		Status:        status,
		Links:         links,
		LastRunID:     task.Run.ID,
		LastUpdatedAt: time.Now(),
		FoundAt:       time.Now(),
		ContentType:   contentType,
		Rendered:      rendered,
	}, nil
}

// buildRequest picks the request variant: runs with render flags go through
// the browser middleware, everything else stays on the plain downloader.
func (repo *CrawlerRepo) buildRequest(task *config.Task) request.Request {
	flags := task.Run.RenderFlags
	if flags == nil || !flags.RenderHTML {
		return request.NewHTTP(task.URL)
	}

	req := request.NewBrowser(task.URL)

	if flags.WaitSelector != "" {
		req.WithWaitUntil(browser.ElementPresent(flags.WaitSelector))
	}
	if flags.Screenshot {
		req.WithScreenshot()
	}
	if flags.Script != "" {
		req.WithScript(flags.Script)
	}

	return req
}

func (repo *CrawlerRepo) persistScreenshot(req request.Request) {
	shot, ok := req.Meta()[request.MetaScreenshot].([]byte)
	if !ok || len(shot) == 0 {
		return
	}

	if err := os.MkdirAll(screenshotDir, 0o755); err != nil {
		repo.Logger.Warnw("failed to create screenshot dir", "err", err)
		return
	}

	outPath := filepath.Join(screenshotDir, fmt.Sprintf("%s.png", url.QueryEscape(req.URL())))
	if err := os.WriteFile(outPath, shot, 0o644); err != nil {
		repo.Logger.Warnw("failed to save screenshot", "path", outPath, "err", err)
		return
	}

	repo.Logger.Infof("screenshot saved: %s", outPath)
}

func (repo *CrawlerRepo) extractLinks(task *config.Task, resp *request.HTMLResponse, contentType string) ([]string, error) {
	switch {
	case strings.HasSuffix(strings.TrimSuffix(task.URL, "/"), ".js"):
		baseURL, err := baseOf(task.URL)
		if err != nil {
			return nil, err
		}
		return repo.Parser.ExtractLinksFromJS(baseURL, string(resp.Body))

	case strings.Contains(contentType, "json"):
		return repo.Parser.ExtractLinksFromJSON(resp.URL, resp.Body)

	default:
		return repo.Parser.ParseHTML(resp.Body, resp.URL), nil
	}
}

func baseOf(taskURL string) (string, error) {
	u, err := url.Parse(taskURL)
	if err != nil {
		return "", fmt.Errorf("failed to get base URL: %w", err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

func (repo *CrawlerRepo) onTaskDone(ctx context.Context, run *config.Run, callbackChan chan<- struct{}) {
	left, err := repo.RunState.DecrementActiveTasks(ctx, run.ID)
	if err != nil {
		repo.Logger.Warnw("Failed to decrement active tasks", "runID", run.ID, "err", err)
		return
	}

	if left > 0 {
		return
	}

	repo.Logger.Infow("Run finished", "runID", run.ID)

	if errCleanup := repo.RunState.CleanupRun(ctx, run.ID); errCleanup != nil {
		repo.Logger.Warnw("Failed to clean up run state", "runID", run.ID, "err", errCleanup)
	}

	select {
	case callbackChan <- struct{}{}:
	default:
		repo.Logger.Warnw("Crawl callback channel full", "runID", run.ID)
	}
}

func (repo *CrawlerRepo) getCachedLinks(task *config.Task) ([]string, error) {
	cachedPageRaw, errCache := repo.CachePages.Get(task.URL)
	if errCache != nil {
		return nil, errCache
	}

	var cachedPageData data.PageData
	if errUnmarshal := json.Unmarshal([]byte(cachedPageRaw), &cachedPageData); errUnmarshal != nil {
		return nil, errUnmarshal
	}

	repo.Logger.Infow("using cached page", "url", task.URL)
	return cachedPageData.Links, nil
}

func (repo *CrawlerRepo) createNewTasksFromLinks(prevTask *config.Task, links []string) []*config.Task {
	newTasks := make([]*config.Task, 0, len(links))

	for _, link := range links {
		newTasks = append(newTasks, &config.Task{
			URL:          link,
			CurrentDepth: prevTask.CurrentDepth + 1,
			Run:          prevTask.Run,
		})
	}

	return newTasks
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"browser-crawler/internal/networker"
	"browser-crawler/internal/request"
	"browser-crawler/internal/utils"
	"browser-crawler/internal/webcrawler/cache"

	"github.com/jimsmart/grobotstxt"
	"go.uber.org/zap"
)

// RobotsMiddleware rejects requests that robots.txt disallows. It never
// produces a response itself; allowed requests pass through to the rest of
// the chain.
type RobotsMiddleware struct {
	Logger  *zap.SugaredLogger
	Fetcher networker.Fetcher
	Cache   cache.CachedStorage
	Agent   string
}

func NewRobots(logger *zap.SugaredLogger, fetcher networker.Fetcher, robotsCache cache.CachedStorage, agent string) *RobotsMiddleware {
	return &RobotsMiddleware{
		Logger:  logger,
		Fetcher: fetcher,
		Cache:   robotsCache,
		Agent:   agent,
	}
}

func (m *RobotsMiddleware) ProcessRequest(req request.Request) (*request.HTMLResponse, error) {
	if !m.allowed(req.URL()) {
		return nil, ErrNotAllowedByRobots
	}
	return nil, nil
}

func (m *RobotsMiddleware) allowed(urlToCheck string) bool {
	baseURL, err := utils.GetBaseURL(urlToCheck)
	if err != nil {
		m.Logger.Warnw("failed to get base URL", "url", urlToCheck, "err", err)
		return false
	}

	robots, errCache := m.Cache.Get(baseURL)
	if errCache == nil {
		m.Logger.Debugw("robots cache hit", "url", urlToCheck)
		return grobotstxt.AgentAllowed(robots, m.Agent, urlToCheck)
	}

	if !errors.Is(errCache, cache.ErrCacheMiss) {
		m.Logger.Warnw("robots cache error", "err", errCache)
	}

	robotsURL := baseURL + "/robots.txt"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	responseData, errFetch := m.Fetcher.Fetch(ctx, robotsURL)
	if errFetch != nil {
		m.Logger.Errorw("failed to fetch robots", "url", robotsURL, "err", errFetch)
		return false
	}

	// No robots.txt means everything is allowed.
	if responseData.Status == http.StatusNotFound {
		return true
	}

	robots = string(responseData.Body)

	if errSave := m.Cache.Set(baseURL, robots, cache.BaseTTL); errSave != nil {
		m.Logger.Warnw("failed to cache robots", "url", baseURL, "err", errSave)
	}

	return grobotstxt.AgentAllowed(robots, m.Agent, urlToCheck)
}

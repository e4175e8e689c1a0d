package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"browser-crawler/internal/networker"
	"browser-crawler/internal/request"
	"browser-crawler/internal/webcrawler/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testRobots = "User-agent: *\nDisallow: /private\n"

type fakeFetcher struct {
	status  int
	body    string
	fetches int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (*networker.FetchResult, error) {
	f.fetches++
	return &networker.FetchResult{
		Body:        []byte(f.body),
		Status:      f.status,
		ContentType: "text/plain; charset=utf-8",
	}, nil
}

type fakeCache struct {
	entries map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}}
}

func (c *fakeCache) Set(key string, value any, _ time.Duration) error {
	c.entries[key] = value.(string)
	return nil
}

func (c *fakeCache) Get(key string) (string, error) {
	val, ok := c.entries[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return val, nil
}

func (c *fakeCache) Stop(context.Context) error { return nil }

func TestRobotsMiddlewareRejectsDisallowed(t *testing.T) {
	fetcher := &fakeFetcher{status: http.StatusOK, body: testRobots}
	mw := NewRobots(zap.NewNop().Sugar(), fetcher, newFakeCache(), "browser-crawler")

	resp, err := mw.ProcessRequest(request.NewHTTP("https://example.com/private/page"))

	require.ErrorIs(t, err, ErrNotAllowedByRobots)
	assert.Nil(t, resp)
}

func TestRobotsMiddlewarePassesThroughAllowed(t *testing.T) {
	fetcher := &fakeFetcher{status: http.StatusOK, body: testRobots}
	mw := NewRobots(zap.NewNop().Sugar(), fetcher, newFakeCache(), "browser-crawler")

	resp, err := mw.ProcessRequest(request.NewHTTP("https://example.com/public"))

	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestRobotsMiddlewareAllowsWhenNoRobotsFile(t *testing.T) {
	fetcher := &fakeFetcher{status: http.StatusNotFound}
	mw := NewRobots(zap.NewNop().Sugar(), fetcher, newFakeCache(), "browser-crawler")

	_, err := mw.ProcessRequest(request.NewHTTP("https://example.com/anything"))

	require.NoError(t, err)
}

func TestRobotsMiddlewareCachesPerHost(t *testing.T) {
	fetcher := &fakeFetcher{status: http.StatusOK, body: testRobots}
	robotsCache := newFakeCache()
	mw := NewRobots(zap.NewNop().Sugar(), fetcher, robotsCache, "browser-crawler")

	_, err := mw.ProcessRequest(request.NewHTTP("https://example.com/one"))
	require.NoError(t, err)
	_, err = mw.ProcessRequest(request.NewHTTP("https://example.com/two"))
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.fetches)
	assert.Contains(t, robotsCache.entries, "https://example.com")
}

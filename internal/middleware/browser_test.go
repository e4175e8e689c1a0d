package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"browser-crawler/internal/browser"
	"browser-crawler/internal/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockDriver struct {
	navigations     []string
	cookies         map[string]string
	evals           []string
	hasCalls        int
	screenshotCalls int
	quitCalls       int
	totalCalls      int

	html       string
	currentURL string
	screenshot []byte

	navigateErr error
	hasResult   bool
}

func newMockDriver() *mockDriver {
	return &mockDriver{
		cookies:    map[string]string{},
		html:       "<html><body>rendered</body></html>",
		currentURL: "https://example.com/final",
		screenshot: []byte("png-bytes"),
	}
}

func (d *mockDriver) Navigate(url string) error {
	d.totalCalls++
	d.navigations = append(d.navigations, url)
	return d.navigateErr
}

func (d *mockDriver) AddCookie(name, value string) error {
	d.totalCalls++
	d.cookies[name] = value
	return nil
}

func (d *mockDriver) Has(string) (bool, error) {
	d.totalCalls++
	d.hasCalls++
	return d.hasResult, nil
}

func (d *mockDriver) Eval(js string) (any, error) {
	d.totalCalls++
	d.evals = append(d.evals, js)
	return nil, nil
}

func (d *mockDriver) Screenshot() ([]byte, error) {
	d.totalCalls++
	d.screenshotCalls++
	return d.screenshot, nil
}

func (d *mockDriver) HTML() (string, error) {
	d.totalCalls++
	return d.html, nil
}

func (d *mockDriver) CurrentURL() (string, error) {
	d.totalCalls++
	return d.currentURL, nil
}

func (d *mockDriver) Quit(context.Context) error {
	d.quitCalls++
	return nil
}

func newTestMiddleware(drv browser.Driver) *BrowserMiddleware {
	return NewBrowserWithDriver(zap.NewNop().Sugar(), drv)
}

func TestProcessRequestPassesThroughPlainRequests(t *testing.T) {
	drv := newMockDriver()
	mw := newTestMiddleware(drv)

	resp, err := mw.ProcessRequest(request.NewHTTP("https://example.com"))

	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Zero(t, drv.totalCalls)
}

func TestProcessRequestRendersPage(t *testing.T) {
	drv := newMockDriver()
	mw := newTestMiddleware(drv)

	req := request.NewBrowser("https://example.com/start")
	req.WithCookie("session", "abc123")
	req.WithScreenshot()
	req.WithScript("window.scrollTo(0, document.body.scrollHeight);")

	resp, err := mw.ProcessRequest(req)

	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, []string{"https://example.com/start"}, drv.navigations)
	assert.Equal(t, "abc123", drv.cookies["session"])
	assert.Contains(t, drv.evals, "window.scrollTo(0, document.body.scrollHeight);")

	assert.Equal(t, "https://example.com/final", resp.URL)
	assert.Equal(t, []byte(drv.html), resp.Body)
	assert.Equal(t, "utf-8", resp.Encoding)
	assert.Same(t, request.Request(req), resp.Request)

	shot, ok := req.Meta()[request.MetaScreenshot].([]byte)
	require.True(t, ok)
	assert.NotEmpty(t, shot)

	assert.Same(t, browser.Driver(drv), req.Meta()[request.MetaDriver])
}

func TestProcessRequestWaitTimeout(t *testing.T) {
	drv := newMockDriver()
	drv.hasResult = false
	mw := newTestMiddleware(drv)

	req := request.NewBrowser("https://example.com").
		WithWaitTime(100 * time.Millisecond).
		WithWaitUntil(browser.ElementPresent("#never"))
	req.Screenshot = true

	resp, err := mw.ProcessRequest(req)

	require.ErrorIs(t, err, browser.ErrWaitTimeout)
	assert.Nil(t, resp)
	assert.Positive(t, drv.hasCalls)
	assert.Zero(t, drv.screenshotCalls)
}

func TestProcessRequestWaitConditionSatisfied(t *testing.T) {
	drv := newMockDriver()
	drv.hasResult = true
	mw := newTestMiddleware(drv)

	req := request.NewBrowser("https://example.com").
		WithWaitUntil(browser.ElementPresent("#content"))

	resp, err := mw.ProcessRequest(req)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 1, drv.hasCalls)
}

func TestProcessRequestNavigateErrorPropagates(t *testing.T) {
	drv := newMockDriver()
	drv.navigateErr = errors.New("net::ERR_CONNECTION_REFUSED")
	mw := newTestMiddleware(drv)

	resp, err := mw.ProcessRequest(request.NewBrowser("https://example.com"))

	require.ErrorIs(t, err, drv.navigateErr)
	assert.Nil(t, resp)
}

func TestSpiderClosedQuitsDriverOnce(t *testing.T) {
	drv := newMockDriver()
	mw := newTestMiddleware(drv)

	require.NoError(t, mw.SpiderClosed(context.Background()))
	require.NoError(t, mw.SpiderClosed(context.Background()))

	assert.Equal(t, 1, drv.quitCalls)
}

package middleware

import (
	"context"
	"sync"

	"browser-crawler/internal/browser"
	"browser-crawler/internal/request"

	"go.uber.org/zap"
)

// BrowserMiddleware serves request.Browser requests through one owned driver.
// The host framework calls ProcessRequest sequentially per instance; there is
// no internal locking.
type BrowserMiddleware struct {
	Logger *zap.SugaredLogger

	driver   browser.Driver
	quitOnce sync.Once
}

// NewBrowser validates settings and constructs the driver. The driver lives
// for the whole crawl run and is torn down by SpiderClosed.
func NewBrowser(logger *zap.SugaredLogger, settings *Settings) (*BrowserMiddleware, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	drv, err := browser.NewDriver(logger, settings.driverConfig())
	if err != nil {
		return nil, err
	}

	return NewBrowserWithDriver(logger, drv), nil
}

// NewBrowserWithDriver wires an already constructed driver.
func NewBrowserWithDriver(logger *zap.SugaredLogger, drv browser.Driver) *BrowserMiddleware {
	return &BrowserMiddleware{
		Logger: logger,
		driver: drv,
	}
}

func (m *BrowserMiddleware) ProcessRequest(req request.Request) (*request.HTMLResponse, error) {
	breq, ok := req.(*request.Browser)
	if !ok {
		return nil, nil
	}

	if err := m.driver.Navigate(breq.URL()); err != nil {
		return nil, err
	}

	for name, value := range breq.Cookies() {
		if err := m.driver.AddCookie(name, value); err != nil {
			return nil, err
		}
	}

	if breq.WaitUntil != nil {
		if err := browser.WaitUntil(m.driver, breq.WaitUntil, breq.WaitTime); err != nil {
			return nil, err
		}
	}

	if breq.Screenshot {
		shot, err := m.driver.Screenshot()
		if err != nil {
			return nil, err
		}
		breq.Meta()[request.MetaScreenshot] = shot
	}

	if breq.Script != "" {
		if _, err := m.driver.Eval(breq.Script); err != nil {
			return nil, err
		}
	}

	html, err := m.driver.HTML()
	if err != nil {
		return nil, err
	}

	currentURL, err := m.driver.CurrentURL()
	if err != nil {
		return nil, err
	}

	// Downstream consumers may keep interacting with the live session for
	// this page; they do not own it.
	breq.Meta()[request.MetaDriver] = m.driver

	return request.NewHTMLResponse(currentURL, []byte(html), breq), nil
}

// SpiderClosed quits the driver. Safe to call more than once; only the first
// call tears the browser down.
func (m *BrowserMiddleware) SpiderClosed(ctx context.Context) error {
	var err error
	m.quitOnce.Do(func() {
		m.Logger.Infow("closing browser driver")
		err = m.driver.Quit(ctx)
	})
	return err
}

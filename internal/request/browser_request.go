package request

import (
	"time"

	"browser-crawler/internal/browser"
)

// DefaultWaitTime bounds how long a wait condition may block.
const DefaultWaitTime = 10 * time.Second

// Browser asks for the page to be fetched through the browser middleware
// instead of the plain HTTP downloader. Only WaitTime, WaitUntil, Screenshot
// and Script are consulted once dispatched; mutating them afterwards has no
// defined effect.
type Browser struct {
	HTTP

	WaitTime   time.Duration
	WaitUntil  browser.Condition
	Screenshot bool
	Script     string
}

func NewBrowser(url string) *Browser {
	return &Browser{
		HTTP:     *NewHTTP(url),
		WaitTime: DefaultWaitTime,
	}
}

func (r *Browser) WithWaitTime(d time.Duration) *Browser {
	r.WaitTime = d
	return r
}

func (r *Browser) WithWaitUntil(cond browser.Condition) *Browser {
	r.WaitUntil = cond
	return r
}

func (r *Browser) WithScreenshot() *Browser {
	r.Screenshot = true
	return r
}

func (r *Browser) WithScript(script string) *Browser {
	r.Script = script
	return r
}

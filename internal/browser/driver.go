package browser

import (
	"context"
	"time"
)

// Driver is a single live browser session. It is created once per middleware
// instance and is not safe for concurrent use; callers are expected to drive
// it sequentially and to call Quit exactly once on crawl shutdown.
type Driver interface {
	Navigate(url string) error
	AddCookie(name, value string) error
	Has(selector string) (bool, error)
	Eval(js string) (any, error)
	Screenshot() ([]byte, error)
	HTML() (string, error)
	CurrentURL() (string, error)
	Quit(ctx context.Context) error
}

// Condition is a predicate evaluated against the live browser state.
type Condition func(d Driver) (bool, error)

const waitPollInterval = 100 * time.Millisecond

// WaitUntil polls cond until it holds or timeout elapses.
func WaitUntil(d Driver, cond Condition, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		ok, err := cond(d)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrWaitTimeout
		}
		time.Sleep(waitPollInterval)
	}
}

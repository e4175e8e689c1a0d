package middleware

import "browser-crawler/internal/request"

// Middleware gets a chance to produce the response for a request before the
// native HTTP downloader does. Returning (nil, nil) means "not handled": the
// request passes through untouched.
type Middleware interface {
	ProcessRequest(req request.Request) (*request.HTMLResponse, error)
}

// Chain runs middlewares in order and stops at the first one that handles
// the request or fails.
type Chain []Middleware

func (c Chain) ProcessRequest(req request.Request) (*request.HTMLResponse, error) {
	for _, mw := range c {
		resp, err := mw.ProcessRequest(req)
		if err != nil {
			return nil, err
		}
		if resp != nil {
			return resp, nil
		}
	}
	return nil, nil
}

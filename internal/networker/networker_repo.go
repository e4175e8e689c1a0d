package networker

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const fetchTimeout = 30 * time.Second

type HTTPFetcher struct {
	Logger *zap.SugaredLogger
	client *http.Client
}

func NewHTTPFetcher(logger *zap.SugaredLogger) *HTTPFetcher {
	return &HTTPFetcher{
		Logger: logger,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   fetchTimeout,
		},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	f.Logger.Infof("fetch url %s", url)

	resp, err := f.client.Do(req)
	if err != nil {
		f.Logger.Errorf("fetch url %s error: %v", url, err)
		return nil, err
	}
	defer resp.Body.Close()

	fetchResult := new(FetchResult)

	fetchResult.Body, err = io.ReadAll(resp.Body)
	if err != nil {
		f.Logger.Errorf("read body for %s error: %v", url, err)
		return nil, err
	}

	if len(fetchResult.Body) > 0 {
		fetchResult.ContentType = http.DetectContentType(fetchResult.Body)
	} else {
		fetchResult.ContentType = "application/octet-stream"
	}

	fetchResult.Status = resp.StatusCode

	return fetchResult, nil
}

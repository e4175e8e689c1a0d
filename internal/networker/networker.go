package networker

import "context"

type FetchResult struct {
	Body        []byte
	Status      int
	ContentType string
}

// Fetcher is the native HTTP downloader, used when no middleware claims a
// request and for framework-internal fetches like robots.txt.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

package pages

import "browser-crawler/internal/domain/data"

// PageRepo persists crawled pages and the link graph between them.
type PageRepo interface {
	SavePage(page *data.PageData) error
	EnsureConnectivity() error
	GetSaverChan() chan<- *data.PageData
	StartSaverWorkers(workers int)
}

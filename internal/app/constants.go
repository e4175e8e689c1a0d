package app

const (
	DefaultConcurrentTasksWorkers = 8
	DefaultConcurrentRunsWorkers  = 2

	// UserAgent identifies the crawler to robots.txt.
	UserAgent = "browser-crawler"
)

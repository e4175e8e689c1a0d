package config

import (
	"sync"

	"browser-crawler/internal/utils"
)

// Run is one crawl job: a start URL plus its limits and render directives.
type Run struct {
	ID string `json:"id"`

	UseCacheFlag bool `json:"use_cache"`
	MaxDepth     int  `json:"max_depth"`
	MaxLinks     int  `json:"max_links"`

	RenderFlags *RenderFlags `json:"render_flags,omitempty"`

	StartURL string `json:"start_url"`

	CurrentLinks int `json:"current_links"`
	ActiveTasks  int `json:"active_tasks"`

	sync.RWMutex `json:"-"`
}

func NewRun(URL string, maxDepth, maxLinks int, flags *RenderFlags) *Run {
	id, _ := utils.GenerateID()

	return &Run{
		ID:           id,
		UseCacheFlag: true,
		MaxDepth:     maxDepth,
		MaxLinks:     maxLinks,
		RenderFlags:  flags,
		StartURL:     URL,
	}
}

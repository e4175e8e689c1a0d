package config

type Task struct {
	URL          string `json:"url"`
	CurrentDepth int    `json:"current_depth"`

	Run *Run `json:"run"`
}

// RenderFlags ask the crawler to fetch pages through the browser middleware
// instead of the plain HTTP downloader.
type RenderFlags struct {
	RenderHTML   bool   `json:"render_html"`
	Screenshot   bool   `json:"screenshot"`
	WaitSelector string `json:"wait_selector,omitempty"`
	Script       string `json:"script,omitempty"`
}

package pageparser

import "regexp"

// PageParser extracts candidate links from the bodies the crawler fetches.
type PageParser interface {
	ParseHTML(body []byte, base string) []string
	ExtractLinksFromJS(baseURL, src string) ([]string, error)
	ExtractLinksFromJSON(baseURL string, data []byte) ([]string, error)
}

var urlRegex = regexp.MustCompile(`https?://[^\s"'<>]+`)

var attrsWithURLs = map[string]struct{}{
	"href":       {},
	"src":        {},
	"srcset":     {},
	"data-src":   {},
	"data-href":  {},
	"action":     {},
	"formaction": {},
	"poster":     {},
	"cite":       {},
	"background": {},
	"manifest":   {},
	"ping":       {},
	"data":       {},
}

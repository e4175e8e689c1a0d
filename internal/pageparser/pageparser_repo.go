package pageparser

import (
	"bytes"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

type LinkParser struct {
	Logger *zap.SugaredLogger
}

func NewLinkParser(logger *zap.SugaredLogger) *LinkParser {
	return &LinkParser{
		Logger: logger,
	}
}

// ParseHTML walks the DOM collecting URL-bearing attributes, then sweeps the
// raw body with a regex to catch URLs hiding in inline scripts and comments.
func (p *LinkParser) ParseHTML(body []byte, baseURL string) []string {
	seen := map[string]struct{}{}
	base := p.parseBase(baseURL)

	doc, err := html.Parse(bytes.NewReader(body))
	if err == nil {
		p.collectFromNode(doc, seen, base)
	}

	for _, raw := range urlRegex.FindAllString(string(body), -1) {
		p.resolveAndAdd(raw, seen, base)
	}

	links := make([]string, 0, len(seen))
	for u := range seen {
		links = append(links, u)
	}
	return links
}

func (p *LinkParser) collectFromNode(n *html.Node, seen map[string]struct{}, base *url.URL) {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			key := strings.ToLower(attr.Key)
			if _, ok := attrsWithURLs[key]; !ok {
				continue
			}

			if key == "srcset" {
				p.collectFromSrcset(attr.Val, seen, base)
				continue
			}

			if candidate := normalizeCandidate(attr.Val); candidate != "" {
				p.resolveAndAdd(candidate, seen, base)
			}
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		p.collectFromNode(child, seen, base)
	}
}

// srcset entries are "url descriptor" pairs separated by commas.
func (p *LinkParser) collectFromSrcset(val string, seen map[string]struct{}, base *url.URL) {
	for _, part := range strings.Split(val, ",") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) == 0 {
			continue
		}
		if candidate := normalizeCandidate(fields[0]); candidate != "" {
			p.resolveAndAdd(candidate, seen, base)
		}
	}
}

func (p *LinkParser) resolveAndAdd(raw string, seen map[string]struct{}, base *url.URL) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return
	}

	if !parsed.IsAbs() && base != nil {
		parsed = base.ResolveReference(parsed)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return
	}

	if parsed.Path == "" {
		parsed.Path = "/"
	}

	seen[parsed.String()] = struct{}{}
}

func (p *LinkParser) parseBase(baseURL string) *url.URL {
	if baseURL == "" {
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		p.Logger.Warnw("invalid base URL, skipping resolution", "base", baseURL, "err", err)
		return nil
	}
	return base
}

func normalizeCandidate(raw string) string {
	raw = strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), `"'`))
	if raw == "" {
		return ""
	}

	if i := strings.Index(raw, "#"); i >= 0 {
		raw = raw[:i]
	}

	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	if !hasLinkPrefix(raw) {
		return ""
	}
	return raw
}

func hasLinkPrefix(raw string) bool {
	lower := strings.ToLower(raw)
	for _, prefix := range []string{"http://", "https://", "/", "./", "../"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

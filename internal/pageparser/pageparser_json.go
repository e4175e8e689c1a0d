package pageparser

import (
	"encoding/json"
)

// ExtractLinksFromJSON walks the decoded document and treats every string
// value as a link candidate.
func (p *LinkParser) ExtractLinksFromJSON(baseURL string, data []byte) ([]string, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		p.Logger.Errorw("json parse error", "err", err)
		return nil, err
	}

	base := p.parseBase(baseURL)
	seen := map[string]struct{}{}

	walkJSON(root, func(s string) {
		p.addStringCandidates(s, seen, base)
	})

	links := make([]string, 0, len(seen))
	for u := range seen {
		links = append(links, u)
	}
	return links, nil
}

func walkJSON(v any, onString func(string)) {
	switch x := v.(type) {
	case map[string]any:
		for _, vv := range x {
			walkJSON(vv, onString)
		}
	case []any:
		for _, vv := range x {
			walkJSON(vv, onString)
		}
	case string:
		onString(x)
	}
}

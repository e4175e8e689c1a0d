package pageparser

import (
	"net/url"
	"reflect"
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
)

// ExtractLinksFromJS parses the script and mines its string and template
// literals for absolute URLs and path-looking fragments.
func (p *LinkParser) ExtractLinksFromJS(baseURL, src string) ([]string, error) {
	program, err := parser.ParseFile(nil, "", src, 0)
	if err != nil {
		p.Logger.Errorw("js parse error", "err", err)
		return nil, err
	}

	base := p.parseBase(baseURL)
	seen := map[string]struct{}{}

	p.walkLiterals(reflect.ValueOf(program), func(s string) {
		p.addStringCandidates(s, seen, base)
	})

	links := make([]string, 0, len(seen))
	for u := range seen {
		links = append(links, u)
	}
	return links, nil
}

// walkLiterals traverses the AST by reflection; goja does not export a
// visitor over its node types.
func (p *LinkParser) walkLiterals(v reflect.Value, onString func(string)) {
	if !v.IsValid() {
		return
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return
		}

		if v.CanInterface() {
			switch lit := v.Interface().(type) {
			case *ast.StringLiteral:
				onString(lit.Value.String())
				return
			case *ast.TemplateLiteral:
				for _, element := range lit.Elements {
					onString(element.Parsed.String())
				}
			}
		}

		p.walkLiterals(v.Elem(), onString)

	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			p.walkLiterals(v.Field(i), onString)
		}

	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			p.walkLiterals(v.Index(i), onString)
		}

	case reflect.Map:
		for _, key := range v.MapKeys() {
			p.walkLiterals(v.MapIndex(key), onString)
		}
	}
}

func (p *LinkParser) addStringCandidates(s string, seen map[string]struct{}, base *url.URL) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}

	if matches := urlRegex.FindAllString(s, -1); len(matches) > 0 {
		for _, m := range matches {
			p.resolveAndAdd(m, seen, base)
		}
		return
	}

	if looksLikeRelativePath(s) {
		p.resolveAndAdd(s, seen, base)
	}
}

func looksLikeRelativePath(s string) bool {
	if strings.ContainsAny(s, " \t\n") {
		return false
	}

	for _, prefix := range []string{"/", "./", "../"} {
		if strings.HasPrefix(s, prefix) && len(s) > len(prefix) {
			return true
		}
	}
	return false
}

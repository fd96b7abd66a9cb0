package catalog

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
)

// Lookup resolves a dot-separated path against doc. The boolean reports
// whether every segment was present; a present JSON null returns (nil, true).
func Lookup(doc Document, path string) (any, bool) {
	cur := doc
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Search returns every document in files where at least one of fields
// contains query, compared case-insensitively. Order follows files.
// Files that cannot be read or decoded never match.
func (c *Catalog) Search(query string, fields []string, files []string) []Document {
	m := newMatcher(query)

	results := []Document{}
	for _, f := range files {
		doc, err := c.load(f)
		if err != nil {
			c.log.Warn("search skipped document", "file", f, "error", err)
			continue
		}
		if m.matchAny(doc, fields) {
			results = append(results, doc)
		}
	}
	return results
}

type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(query string) *matcher {
	fold := cases.Fold()
	return &matcher{fold: fold, needle: fold.String(query)}
}

func (m *matcher) matchAny(doc Document, fields []string) bool {
	for _, field := range fields {
		v, ok := Lookup(doc, field)
		if !ok {
			continue
		}
		s, ok := searchText(v)
		if !ok {
			continue
		}
		if strings.Contains(m.fold.String(s), m.needle) {
			return true
		}
	}
	return false
}

// searchText returns the string a resolved value is matched against.
// Null, objects and arrays have no searchable form.
func searchText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

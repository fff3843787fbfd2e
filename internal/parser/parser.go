// Package parser splits YAML front matter from markdown and derives the
// document title and heading outline.
package parser

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/mdview/pkg/models"
)

const delim = "---"

// ErrFrontmatter reports a front-matter block that could not be decoded
// into a mapping. It never fails a parse; see Result.Err.
var ErrFrontmatter = errors.New("parser: invalid front matter")

// Result holds the output of parsing a markdown file.
type Result struct {
	Frontmatter map[string]any
	Body        string
	Title       string
	Headings    []models.Heading
	// Err wraps ErrFrontmatter when a delimited block was found but
	// rejected. Body is then the untouched input.
	Err error
}

// Parse splits front matter from data and builds the heading outline of
// the remaining body.
func Parse(data []byte) *Result {
	fm, body, err := Split(string(data))
	headings := Outline([]byte(body))
	return &Result{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, headings),
		Headings:    headings,
		Err:         err,
	}
}

// Split separates a leading "---" delimited YAML block from the body.
//
// Without a leading delimiter, or without a second one, the input is
// returned unchanged with nil metadata. When the block does not decode to
// a mapping the input is also returned unchanged, together with an error
// wrapping ErrFrontmatter.
func Split(raw string) (map[string]any, string, error) {
	if !strings.HasPrefix(raw, delim) {
		return nil, raw, nil
	}
	end := strings.Index(raw[len(delim):], delim)
	if end < 0 {
		return nil, raw, nil
	}
	end += len(delim)

	block := strings.TrimSpace(raw[len(delim):end])
	body := strings.TrimSpace(raw[end+len(delim):])

	fm := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return nil, raw, fmt.Errorf("%w: %v", ErrFrontmatter, err)
	}
	if fm == nil {
		// "~" or "null" decodes to a nil map.
		fm = map[string]any{}
	}
	return normalizeMap(fm), body, nil
}

// normalizeMap rewrites values yaml can produce but JSON cannot encode:
// nested map[any]any (non-string keys) become map[string]any and
// .inf/.nan become nil.
func normalizeMap(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeMap(val)
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = normalizeValue(item)
		}
		return val
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return nil
		}
		return val
	default:
		return v
	}
}

// deriveTitle returns the frontmatter "title" if present, otherwise the
// first level-1 heading, otherwise empty string.
func deriveTitle(fm map[string]any, headings []models.Heading) string {
	if t, ok := fm["title"].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	for _, h := range headings {
		if h.Level == 1 {
			return h.Text
		}
	}
	return ""
}

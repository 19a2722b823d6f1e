package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/fjglira/mdscene/internal/domain"
	"github.com/fjglira/mdscene/internal/parser"
)

// Loader turns raw markdown bytes into a Document, stripping optional front matter first.
type Loader struct {
	parser parser.Parser
}

// New creates a Loader that parses bodies with p.
func New(p parser.Parser) *Loader {
	return &Loader{parser: p}
}

// Load splits off front matter, parses the body and merges the metadata.
// A front matter "title" is used only when the body has no top-level heading.
func (l *Loader) Load(file string, source []byte) (domain.Document, error) {
	meta, body, err := SplitFrontMatter(source)
	if err != nil {
		return domain.Document{}, domain.NewErrorWithSuggestion("load", file, 1,
			"invalid front matter", "front matter must be a YAML mapping between --- lines", err)
	}

	doc := l.parser.Parse(string(body))
	if len(meta) > 0 {
		doc.Metadata = meta
		if doc.Title == nil {
			if title, ok := meta["title"].(string); ok && strings.TrimSpace(title) != "" {
				title = strings.TrimSpace(title)
				doc.Title = &title
			}
		}
	}

	// diagnostics refer to body lines; shift them back to file lines
	if offset := lineOffset(source, body); offset > 0 {
		for i := range doc.Blocks {
			doc.Blocks[i].Line += offset
		}
		for i := range doc.Diagnostics {
			doc.Diagnostics[i].Line += offset
		}
	}

	return doc, nil
}

// SplitFrontMatter returns the front matter as a map and the remaining body.
// Sources without front matter come back unchanged with a nil map.
func SplitFrontMatter(source []byte) (map[string]any, []byte, error) {
	var meta map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	for k, v := range meta {
		meta[k] = normalize(v)
	}
	return meta, body, nil
}

// normalize converts the map[any]any values produced by the YAML decoder
// into map[string]any so metadata can be encoded as JSON.
func normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}

// lineOffset counts the lines removed in front of body.
func lineOffset(source, body []byte) int {
	if len(body) >= len(source) {
		return 0
	}
	removed := source[:len(source)-len(body)]
	if !bytes.HasSuffix(source, body) {
		return 0
	}
	return bytes.Count(removed, []byte("\n"))
}

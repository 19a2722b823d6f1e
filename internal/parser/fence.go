package parser

import (
	"regexp"
	"strings"

	"github.com/fjglira/mdscene/internal/domain"
)

var (
	// fenceRe matches an opening line starting with ```, an optional language
	// and annotation text, then the body up to the first ``` that follows.
	fenceRe = regexp.MustCompile("(?m)^```(\\w*)([^\\n]*)\\n((?s:.*?))```")
	// titleRe matches a top-level "# text" heading line.
	titleRe = regexp.MustCompile(`(?m)^#[ \t]+(\S[^\n]*)$`)
)

// FenceParser extracts fenced blocks with regular expressions. It does not
// support nested fences or ~~~ fences; the first ``` after the opening line
// closes a block.
type FenceParser struct{}

// NewFenceParser creates a new FenceParser.
func NewFenceParser() *FenceParser {
	return &FenceParser{}
}

// Name returns the engine name.
func (p *FenceParser) Name() string {
	return EngineRegex
}

// Parse extracts the title and all annotated blocks from content.
func (p *FenceParser) Parse(content string) domain.Document {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	doc := domain.Document{Blocks: []domain.CodeBlock{}}

	matches := fenceRe.FindAllStringSubmatchIndex(content, -1)
	for _, m := range matches {
		lang := content[m[2]:m[3]]
		ann := content[m[4]:m[5]]
		body := content[m[6]:m[7]]

		block, diags := buildBlock(lang, ann, body, lineAt(content, m[0]))
		doc.Blocks = append(doc.Blocks, block)
		doc.Diagnostics = append(doc.Diagnostics, diags...)
	}

	for _, t := range titleRe.FindAllStringSubmatchIndex(content, -1) {
		if insideFence(t[0], matches) {
			continue
		}
		title := strings.TrimSpace(content[t[2]:t[3]])
		doc.Title = &title
		break
	}

	sortBlocks(doc.Blocks)
	return doc
}

// insideFence reports whether offset falls within any matched fence.
func insideFence(offset int, fences [][]int) bool {
	for _, f := range fences {
		if offset >= f[0] && offset < f[1] {
			return true
		}
	}
	return false
}

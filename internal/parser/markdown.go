package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/fjglira/mdscene/internal/domain"
)

// GoldmarkParser parses CommonMark documents using goldmark. Unlike
// FenceParser it understands ~~~ fences, fences longer than three backticks
// and fences nested in lists. The title is the first level-1 heading.
type GoldmarkParser struct {
	md goldmark.Markdown
}

// NewGoldmarkParser creates a new GoldmarkParser.
func NewGoldmarkParser() *GoldmarkParser {
	return &GoldmarkParser{md: goldmark.New()}
}

// Name returns the engine name.
func (p *GoldmarkParser) Name() string {
	return EngineCommonMark
}

// Parse walks the goldmark AST and extracts the title and annotated blocks.
func (p *GoldmarkParser) Parse(content string) domain.Document {
	source := []byte(strings.ReplaceAll(content, "\r\n", "\n"))
	root := p.md.Parser().Parse(text.NewReader(source))

	doc := domain.Document{Blocks: []domain.CodeBlock{}}

	// The walker never returns an error.
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && doc.Title == nil {
				title := strings.TrimSpace(extractText(node, source))
				if title != "" {
					doc.Title = &title
				}
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			var info string
			if node.Info != nil {
				info = string(node.Info.Segment.Value(source))
			}
			lang, ann := splitInfo(info)

			var buf bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(source))
			}

			block, diags := buildBlock(lang, ann, buf.String(), fenceLine(node, source))
			doc.Blocks = append(doc.Blocks, block)
			doc.Diagnostics = append(doc.Diagnostics, diags...)
		}

		return ast.WalkContinue, nil
	})

	sortBlocks(doc.Blocks)
	return doc
}

// fenceLine returns the 1-based line of the opening fence, or 0 if unknown.
func fenceLine(node *ast.FencedCodeBlock, source []byte) int {
	if node.Info != nil {
		return lineNumber(source, node.Info.Segment.Start)
	}
	if node.Lines().Len() > 0 {
		// content starts on the line after the fence
		return lineNumber(source, node.Lines().At(0).Start) - 1
	}
	return 0
}

// extractText gets the plain text content of an inline container.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(extractText(child, source))
		}
	}
	return buf.String()
}

// lineNumber calculates the 1-based line number for a byte offset.
func lineNumber(content []byte, offset int) int {
	return bytes.Count(content[:offset], []byte("\n")) + 1
}

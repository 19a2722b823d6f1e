package parser

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/fjglira/mdscene/internal/annotation"
	"github.com/fjglira/mdscene/internal/domain"
)

// infoRe splits a fence info string into a leading word-character language
// tag and the annotation text that follows it.
var infoRe = regexp.MustCompile(`(?s)^(\w*)(.*)$`)

// splitInfo returns the language tag (empty if none) and the annotation text.
func splitInfo(info string) (string, string) {
	m := infoRe.FindStringSubmatch(info)
	if m == nil {
		return "", info
	}
	return m[1], m[2]
}

// buildBlock resolves annotation defaults and assembles a CodeBlock.
func buildBlock(lang, annotations, body string, line int) (domain.CodeBlock, []domain.Diagnostic) {
	ann, issues := annotation.Parse(annotations)

	block := domain.CodeBlock{
		Code:        strings.TrimSpace(body),
		Step:        domain.DefaultStep,
		Wait:        domain.DefaultWait,
		FontSize:    domain.DefaultFontSize,
		UseWrite:    ann.Write,
		Highlights:  []string{},
		Transforms:  map[string]string{},
		Isolate:     []string{},
		Line:        line,
		Annotations: ann,
	}
	if lang != "" {
		block.Language = &lang
	}
	if ann.Step != nil {
		block.Step = *ann.Step
	}
	if ann.Wait != nil {
		block.Wait = *ann.Wait
	}
	if ann.FontSize != nil {
		block.FontSize = *ann.FontSize
	}
	if ann.Highlights != nil {
		block.Highlights = append(block.Highlights, ann.Highlights...)
	}
	if ann.Isolate != nil {
		block.Isolate = append(block.Isolate, ann.Isolate...)
	}
	for k, v := range ann.Transforms {
		block.Transforms[k] = v
	}
	block.UseTransform = ann.Transform

	var diags []domain.Diagnostic
	for _, is := range issues {
		diags = append(diags, domain.Diagnostic{Line: line, Tag: is.Tag, Message: is.Message})
	}
	return block, diags
}

// sortBlocks orders blocks by step, keeping document order for equal steps.
func sortBlocks(blocks []domain.CodeBlock) {
	slices.SortStableFunc(blocks, func(a, b domain.CodeBlock) int {
		return cmp.Compare(a.Step, b.Step)
	})
}

// lineAt returns the 1-based line number of a byte offset.
func lineAt(content string, offset int) int {
	return strings.Count(content[:offset], "\n") + 1
}

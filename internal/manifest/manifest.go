package manifest

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/fjglira/mdscene/internal/domain"
)

// Builder turns a parsed Document into a render manifest.
type Builder interface {
	Build(source string, doc domain.Document) domain.Manifest
}

// ChromaBuilder resolves languages and target spans with chroma lexers.
type ChromaBuilder struct{}

// NewBuilder creates a new ChromaBuilder.
func NewBuilder() *ChromaBuilder {
	return &ChromaBuilder{}
}

// Build resolves a lexer for every block and locates its highlight and
// isolate targets. Targets that cannot be found are reported as diagnostics.
func (b *ChromaBuilder) Build(source string, doc domain.Document) domain.Manifest {
	m := domain.Manifest{
		Source:      source,
		Title:       doc.Title,
		Blocks:      make([]domain.ManifestBlock, 0, len(doc.Blocks)),
		Diagnostics: append([]domain.Diagnostic(nil), doc.Diagnostics...),
	}

	for _, block := range doc.Blocks {
		mb, diags := b.buildBlock(block)
		m.Blocks = append(m.Blocks, mb)
		m.Diagnostics = append(m.Diagnostics, diags...)
	}

	return m
}

func (b *ChromaBuilder) buildBlock(block domain.CodeBlock) (domain.ManifestBlock, []domain.Diagnostic) {
	var diags []domain.Diagnostic

	lexer, fallback := ResolveLexer(block.Lang())
	mb := domain.ManifestBlock{
		CodeBlock:      block,
		Lexer:          lexer.Config().Name,
		Fallback:       fallback,
		HighlightSpans: []domain.Span{},
		IsolateSpans:   []domain.Span{},
	}
	if fallback {
		diags = append(diags, domain.Diagnostic{
			Line:    block.Line,
			Message: fmt.Sprintf("language %q is not known to the highlighter, rendering as plain text", block.Lang()),
		})
	}

	tokens, err := tokenise(lexer, block.Code)
	if err != nil {
		diags = append(diags, domain.Diagnostic{Line: block.Line, Message: fmt.Sprintf("tokenise failed: %v", err)})
	}
	mb.TokenCount = len(tokens)

	for _, target := range block.Highlights {
		spans, d := locate(block, tokens, "highlight", target)
		mb.HighlightSpans = append(mb.HighlightSpans, spans...)
		diags = append(diags, d...)
	}
	for _, target := range block.Isolate {
		spans, d := locate(block, tokens, "isolate", target)
		mb.IsolateSpans = append(mb.IsolateSpans, spans...)
		diags = append(diags, d...)
	}
	for _, from := range sortedKeys(block.Transforms) {
		if from == "" || !strings.Contains(block.Code, from) {
			diags = append(diags, domain.Diagnostic{
				Line:    block.Line,
				Tag:     "transform",
				Message: fmt.Sprintf("transform source %q not found in code", from),
			})
		}
	}

	return mb, diags
}

// ResolveLexer returns the lexer for a language tag. An empty tag selects
// the plaintext lexer. An unknown tag selects chroma's fallback lexer and
// reports fallback=true.
func ResolveLexer(lang string) (chroma.Lexer, bool) {
	if lang == "" {
		if l := lexers.Get("plaintext"); l != nil {
			return l, false
		}
		return lexers.Fallback, false
	}
	if l := lexers.Get(lang); l != nil {
		return l, false
	}
	return lexers.Fallback, true
}

func tokenise(lexer chroma.Lexer, code string) ([]chroma.Token, error) {
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return nil, err
	}
	return it.Tokens(), nil
}

// locate finds target in the code. Whole tokens are preferred; when no
// token matches, every substring occurrence is used instead.
func locate(block domain.CodeBlock, tokens []chroma.Token, tag, target string) ([]domain.Span, []domain.Diagnostic) {
	if target == "" {
		return nil, []domain.Diagnostic{{Line: block.Line, Tag: tag, Message: fmt.Sprintf("empty @%s target", tag)}}
	}

	var spans []domain.Span
	offset := 0
	for _, tok := range tokens {
		if strings.TrimSpace(tok.Value) == target {
			start := offset + strings.Index(tok.Value, target)
			end := start + len(target)
			if end <= len(block.Code) && block.Code[start:end] == target {
				spans = append(spans, domain.Span{Target: target, Start: start, End: end})
			}
		}
		offset += len(tok.Value)
	}
	if len(spans) > 0 {
		return spans, nil
	}

	for from := 0; ; {
		i := strings.Index(block.Code[from:], target)
		if i < 0 {
			break
		}
		start := from + i
		spans = append(spans, domain.Span{Target: target, Start: start, End: start + len(target)})
		from = start + len(target)
	}
	if len(spans) == 0 {
		return nil, []domain.Diagnostic{{Line: block.Line, Tag: tag, Message: fmt.Sprintf("@%s target %q not found in code", tag, target)}}
	}
	return spans, nil
}

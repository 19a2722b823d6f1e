package domain

// Default annotation values applied when a tag is absent from a fence line.
const (
	DefaultStep     = 0
	DefaultWait     = 1.5
	DefaultFontSize = 24
)

// Document is the result of parsing one markdown text.
type Document struct {
	Title       *string        `json:"title,omitempty" yaml:"title,omitempty"`
	Blocks      []CodeBlock    `json:"blocks" yaml:"blocks"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"` // front matter, if any
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// HasTitle reports whether a top-level heading was found.
func (d Document) HasTitle() bool {
	return d.Title != nil
}

// CodeBlock is one fenced region plus its resolved annotation values.
type CodeBlock struct {
	Language     *string           `json:"language,omitempty" yaml:"language,omitempty"` // nil means plain text
	Code         string            `json:"code" yaml:"code"`
	Step         int               `json:"step" yaml:"step"`
	Wait         float64           `json:"wait" yaml:"wait"`
	UseTransform bool              `json:"use_transform" yaml:"use_transform"`
	UseWrite     bool              `json:"use_write" yaml:"use_write"`
	FontSize     int               `json:"fontsize" yaml:"fontsize"`
	Highlights   []string          `json:"highlights" yaml:"highlights"`
	Transforms   map[string]string `json:"transforms" yaml:"transforms"`
	Isolate      []string          `json:"isolate" yaml:"isolate"`
	Line         int               `json:"line" yaml:"line"` // 1-based line of the opening fence
	Annotations  Annotations       `json:"-" yaml:"-"`
}

// Lang returns the language tag or "" for plain text.
func (b CodeBlock) Lang() string {
	if b.Language == nil {
		return ""
	}
	return *b.Language
}

// Annotations records which tags were present on the fence line.
// A nil field means the tag was absent.
type Annotations struct {
	Step       *int
	Wait       *float64
	FontSize   *int
	Write      bool
	Transform  bool // bare @transform seen
	Highlights []string
	Transforms map[string]string
	Isolate    []string
	// Seen lists every recognized tag name in order of first appearance.
	Seen []string
}

// Has reports whether the named tag appeared on the fence line.
func (a Annotations) Has(tag string) bool {
	for _, s := range a.Seen {
		if s == tag {
			return true
		}
	}
	return false
}

// Diagnostic is a recoverable problem found while parsing or inspecting.
type Diagnostic struct {
	Line    int    `json:"line" yaml:"line"`
	Tag     string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// Manifest is the render-ready view of a Document, consumed by an external animation driver.
type Manifest struct {
	Source      string          `json:"source" yaml:"source"`
	Title       *string         `json:"title,omitempty" yaml:"title,omitempty"`
	Blocks      []ManifestBlock `json:"blocks" yaml:"blocks"`
	Diagnostics []Diagnostic    `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// ManifestBlock pairs a CodeBlock with lexer information and target spans.
type ManifestBlock struct {
	CodeBlock      `yaml:",inline"`
	Lexer          string `json:"lexer" yaml:"lexer"`
	Fallback       bool   `json:"lexer_fallback" yaml:"lexer_fallback"` // language unknown to the lexer registry
	TokenCount     int    `json:"token_count" yaml:"token_count"`
	HighlightSpans []Span `json:"highlight_spans" yaml:"highlight_spans"`
	IsolateSpans   []Span `json:"isolate_spans" yaml:"isolate_spans"`
}

// Span is a byte range [Start, End) inside a block's code.
type Span struct {
	Target string `json:"target" yaml:"target"`
	Start  int    `json:"start" yaml:"start"`
	End    int    `json:"end" yaml:"end"`
}

package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/fjglira/mdscene/internal/domain"
	"github.com/fjglira/mdscene/internal/manifest"
)

// Previewer prints the blocks of a Document in step order with terminal syntax colors.
type Previewer struct {
	style     *chroma.Style
	formatter chroma.Formatter

	titleStyle  lipgloss.Style
	headerStyle lipgloss.Style
	metaStyle   lipgloss.Style
}

// AutoFormatter selects a chroma formatter from the terminal's color profile.
const AutoFormatter = "auto"

// New creates a Previewer. Unknown style or formatter names fall back to
// chroma's defaults.
func New(styleName, formatterName string) *Previewer {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	if formatterName == AutoFormatter {
		formatterName = FormatterForProfile(termenv.EnvColorProfile())
	}
	formatter := formatters.Get(formatterName)
	if formatter == nil {
		formatter = formatters.Fallback
	}

	return &Previewer{
		style:       style,
		formatter:   formatter,
		titleStyle:  lipgloss.NewStyle().Bold(true).Underline(true),
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		metaStyle:   lipgloss.NewStyle().Faint(true),
	}
}

// Render writes the preview of doc to w.
func (p *Previewer) Render(w io.Writer, doc domain.Document) error {
	if doc.Title != nil {
		if _, err := fmt.Fprintln(w, p.titleStyle.Render(*doc.Title)); err != nil {
			return err
		}
	}
	if len(doc.Blocks) == 0 {
		_, err := fmt.Fprintln(w, p.metaStyle.Render("no code blocks found"))
		return err
	}

	for i, block := range doc.Blocks {
		if _, err := fmt.Fprintf(w, "\n%s\n%s\n", p.headerStyle.Render(header(i, block)), p.metaStyle.Render(meta(block))); err != nil {
			return err
		}

		lexer, _ := manifest.ResolveLexer(block.Lang())
		it, err := chroma.Coalesce(lexer).Tokenise(nil, block.Code+"\n")
		if err != nil {
			return domain.NewError("preview", "", block.Line, "failed to tokenise block", err)
		}
		if err := p.formatter.Format(w, p.style, it); err != nil {
			return domain.NewError("preview", "", block.Line, "failed to format block", err)
		}
	}
	return nil
}

// FormatterForProfile maps a terminal color profile to a chroma formatter name.
func FormatterForProfile(profile termenv.Profile) string {
	switch profile {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal"
	default:
		return "noop"
	}
}

func header(i int, block domain.CodeBlock) string {
	lang := block.Lang()
	if lang == "" {
		lang = "text"
	}
	return fmt.Sprintf("#%d  step %d  %s", i+1, block.Step, lang)
}

func meta(block domain.CodeBlock) string {
	parts := []string{fmt.Sprintf("wait %.2fs", block.Wait), fmt.Sprintf("fontsize %d", block.FontSize)}
	if block.UseWrite {
		parts = append(parts, "write")
	}
	if block.UseTransform {
		parts = append(parts, "transform")
	}
	if len(block.Highlights) > 0 {
		parts = append(parts, "highlight "+strings.Join(block.Highlights, ","))
	}
	if len(block.Isolate) > 0 {
		parts = append(parts, "isolate "+strings.Join(block.Isolate, ","))
	}
	return strings.Join(parts, " | ")
}

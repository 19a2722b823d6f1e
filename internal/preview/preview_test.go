package preview_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/muesli/termenv"

	"github.com/fjglira/mdscene/internal/parser"
	"github.com/fjglira/mdscene/internal/preview"
)

var _ = Describe("Previewer", func() {
	It("should print blocks in step order with the noop formatter", func() {
		doc := parser.Parse("# Demo\n```go @step2 @write\nsecond()\n```\n```go @step1 @highlight[first]\nfirst()\n```\n")

		var buf bytes.Buffer
		Expect(preview.New("monokai", "noop").Render(&buf, doc)).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring("Demo"))
		Expect(out).To(ContainSubstring("step 1"))
		Expect(out).To(ContainSubstring("highlight first"))
		Expect(out).To(ContainSubstring("write"))
		Expect(strings.Index(out, "first()")).To(BeNumerically("<", strings.Index(out, "second()")))
	})

	It("should emit ANSI escapes with a terminal formatter", func() {
		doc := parser.Parse("```go\nfunc main() {}\n```\n")

		var buf bytes.Buffer
		Expect(preview.New("monokai", "terminal256").Render(&buf, doc)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("\x1b["))
	})

	It("should say so when there are no blocks", func() {
		var buf bytes.Buffer
		Expect(preview.New("", "").Render(&buf, parser.Parse("# Empty\n"))).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("no code blocks found"))
	})

	DescribeTable("FormatterForProfile",
		func(profile termenv.Profile, expected string) {
			Expect(preview.FormatterForProfile(profile)).To(Equal(expected))
		},
		Entry("true color", termenv.TrueColor, "terminal16m"),
		Entry("256 colors", termenv.ANSI256, "terminal256"),
		Entry("16 colors", termenv.ANSI, "terminal"),
		Entry("no color", termenv.Ascii, "noop"),
	)

	It("should accept the auto formatter", func() {
		var buf bytes.Buffer
		Expect(preview.New("monokai", preview.AutoFormatter).Render(&buf, parser.Parse("```go\nx := 1\n```\n"))).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("x"))
	})
})

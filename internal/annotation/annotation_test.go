package annotation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/mdscene/internal/annotation"
)

var _ = Describe("Annotation scanner", func() {
	It("should return an empty set for an empty string", func() {
		ann, issues := annotation.Parse("")
		Expect(issues).To(BeEmpty())
		Expect(ann.Step).To(BeNil())
		Expect(ann.Wait).To(BeNil())
		Expect(ann.FontSize).To(BeNil())
		Expect(ann.Highlights).To(BeNil())
		Expect(ann.Transforms).To(BeNil())
		Expect(ann.Seen).To(BeEmpty())
	})

	It("should parse every tag on one line", func() {
		ann, issues := annotation.Parse(" @step3 @highlight[var,result] @isolate[x] @wait[2.5] @write @fontsize[32] @transform[a->b]")
		Expect(issues).To(BeEmpty())
		Expect(*ann.Step).To(Equal(3))
		Expect(ann.Highlights).To(Equal([]string{"var", "result"}))
		Expect(ann.Isolate).To(Equal([]string{"x"}))
		Expect(*ann.Wait).To(Equal(2.5))
		Expect(ann.Write).To(BeTrue())
		Expect(*ann.FontSize).To(Equal(32))
		Expect(ann.Transforms).To(Equal(map[string]string{"a": "b"}))
		Expect(ann.Transform).To(BeFalse())
		Expect(ann.Seen).To(Equal([]string{"step", "highlight", "isolate", "wait", "write", "fontsize", "transform"}))
	})

	It("should keep highlight entries untrimmed", func() {
		ann, _ := annotation.Parse("@highlight[a, b ,c]")
		Expect(ann.Highlights).To(Equal([]string{"a", " b ", "c"}))
	})

	Describe("@transform", func() {
		It("should treat the bare form as a flag", func() {
			ann, issues := annotation.Parse("@transform")
			Expect(issues).To(BeEmpty())
			Expect(ann.Transform).To(BeTrue())
			Expect(ann.Transforms).To(BeNil())
		})

		It("should build a map from the bracketed form", func() {
			ann, _ := annotation.Parse("@transform[x->y,a->b]")
			Expect(ann.Transform).To(BeFalse())
			Expect(ann.Transforms).To(Equal(map[string]string{"x": "y", "a": "b"}))
		})

		It("should split each entry only once on ->", func() {
			ann, _ := annotation.Parse("@transform[a->b->c]")
			Expect(ann.Transforms).To(Equal(map[string]string{"a": "b->c"}))
		})

		It("should skip malformed entries and keep the rest", func() {
			ann, issues := annotation.Parse("@transform[x->y,broken,a->b]")
			Expect(ann.Transforms).To(Equal(map[string]string{"x": "y", "a": "b"}))
			Expect(issues).To(HaveLen(1))
			Expect(issues[0].Tag).To(Equal("transform"))
			Expect(issues[0].Message).To(ContainSubstring(`"broken"`))
		})

		It("should tell the two forms apart when both appear", func() {
			ann, issues := annotation.Parse("@transform[x->y] @transform")
			Expect(issues).To(BeEmpty())
			Expect(ann.Transforms).To(Equal(map[string]string{"x": "y"}))
			Expect(ann.Transform).To(BeTrue())
		})

		It("should not confuse longer tag names with the flag", func() {
			ann, issues := annotation.Parse("@transformed")
			Expect(ann.Transform).To(BeFalse())
			Expect(issues).To(HaveLen(1))
			Expect(issues[0].Message).To(ContainSubstring("unknown annotation @transformed"))
		})
	})

	Describe("duplicates", func() {
		It("should keep the first @step", func() {
			ann, issues := annotation.Parse("@step2 @step7")
			Expect(*ann.Step).To(Equal(2))
			Expect(issues).To(HaveLen(1))
			Expect(issues[0].Message).To(ContainSubstring("first occurrence wins"))
		})

		It("should keep the first @highlight", func() {
			ann, _ := annotation.Parse("@highlight[a] @highlight[b]")
			Expect(ann.Highlights).To(Equal([]string{"a"}))
		})
	})

	Describe("malformed payloads", func() {
		It("should reject a non-numeric wait", func() {
			ann, issues := annotation.Parse("@wait[soon]")
			Expect(ann.Wait).To(BeNil())
			Expect(issues).To(HaveLen(1))
			Expect(issues[0].Tag).To(Equal("wait"))
		})

		It("should reject a negative wait", func() {
			ann, issues := annotation.Parse("@wait[-1]")
			Expect(ann.Wait).To(BeNil())
			Expect(issues).To(HaveLen(1))
		})

		It("should reject a zero fontsize", func() {
			ann, issues := annotation.Parse("@fontsize[0]")
			Expect(ann.FontSize).To(BeNil())
			Expect(issues).To(HaveLen(1))
		})

		It("should reject @step without digits", func() {
			ann, issues := annotation.Parse("@step")
			Expect(ann.Step).To(BeNil())
			Expect(issues).To(HaveLen(1))
		})

		It("should let a later valid tag win after a rejected one", func() {
			ann, issues := annotation.Parse("@wait[x] @wait[3]")
			Expect(*ann.Wait).To(Equal(3.0))
			Expect(issues).To(HaveLen(1))
		})

		It("should report an unterminated bracket", func() {
			ann, issues := annotation.Parse("@highlight[a,b")
			Expect(ann.Highlights).To(BeNil())
			Expect(issues).To(HaveLen(1))
			Expect(issues[0].Message).To(ContainSubstring("unterminated"))
		})

		It("should accept brackets on @write but report them", func() {
			ann, issues := annotation.Parse("@write[fast]")
			Expect(ann.Write).To(BeTrue())
			Expect(issues).To(HaveLen(1))
		})
	})

	It("should ignore stray @ characters", func() {
		ann, issues := annotation.Parse("mail me @ home @ @step1")
		Expect(issues).To(BeEmpty())
		Expect(*ann.Step).To(Equal(1))
	})

	It("should report known tags", func() {
		Expect(annotation.Known("write")).To(BeTrue())
		Expect(annotation.Known("color")).To(BeFalse())
	})
})

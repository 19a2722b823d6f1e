package scanner_test

import (
	"os"
	"path/filepath"
	"testing/fstest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/mdscene/internal/scanner"
)

var _ = Describe("Scanner", func() {
	var (
		s    *scanner.FSScanner
		fsys fstest.MapFS
	)

	BeforeEach(func() {
		s = scanner.NewScanner(true)
		fsys = fstest.MapFS{
			"intro.md":             {Data: []byte("# Intro")},
			"notes.txt":            {Data: []byte("x")},
			"talks/linq.md":        {Data: []byte("```cs\n```")},
			"talks/old/legacy.md":  {Data: []byte("")},
			"drafts/wip.markdown":  {Data: []byte("")},
			"vendor/lib/readme.md": {Data: []byte("")},
		}
	})

	It("should find markdown files recursively in sorted order", func() {
		files, err := s.Scan(fsys, []string{"*.md", "*.markdown"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(Equal([]string{
			"drafts/wip.markdown",
			"intro.md",
			"talks/linq.md",
			"talks/old/legacy.md",
			"vendor/lib/readme.md",
		}))
	})

	It("should respect ** exclude patterns on directories", func() {
		files, err := s.Scan(fsys, []string{"*.md"}, []string{"vendor/**", "talks/old/**"})
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(Equal([]string{"intro.md", "talks/linq.md"}))
	})

	It("should respect base-name exclude patterns", func() {
		files, err := s.Scan(fsys, []string{"*.md"}, []string{"linq.md"})
		Expect(err).ToNot(HaveOccurred())
		Expect(files).ToNot(ContainElement("talks/linq.md"))
	})

	It("should support ** include patterns", func() {
		files, err := s.Scan(fsys, []string{"talks/**/*.md"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(Equal([]string{"talks/linq.md", "talks/old/legacy.md"}))
	})

	It("should handle non-recursive mode", func() {
		s = scanner.NewScanner(false)
		files, err := s.Scan(fsys, []string{"*.md"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(Equal([]string{"intro.md"}))
	})

	It("should scan the testdata directory", func() {
		files, err := s.Scan(os.DirFS(filepath.Join("..", "..", "testdata", "markdown")), []string{"*.md"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(files).To(ContainElements("linq.md", "plain.md", "nested/empty.md"))
	})

	It("should return error for nonexistent directory", func() {
		_, err := s.Scan(os.DirFS("nonexistent_dir"), []string{"*.md"}, nil)
		Expect(err).To(HaveOccurred())
	})
})

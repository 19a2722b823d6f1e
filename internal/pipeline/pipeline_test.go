package pipeline_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fjglira/mdscene/internal/config"
	"github.com/fjglira/mdscene/internal/domain"
	"github.com/fjglira/mdscene/internal/locator"
	"github.com/fjglira/mdscene/internal/manifest"
	"github.com/fjglira/mdscene/internal/parser"
	"github.com/fjglira/mdscene/internal/pipeline"
	"github.com/fjglira/mdscene/internal/scanner"
	tmpl "github.com/fjglira/mdscene/internal/template"
)

var _ = Describe("Pipeline", func() {
	var (
		p       *pipeline.Pipeline
		cfg     *config.Config
		mdDir   string
		log     *logrus.Logger
		logBuf  *bytes.Buffer
		results []pipeline.Result
	)

	BeforeEach(func() {
		logBuf = &bytes.Buffer{}
		log = logrus.New()
		log.SetOutput(logBuf)
		log.SetLevel(logrus.DebugLevel)

		mdDir = filepath.Join("..", "..", "testdata", "markdown")
		cfg = config.DefaultConfig()

		engine, err := tmpl.NewEngine("", "report")
		Expect(err).ToNot(HaveOccurred())

		p = pipeline.New(
			locator.New(mdDir),
			scanner.NewScanner(true),
			parser.NewDefaultRegistry(),
			manifest.NewBuilder(),
			engine,
			log,
		)
	})

	Describe("Collect", func() {
		It("should locate a file through the script directory", func() {
			var err error
			results, err = p.Collect(cfg, []string{"linq.md"}, "")
			Expect(err).ToNot(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Source).To(Equal(filepath.Join(mdDir, "linq.md")))
			Expect(*results[0].Document.Title).To(Equal("LINQ in three steps"))
			Expect(results[0].Manifest.Blocks).To(HaveLen(3))
		})

		It("should report a missing file as not found", func() {
			_, err := p.Collect(cfg, []string{"missing.md"}, "")
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
		})

		It("should scan a directory", func() {
			var err error
			results, err = p.Collect(cfg, nil, mdDir)
			Expect(err).ToNot(HaveOccurred())
			Expect(results).To(HaveLen(4))
		})

		It("should warn, not fail, on files without code blocks", func() {
			var err error
			results, err = p.Collect(cfg, []string{filepath.Join("nested", "empty.md")}, "")
			Expect(err).ToNot(HaveOccurred())
			Expect(results[0].Document.Blocks).To(BeEmpty())
			Expect(logBuf.String()).To(ContainSubstring("No code blocks found"))
		})

		It("should honor the configured engine", func() {
			cfg.Parser.Engine = "commonmark"
			var err error
			results, err = p.Collect(cfg, []string{"linq.md"}, "")
			Expect(err).ToNot(HaveOccurred())
			Expect(logBuf.String()).To(ContainSubstring("Using commonmark parser engine"))
		})

		It("should fail for an unknown engine", func() {
			cfg.Parser.Engine = "asciidoc"
			_, err := p.Collect(cfg, []string{"linq.md"}, "")
			Expect(err).To(MatchError(domain.ErrNoParser))
		})
	})

	Describe("output", func() {
		BeforeEach(func() {
			var err error
			results, err = p.Collect(cfg, []string{"plain.md"}, "")
			Expect(err).ToNot(HaveOccurred())
		})

		It("should write a single document as a JSON object", func() {
			var out bytes.Buffer
			Expect(p.WriteDocuments(cfg, results, &out)).To(Succeed())

			var decoded map[string]any
			Expect(json.Unmarshal(out.Bytes(), &decoded)).To(Succeed())
			Expect(decoded).ToNot(HaveKey("title"))
			blocks := decoded["blocks"].([]any)
			Expect(blocks).To(HaveLen(1))
			block := blocks[0].(map[string]any)
			Expect(block).ToNot(HaveKey("language"))
			Expect(block["code"]).To(Equal("plain text"))
			Expect(block["wait"]).To(Equal(1.5))
			Expect(block["highlights"]).To(Equal([]any{}))
		})

		It("should write manifests as YAML", func() {
			cfg.Output.Format = "yaml"
			var out bytes.Buffer
			Expect(p.WriteManifests(cfg, results, &out)).To(Succeed())

			var decoded map[string]any
			Expect(yaml.Unmarshal(out.Bytes(), &decoded)).To(Succeed())
			Expect(decoded["source"]).To(ContainSubstring("plain.md"))
			blocks := decoded["blocks"].([]any)
			Expect(blocks[0].(map[string]any)["code"]).To(Equal("plain text"))
			Expect(blocks[0].(map[string]any)["lexer"]).ToNot(BeEmpty())
		})

		It("should render a text report", func() {
			cfg.Output.Format = "text"
			var out bytes.Buffer
			Expect(p.WriteManifests(cfg, results, &out)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("blocks: 1"))
		})

		It("should write to the output file", func() {
			cfg.Output.File = filepath.Join(GinkgoT().TempDir(), "out", "doc.json")
			Expect(p.WriteDocuments(cfg, results, io.Discard)).To(Succeed())

			data, err := os.ReadFile(cfg.Output.File)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"plain text"`))
		})

		It("should not write anything in dry-run mode", func() {
			cfg.DryRun = true
			cfg.Output.File = filepath.Join(GinkgoT().TempDir(), "doc.json")
			Expect(p.WriteDocuments(cfg, results, io.Discard)).To(Succeed())

			_, err := os.Stat(cfg.Output.File)
			Expect(os.IsNotExist(err)).To(BeTrue())
			Expect(logBuf.String()).To(ContainSubstring("[DRY-RUN] Would write"))
		})
	})

	Describe("Lint", func() {
		It("should print diagnostics with file and line", func() {
			dir := GinkgoT().TempDir()
			src := filepath.Join(dir, "bad.md")
			Expect(os.WriteFile(src, []byte("# Bad\n\n```go @transform[oops] @highlight[missing]\nx := 1\n```\n"), 0644)).To(Succeed())

			var err error
			results, err = p.Collect(cfg, []string{src}, "")
			Expect(err).ToNot(HaveOccurred())

			var out bytes.Buffer
			count, err := p.Lint(results, &out)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(2))
			Expect(out.String()).To(ContainSubstring(src + ":3: @transform:"))
			Expect(out.String()).To(ContainSubstring(src + ":3: @highlight:"))
		})

		It("should report zero problems for clean files", func() {
			var err error
			results, err = p.Collect(cfg, []string{"linq.md"}, "")
			Expect(err).ToNot(HaveOccurred())

			var out bytes.Buffer
			count, err := p.Lint(results, &out)
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(Equal(0))
			Expect(out.String()).To(BeEmpty())
		})
	})
})

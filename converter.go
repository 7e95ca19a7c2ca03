package texword

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/tsawler/texword/classify"
	"github.com/tsawler/texword/convert"
	"github.com/tsawler/texword/docx"
	"github.com/tsawler/texword/figures"
	"github.com/tsawler/texword/format"
	"github.com/tsawler/texword/model"
	"github.com/tsawler/texword/patch"
	"github.com/tsawler/texword/style"
	"github.com/tsawler/texword/texsrc"
)

// Converter provides a fluent interface for converting a LaTeX manuscript
// into a styled Word document. Each configuration method returns a new
// Converter instance, making it safe for concurrent use and allowing
// method chaining.
type Converter struct {
	// Source
	filename string

	// Configuration
	options ConvertOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning
}

// clone creates a shallow copy of the Converter with a deep copy of
// options. Each chain method returns a new instance.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename: c.filename,
		options:  c.options.clone(),
		err:      c.err,
		warnings: append([]Warning(nil), c.warnings...),
	}
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// Font sets the font family used throughout the document.
//
// Example:
//
//	warnings, err := texword.Open("paper.tex").Font("Georgia").Save(ctx, "out.docx")
func (c *Converter) Font(family string) *Converter {
	newConv := c.clone()
	newConv.options.styleCfg.FontFamily = family
	return newConv
}

// FontSize sets the body text size in points. Related sizes (headings,
// abstract, references) keep their configured values.
func (c *Converter) FontSize(points float64) *Converter {
	newConv := c.clone()
	newConv.options.styleCfg.BodySize = points
	return newConv
}

// LineSpacing sets the body line spacing as a multiple of single spacing.
func (c *Converter) LineSpacing(multiple float64) *Converter {
	newConv := c.clone()
	newConv.options.styleCfg.LineSpacing = multiple
	return newConv
}

// Margin sets all four page margins to the given size in centimeters.
func (c *Converter) Margin(cm float64) *Converter {
	newConv := c.clone()
	cfg := &newConv.options.styleCfg
	cfg.MarginTop, cfg.MarginBottom, cfg.MarginLeft, cfg.MarginRight = cm, cm, cm, cm
	return newConv
}

// StyleConfig replaces the whole style configuration.
func (c *Converter) StyleConfig(cfg style.Config) *Converter {
	newConv := c.clone()
	newConv.options.styleCfg = cfg
	return newConv
}

// StyleOption sets a single named style option. Unknown names put the
// Converter in an error state reported by the terminal call.
//
// Example:
//
//	warnings, err := texword.Open("paper.tex").
//	    StyleOption("heading1_size", 15).
//	    Save(ctx, "out.docx")
func (c *Converter) StyleOption(name string, value float64) *Converter {
	newConv := c.clone()
	if newConv.err == nil {
		if err := newConv.options.styleCfg.Set(name, value); err != nil {
			newConv.err = err
		}
	}
	return newConv
}

// Rules replaces the role formatting rules. The rule set must cover
// every role; validation happens at the terminal call.
func (c *Converter) Rules(rules style.RuleSet) *Converter {
	newConv := c.clone()
	newConv.options.rules = rules
	return newConv
}

// Markers replaces the classification markers.
func (c *Converter) Markers(m *classify.Markers) *Converter {
	newConv := c.clone()
	newConv.options.markers = m
	return newConv
}

// MarkersFile loads classification marker overrides from a YAML file.
func (c *Converter) MarkersFile(path string) *Converter {
	newConv := c.clone()
	if newConv.err != nil {
		return newConv
	}
	m, err := classify.LoadMarkersFile(path)
	if err != nil {
		newConv.err = err
		return newConv
	}
	newConv.options.markers = m
	return newConv
}

// PatchRules appends source patch rules after the built-in ones.
func (c *Converter) PatchRules(rules ...patch.Rule) *Converter {
	newConv := c.clone()
	newConv.options.patchRules = append(newConv.options.patchRules, rules...)
	return newConv
}

// PatchRulesFile loads additional patch rules from a YAML file.
func (c *Converter) PatchRulesFile(path string) *Converter {
	newConv := c.clone()
	if newConv.err != nil {
		return newConv
	}
	rules, err := patch.LoadRulesFile(path)
	if err != nil {
		newConv.err = err
		return newConv
	}
	newConv.options.patchRules = append(newConv.options.patchRules, rules...)
	return newConv
}

// MaxPatchPasses bounds the patcher's fixed-point iteration.
func (c *Converter) MaxPatchPasses(n int) *Converter {
	newConv := c.clone()
	newConv.options.maxPatchPasses = n
	return newConv
}

// NoCitationResolution disables rewriting of natbib citation commands.
func (c *Converter) NoCitationResolution() *Converter {
	newConv := c.clone()
	newConv.options.resolveCitations = false
	return newConv
}

// DPI sets the rasterization resolution for vector figures.
func (c *Converter) DPI(dpi int) *Converter {
	newConv := c.clone()
	newConv.options.dpi = dpi
	return newConv
}

// Workers bounds the number of figures rasterized concurrently.
func (c *Converter) Workers(n int) *Converter {
	newConv := c.clone()
	newConv.options.workers = n
	return newConv
}

// WorkDir places intermediate artifacts in the given directory instead of
// a fresh temporary one. The directory is not removed afterwards.
func (c *Converter) WorkDir(dir string) *Converter {
	newConv := c.clone()
	newConv.options.workDir = dir
	return newConv
}

// KeepWorkDir retains the temporary work directory after conversion for
// inspection.
func (c *Converter) KeepWorkDir() *Converter {
	newConv := c.clone()
	newConv.options.keepWorkDir = true
	return newConv
}

// StrictInputs promotes unresolvable \input and \include targets from
// warnings to errors. By default they are reported as warnings and the
// directives are left in the source for the external converter to cope
// with.
func (c *Converter) StrictInputs() *Converter {
	newConv := c.clone()
	newConv.options.strictInputs = true
	return newConv
}

// Backend replaces the external conversion backend. Useful for tests and
// for alternative converter installations.
func (c *Converter) Backend(b convert.Converter) *Converter {
	newConv := c.clone()
	newConv.options.backend = b
	return newConv
}

// Rasterizer replaces the figure rasterizer.
func (c *Converter) Rasterizer(r figures.Rasterizer) *Converter {
	newConv := c.clone()
	newConv.options.rasterizer = r
	return newConv
}

// Logger enables progress logging through the given logger.
func (c *Converter) Logger(logger *log.Logger) *Converter {
	newConv := c.clone()
	newConv.options.logger = logger
	return newConv
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Document runs the pipeline and returns the styled document tree without
// writing a file. Warnings report non-fatal degradations such as figures
// replaced by placeholders.
func (c *Converter) Document(ctx context.Context) (*model.Document, []Warning, error) {
	run := c.clone()
	doc, err := run.execute(ctx)
	return doc, run.warnings, err
}

// Save runs the pipeline and writes the result to the given path.
//
// Example:
//
//	warnings, err := texword.Open("paper.tex").Save(ctx, "paper.docx")
func (c *Converter) Save(ctx context.Context, outPath string) ([]Warning, error) {
	run := c.clone()
	doc, err := run.execute(ctx)
	if err != nil {
		return run.warnings, err
	}
	if err := docx.Write(doc, outPath); err != nil {
		return run.warnings, fmt.Errorf("writing %s: %w", outPath, err)
	}
	run.logf("wrote document", "path", outPath, "blocks", doc.BlockCount())
	return run.warnings, nil
}

// execute runs the conversion pipeline stage by stage.
func (c *Converter) execute(ctx context.Context) (*model.Document, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.filename == "" {
		return nil, fmt.Errorf("no input file specified")
	}
	if f := format.Detect(c.filename); f != format.LaTeX && f != format.Unknown {
		return nil, fmt.Errorf("%s: input is %s, want LaTeX source", c.filename, f)
	}

	workDir, cleanup, err := c.ensureWorkDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	srcDir := filepath.Dir(c.filename)

	// Flatten the source tree.
	c.logf("resolving inclusions", "root", c.filename)
	resolver := texsrc.NewResolver(texsrc.NewLoader(srcDir))
	stream, missing, err := resolver.Resolve(filepath.Base(c.filename))
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		if c.options.strictInputs {
			errs := make([]error, len(missing))
			for i, m := range missing {
				errs[i] = m
			}
			return nil, errors.Join(errs...)
		}
		for _, m := range missing {
			c.warn("resolve", "missing-input", m.Error(), m)
		}
	}

	// Patch converter-hostile constructs.
	c.logf("patching source", "length", len(stream.Text))
	text, err := c.patcher().Apply(stream.Text)
	if err != nil {
		return nil, err
	}

	// Swap vector figures for rasterized ones.
	c.logf("materializing figures")
	text, rasterErrs := c.materializer(srcDir, workDir).Materialize(ctx, text)
	for _, re := range rasterErrs {
		c.warn("figures", "raster-failed",
			fmt.Sprintf("figure %s replaced with placeholder", re.Source), re)
	}

	// Run the external converter.
	backend := c.options.backend
	if backend == nil {
		backend = &convert.Pandoc{}
	}
	c.logf("converting", "workDir", workDir)
	doc, err := backend.Convert(ctx, text, workDir)
	if err != nil {
		return nil, err
	}

	// Classify and style.
	classify.New(c.options.markers).Classify(doc)
	styler, err := c.styler()
	if err != nil {
		return nil, err
	}
	if err := styler.Style(doc); err != nil {
		return nil, err
	}
	c.logf("styled document", "blocks", doc.BlockCount(), "title", doc.Metadata.Title)
	return doc, nil
}

// ensureWorkDir returns the work directory and a cleanup function. A
// caller-provided directory is never removed; a temporary one is removed
// unless KeepWorkDir was requested.
func (c *Converter) ensureWorkDir() (string, func(), error) {
	if c.options.workDir != "" {
		if err := os.MkdirAll(c.options.workDir, 0o755); err != nil {
			return "", nil, fmt.Errorf("creating work directory: %w", err)
		}
		return c.options.workDir, func() {}, nil
	}
	dir, err := os.MkdirTemp("", "texword-")
	if err != nil {
		return "", nil, fmt.Errorf("creating work directory: %w", err)
	}
	if c.options.keepWorkDir {
		c.logf("keeping work directory", "path", dir)
		return dir, func() {}, nil
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}

func (c *Converter) patcher() *patch.Patcher {
	rules := append(patch.DefaultRules(), c.options.patchRules...)
	var opts []patch.Option
	if c.options.maxPatchPasses > 0 {
		opts = append(opts, patch.WithMaxPasses(c.options.maxPatchPasses))
	}
	if !c.options.resolveCitations {
		opts = append(opts, patch.WithoutCitationResolution())
	}
	return patch.New(rules, opts...)
}

func (c *Converter) materializer(srcDir, workDir string) *figures.Materializer {
	rasterizer := c.options.rasterizer
	if rasterizer == nil {
		rasterizer = figures.NewExecRasterizer(0)
	}
	opts := []figures.MaterializerOption{figures.WithDPI(c.options.dpi)}
	if c.options.workers > 0 {
		opts = append(opts, figures.WithWorkers(c.options.workers))
	}
	return figures.NewMaterializer(rasterizer, srcDir, workDir, opts...)
}

func (c *Converter) styler() (*style.Styler, error) {
	if c.options.rules != nil {
		return style.NewWithRules(c.options.styleCfg, c.options.rules)
	}
	return style.New(c.options.styleCfg)
}

func (c *Converter) warn(stage, code, message string, err error) {
	c.warnings = append(c.warnings, Warning{Stage: stage, Code: code, Message: message, Err: err})
}

func (c *Converter) logf(msg string, kv ...any) {
	if c.options.logger != nil {
		c.options.logger.Info(msg, kv...)
	}
}

// Package style applies manuscript formatting to a classified document
// tree. A total rule set maps every role to its paragraph and character
// formatting; separate passes handle tables, reference entries, and page
// layout. All passes are idempotent, so re-styling an already styled
// document is a no-op.
package style

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

// Config holds the tunable style values. Lengths are in centimeters,
// font sizes in points, line spacing as a multiple of single spacing.
type Config struct {
	FontFamily string `yaml:"font_family"`

	BodySize      float64 `yaml:"body_size"`
	TitleSize     float64 `yaml:"title_size"`
	Heading1Size  float64 `yaml:"heading1_size"`
	Heading2Size  float64 `yaml:"heading2_size"`
	Heading3Size  float64 `yaml:"heading3_size"`
	AbstractSize  float64 `yaml:"abstract_size"`
	TableSize     float64 `yaml:"table_size"`
	ReferenceSize float64 `yaml:"reference_size"`
	CaptionSize   float64 `yaml:"caption_size"`

	LineSpacing      float64 `yaml:"line_spacing"`
	ReferenceSpacing float64 `yaml:"reference_spacing"`

	PageWidth    float64 `yaml:"page_width"`
	PageHeight   float64 `yaml:"page_height"`
	MarginTop    float64 `yaml:"margin_top"`
	MarginBottom float64 `yaml:"margin_bottom"`
	MarginLeft   float64 `yaml:"margin_left"`
	MarginRight  float64 `yaml:"margin_right"`

	FirstLineIndent float64 `yaml:"first_line_indent"`
	HangingIndent   float64 `yaml:"hanging_indent"`

	// Border widths for the three-line table style, in points.
	TableOuterBorder  float64 `yaml:"table_outer_border"`
	TableHeaderBorder float64 `yaml:"table_header_border"`
}

// DefaultConfig returns the standard manuscript style: Times New Roman,
// double spacing, Letter pages with one-inch margins.
func DefaultConfig() Config {
	return Config{
		FontFamily: "Times New Roman",

		BodySize:      12,
		TitleSize:     16,
		Heading1Size:  14,
		Heading2Size:  13,
		Heading3Size:  12,
		AbstractSize:  11,
		TableSize:     10,
		ReferenceSize: 11,
		CaptionSize:   10,

		LineSpacing:      2.0,
		ReferenceSpacing: 1.0,

		PageWidth:    21.59,
		PageHeight:   27.94,
		MarginTop:    2.54,
		MarginBottom: 2.54,
		MarginLeft:   2.54,
		MarginRight:  2.54,

		FirstLineIndent: 1.27,
		HangingIndent:   1.27,

		TableOuterBorder:  1.5,
		TableHeaderBorder: 0.5,
	}
}

// Validate checks the configuration for values that would produce an
// unusable document.
func (c Config) Validate() error {
	if c.FontFamily == "" {
		return fmt.Errorf("style: font family must not be empty")
	}
	sizes := map[string]float64{
		"body_size":      c.BodySize,
		"title_size":     c.TitleSize,
		"heading1_size":  c.Heading1Size,
		"heading2_size":  c.Heading2Size,
		"heading3_size":  c.Heading3Size,
		"abstract_size":  c.AbstractSize,
		"table_size":     c.TableSize,
		"reference_size": c.ReferenceSize,
		"caption_size":   c.CaptionSize,
	}
	for name, v := range sizes {
		if v < 4 || v > 96 {
			return fmt.Errorf("style: %s %.1f out of range [4, 96]", name, v)
		}
	}
	if c.LineSpacing < 1 || c.LineSpacing > 4 {
		return fmt.Errorf("style: line_spacing %.2f out of range [1, 4]", c.LineSpacing)
	}
	if c.PageWidth <= c.MarginLeft+c.MarginRight {
		return fmt.Errorf("style: margins leave no horizontal content area")
	}
	if c.PageHeight <= c.MarginTop+c.MarginBottom {
		return fmt.Errorf("style: margins leave no vertical content area")
	}
	return nil
}

// Set applies a single named option. Unknown names are rejected so typos
// in configuration files surface as errors instead of silently keeping
// the default.
func (c *Config) Set(name string, value float64) error {
	switch name {
	case "body_size":
		c.BodySize = value
	case "title_size":
		c.TitleSize = value
	case "heading1_size":
		c.Heading1Size = value
	case "heading2_size":
		c.Heading2Size = value
	case "heading3_size":
		c.Heading3Size = value
	case "abstract_size":
		c.AbstractSize = value
	case "table_size":
		c.TableSize = value
	case "reference_size":
		c.ReferenceSize = value
	case "caption_size":
		c.CaptionSize = value
	case "line_spacing":
		c.LineSpacing = value
	case "reference_spacing":
		c.ReferenceSpacing = value
	case "page_width":
		c.PageWidth = value
	case "page_height":
		c.PageHeight = value
	case "margin", "margins":
		c.MarginTop, c.MarginBottom, c.MarginLeft, c.MarginRight = value, value, value, value
	case "margin_top":
		c.MarginTop = value
	case "margin_bottom":
		c.MarginBottom = value
	case "margin_left":
		c.MarginLeft = value
	case "margin_right":
		c.MarginRight = value
	case "first_line_indent":
		c.FirstLineIndent = value
	case "hanging_indent":
		c.HangingIndent = value
	case "table_outer_border":
		c.TableOuterBorder = value
	case "table_header_border":
		c.TableHeaderBorder = value
	default:
		return fmt.Errorf("style: unknown option %q", name)
	}
	return nil
}

// LoadConfig reads style overrides from YAML on top of the defaults.
// Unknown keys are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("parsing style config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfigFile reads style overrides from a YAML file.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("opening style config: %w", err)
	}
	defer f.Close()
	return LoadConfig(f)
}

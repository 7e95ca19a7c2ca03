package texword

import (
	"github.com/charmbracelet/log"

	"github.com/tsawler/texword/classify"
	"github.com/tsawler/texword/convert"
	"github.com/tsawler/texword/figures"
	"github.com/tsawler/texword/patch"
	"github.com/tsawler/texword/style"
)

// ConvertOptions holds configuration for one conversion run.
type ConvertOptions struct {
	// Styling
	styleCfg style.Config
	rules    style.RuleSet // nil means defaults derived from styleCfg

	// Classification
	markers *classify.Markers // nil means classify.DefaultMarkers

	// Source patching
	patchRules       []patch.Rule // appended after patch.DefaultRules
	maxPatchPasses   int          // 0 keeps the patcher default
	resolveCitations bool

	// Figures
	dpi     int
	workers int

	// External conversion
	backend    convert.Converter  // nil means &convert.Pandoc{}
	rasterizer figures.Rasterizer // nil means figures.NewExecRasterizer(0)

	// Workspace
	workDir     string // "" means a fresh temp dir
	keepWorkDir bool

	// Error policy
	strictInputs bool

	logger *log.Logger // nil disables progress logging
}

// defaultOptions returns the default conversion options.
func defaultOptions() ConvertOptions {
	return ConvertOptions{
		styleCfg:         style.DefaultConfig(),
		resolveCitations: true,
		dpi:              figures.DefaultDPI,
	}
}

// clone creates a deep copy of ConvertOptions.
func (o ConvertOptions) clone() ConvertOptions {
	newOpts := o
	if o.patchRules != nil {
		newOpts.patchRules = make([]patch.Rule, len(o.patchRules))
		copy(newOpts.patchRules, o.patchRules)
	}
	if o.rules != nil {
		newOpts.rules = make(style.RuleSet, len(o.rules))
		for role, rule := range o.rules {
			newOpts.rules[role] = rule
		}
	}
	return newOpts
}

package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/texword/model"
)

// Rule is the formatting applied to blocks of one role. Zero-valued
// fields are left alone, so a rule only overwrites what it names.
// Bold and Italic are tri-state: TriUnset preserves whatever the author
// wrote, TriOn and TriOff force the flag for runs that carry no explicit
// emphasis of their own.
type Rule struct {
	FontSize float64
	Bold     model.Tri
	Italic   model.Tri

	Alignment   model.Alignment
	LineSpacing float64
	SpaceBefore float64 // points
	SpaceAfter  float64 // points

	FirstLineIndent float64 // cm; negative for hanging indents
	LeftIndent      float64 // cm

	// HasIndent marks rules whose indent fields are meaningful even when
	// zero, so a rule can force indents back to nothing.
	HasIndent bool

	WidowOrphan bool
}

// RuleSet maps every role to its rule. A rule set must be total; use
// Validate before applying one built by hand.
type RuleSet map[model.Role]Rule

// DefaultRules builds the standard manuscript rule set from a config.
func DefaultRules(cfg Config) RuleSet {
	return RuleSet{
		model.RoleUnclassified: {},
		model.RoleTitle: {
			FontSize:    cfg.TitleSize,
			Bold:        model.TriOn,
			Alignment:   model.AlignCenter,
			LineSpacing: cfg.LineSpacing,
			SpaceAfter:  12,
			HasIndent:   true,
		},
		model.RoleAuthor: {
			FontSize:    cfg.BodySize,
			Alignment:   model.AlignCenter,
			LineSpacing: cfg.LineSpacing,
			HasIndent:   true,
		},
		model.RoleAbstract: {
			FontSize:    cfg.AbstractSize,
			LineSpacing: cfg.LineSpacing,
			Alignment:   model.AlignJustify,
			HasIndent:   true,
		},
		model.RoleHeading1: {
			FontSize:    cfg.Heading1Size,
			Bold:        model.TriOn,
			Alignment:   model.AlignLeft,
			LineSpacing: cfg.LineSpacing,
			SpaceBefore: 12,
			SpaceAfter:  6,
			HasIndent:   true,
		},
		model.RoleHeading2: {
			FontSize:    cfg.Heading2Size,
			Bold:        model.TriOn,
			Alignment:   model.AlignLeft,
			LineSpacing: cfg.LineSpacing,
			SpaceBefore: 10,
			SpaceAfter:  6,
			HasIndent:   true,
		},
		model.RoleHeading3: {
			FontSize:    cfg.Heading3Size,
			Bold:        model.TriOn,
			Italic:      model.TriOn,
			Alignment:   model.AlignLeft,
			LineSpacing: cfg.LineSpacing,
			SpaceBefore: 8,
			SpaceAfter:  4,
			HasIndent:   true,
		},
		model.RoleBody: {
			FontSize:        cfg.BodySize,
			Alignment:       model.AlignJustify,
			LineSpacing:     cfg.LineSpacing,
			FirstLineIndent: cfg.FirstLineIndent,
			HasIndent:       true,
			WidowOrphan:     true,
		},
		model.RoleCaption: {
			FontSize:    cfg.CaptionSize,
			Alignment:   model.AlignCenter,
			LineSpacing: 1.0,
			SpaceBefore: 4,
			SpaceAfter:  8,
			HasIndent:   true,
		},
		model.RoleReferenceEntry: {
			FontSize:        cfg.ReferenceSize,
			Alignment:       model.AlignLeft,
			LineSpacing:     cfg.ReferenceSpacing,
			LeftIndent:      cfg.HangingIndent,
			FirstLineIndent: -cfg.HangingIndent,
			HasIndent:       true,
			WidowOrphan:     true,
		},
		model.RoleCellHeader: {
			FontSize:    cfg.TableSize,
			Bold:        model.TriOn,
			Alignment:   model.AlignCenter,
			LineSpacing: 1.0,
			HasIndent:   true,
		},
		model.RoleCellBody: {
			FontSize:    cfg.TableSize,
			Alignment:   model.AlignLeft,
			LineSpacing: 1.0,
			HasIndent:   true,
		},
	}
}

// Validate reports an error when any role lacks a rule. A partial rule
// set would silently skip blocks, so totality is enforced up front.
func (rs RuleSet) Validate() error {
	var missing []string
	for _, role := range model.AllRoles() {
		if _, ok := rs[role]; !ok {
			missing = append(missing, role.String())
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("style: rule set missing roles: %s", strings.Join(missing, ", "))
	}
	return nil
}

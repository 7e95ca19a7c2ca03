package style

import (
	"fmt"

	"github.com/tsawler/texword/model"
)

// Styler runs the formatting passes over a classified document.
type Styler struct {
	cfg   Config
	rules RuleSet
}

// New creates a styler from a config, using the default rule set.
func New(cfg Config) (*Styler, error) {
	return NewWithRules(cfg, DefaultRules(cfg))
}

// NewWithRules creates a styler with a custom rule set. The rule set
// must cover every role.
func NewWithRules(cfg Config, rules RuleSet) (*Styler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Styler{cfg: cfg, rules: rules}, nil
}

// Style runs all passes in order: role rules, tables, references, page
// layout.
func (s *Styler) Style(doc *model.Document) error {
	if err := s.Apply(doc); err != nil {
		return err
	}
	s.FormatTables(doc)
	s.FormatReferences(doc)
	s.LayoutPages(doc)
	return nil
}

// Apply applies the role rules to every block, including blocks nested
// in table cells. Unclassified blocks pass through untouched, and runs
// carrying explicit author emphasis keep it.
func (s *Styler) Apply(doc *model.Document) error {
	for _, b := range doc.Blocks {
		if err := s.applyBlock(b); err != nil {
			return err
		}
	}
	return nil
}

func (s *Styler) applyBlock(b *model.Block) error {
	if b.Kind == model.KindTable && b.Table != nil {
		for _, row := range b.Table.Rows {
			for _, cell := range row.Cells {
				for _, inner := range cell.Blocks {
					if inner.Role == model.RoleUnclassified {
						inner.Role = cell.Role
					}
					if err := s.applyBlock(inner); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}
	if b.Role == model.RoleUnclassified {
		return nil
	}
	rule, ok := s.rules[b.Role]
	if !ok {
		return fmt.Errorf("style: no rule for role %s", b.Role)
	}

	if rule.Alignment != model.AlignUnset {
		b.Format.Alignment = rule.Alignment
	}
	if rule.LineSpacing != 0 {
		b.Format.LineSpacing = rule.LineSpacing
	}
	b.Format.SpaceBefore = rule.SpaceBefore
	b.Format.SpaceAfter = rule.SpaceAfter
	if rule.HasIndent {
		b.Format.FirstLineIndent = rule.FirstLineIndent
		b.Format.LeftIndent = rule.LeftIndent
	}
	if rule.WidowOrphan {
		b.Format.WidowOrphan = true
	}

	for _, r := range b.Runs {
		r.Format.FontFamily = s.cfg.FontFamily
		if rule.FontSize != 0 {
			r.Format.FontSize = rule.FontSize
		}
		if r.Format.Bold == model.TriUnset {
			r.Format.Bold = rule.Bold
		}
		if r.Format.Italic == model.TriUnset {
			r.Format.Italic = rule.Italic
		}
	}
	return nil
}

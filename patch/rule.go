package patch

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"go.yaml.in/yaml/v3"
)

// Action describes what a rule does to matched text.
type Action string

const (
	// ActionStrip removes the matched construct.
	ActionStrip Action = "strip"
	// ActionSubstitute replaces the match using the rule's template.
	ActionSubstitute Action = "substitute"
	// ActionWrap surrounds the match with a prefix and suffix.
	ActionWrap Action = "wrap"
)

// Rule is a single compatibility rewrite: a construct signature plus a
// rewrite action. Rules carry no state and must be idempotent.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Action  Action

	// Replace is the substitution template for ActionSubstitute ($1, $2
	// reference capture groups).
	Replace string

	// Prefix and Suffix are used by ActionWrap.
	Prefix string
	Suffix string

	// Unless skips the rule entirely when the text already matches. Used
	// by rules that insert text and would otherwise re-fire forever.
	Unless *regexp.Regexp
}

// apply runs the rule over the whole text once.
func (r Rule) apply(text string) string {
	if r.Unless != nil && r.Unless.MatchString(text) {
		return text
	}
	switch r.Action {
	case ActionStrip:
		return r.Pattern.ReplaceAllString(text, "")
	case ActionSubstitute:
		return r.Pattern.ReplaceAllString(text, r.Replace)
	case ActionWrap:
		return r.Pattern.ReplaceAllString(text, r.Prefix+"$0"+r.Suffix)
	default:
		return text
	}
}

// ruleYAML is the on-disk form of a rule.
type ruleYAML struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Action  string `yaml:"action"`
	Replace string `yaml:"replace"`
	Prefix  string `yaml:"prefix"`
	Suffix  string `yaml:"suffix"`
	Unless  string `yaml:"unless"`
}

type rulesFileYAML struct {
	Rules []ruleYAML `yaml:"rules"`
}

// LoadRules reads an ordered rule list from YAML. Rules apply in file
// order, so more specific constructs should come first.
func LoadRules(r io.Reader) ([]Rule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}

	var file rulesFileYAML
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}

	rules := make([]Rule, 0, len(file.Rules))
	for i, ry := range file.Rules {
		if ry.Name == "" {
			return nil, fmt.Errorf("rule %d: missing name", i)
		}
		re, err := regexp.Compile(ry.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %s: invalid pattern: %w", ry.Name, err)
		}
		rule := Rule{
			Name:    ry.Name,
			Pattern: re,
			Action:  Action(ry.Action),
			Replace: ry.Replace,
			Prefix:  ry.Prefix,
			Suffix:  ry.Suffix,
		}
		switch rule.Action {
		case ActionStrip, ActionSubstitute, ActionWrap:
		default:
			return nil, fmt.Errorf("rule %s: unknown action %q", ry.Name, ry.Action)
		}
		if ry.Unless != "" {
			unless, err := regexp.Compile(ry.Unless)
			if err != nil {
				return nil, fmt.Errorf("rule %s: invalid unless pattern: %w", ry.Name, err)
			}
			rule.Unless = unless
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadRulesFile reads an ordered rule list from a YAML file.
func LoadRulesFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadRules(f)
}

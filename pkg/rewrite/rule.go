package rewrite

import (
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// Position determines where a rule's expanded template lands relative to the
// trigger match.
type Position string

const (
	PositionAfter      Position = "after"       // new line after the matched text
	PositionBefore     Position = "before"      // new line before the matched text
	PositionReplace    Position = "replace"     // substitute the matched text
	PositionBlockStart Position = "block-start" // new line after the block's opening token
	PositionBlockEnd   Position = "block-end"   // new line before the block's closing token
)

// GuardScope determines where a rule's guard string is searched for.
type GuardScope string

const (
	GuardScopeFile   GuardScope = "file"   // anywhere in the content
	GuardScopeWindow GuardScope = "window" // within GuardWindow bytes after the match
	GuardScopeBlock  GuardScope = "block"  // within the structural block at the match
)

// DefaultGuardWindow is the neighborhood size used when a window-scoped rule
// does not set one.
const DefaultGuardWindow = 256

// Structural names the balanced token pair bounding a block. Both tokens must
// be single bytes (e.g. "{" / "}").
type Structural struct {
	Open  string `json:"open" yaml:"open" hcl:"open"`
	Close string `json:"close" yaml:"close" hcl:"close"`
}

// Rule is a single guarded rewrite: where its trigger pattern matches and its
// guard string is absent from the guard scope, the expanded template is
// spliced in at the rule's position.
type Rule struct {
	Name        string      `json:"name" yaml:"name" hcl:"name,label"`
	Version     int         `json:"version,omitempty" yaml:"version,omitempty" hcl:"version,optional"`
	Trigger     string      `json:"trigger" yaml:"trigger" hcl:"trigger"`
	Guard       string      `json:"guard" yaml:"guard" hcl:"guard"`
	GuardScope  GuardScope  `json:"guard_scope,omitempty" yaml:"guard_scope,omitempty" hcl:"guard_scope,optional"`
	GuardWindow int         `json:"guard_window,omitempty" yaml:"guard_window,omitempty" hcl:"guard_window,optional"`
	Template    string      `json:"template" yaml:"template" hcl:"template"`
	Position    Position    `json:"position,omitempty" yaml:"position,omitempty" hcl:"position,optional"`
	Structural  *Structural `json:"structural,omitempty" yaml:"structural,omitempty" hcl:"structural,block"`
	MatchIndent bool        `json:"match_indent,omitempty" yaml:"match_indent,omitempty" hcl:"match_indent,optional"`

	trigger *regexp.Regexp
}

// Compile validates the rule and compiles its trigger pattern. It is safe to
// call more than once.
func (r *Rule) Compile() error {
	if r.Name == "" {
		return errors.New("rule name is required")
	}
	if r.Trigger == "" {
		return errors.Errorf("rule %s: trigger is required", r.Name)
	}
	if r.Guard == "" {
		return errors.Errorf("rule %s: guard is required", r.Name)
	}
	if r.Template == "" {
		return errors.Errorf("rule %s: template is required", r.Name)
	}

	// Defaults
	if r.Position == "" {
		r.Position = PositionAfter
	}
	if r.GuardScope == "" {
		r.GuardScope = GuardScopeFile
	}
	if r.GuardWindow <= 0 {
		r.GuardWindow = DefaultGuardWindow
	}

	switch r.Position {
	case PositionAfter, PositionBefore, PositionReplace, PositionBlockStart, PositionBlockEnd:
	default:
		return errors.Errorf("rule %s: unknown position %q", r.Name, r.Position)
	}
	switch r.GuardScope {
	case GuardScopeFile, GuardScopeWindow, GuardScopeBlock:
	default:
		return errors.Errorf("rule %s: unknown guard scope %q", r.Name, r.GuardScope)
	}

	needsBlock := r.Position == PositionBlockStart || r.Position == PositionBlockEnd || r.GuardScope == GuardScopeBlock
	if needsBlock {
		if r.Structural == nil {
			return errors.Errorf("rule %s: structural block tokens are required for position %q / guard scope %q", r.Name, r.Position, r.GuardScope)
		}
		if len(r.Structural.Open) != 1 || len(r.Structural.Close) != 1 {
			return errors.Errorf("rule %s: structural tokens must be single characters", r.Name)
		}
	}

	re, err := regexp.Compile(r.Trigger)
	if err != nil {
		return errors.Errorf("rule %s: compiling trigger: %w", r.Name, err)
	}
	r.trigger = re
	return nil
}

// Regexp returns the compiled trigger, compiling it on first use.
func (r *Rule) Regexp() (*regexp.Regexp, error) {
	if r.trigger == nil {
		if err := r.Compile(); err != nil {
			return nil, err
		}
	}
	return r.trigger, nil
}

// ResolveVersions collapses rules that share a name down to the highest
// version, preserving the relative order of the survivors. Two rules with the
// same name and version are an error rather than an ordering guess.
func ResolveVersions(rules []Rule) ([]Rule, error) {
	best := make(map[string]int, len(rules)) // name -> index into rules
	order := make([]string, 0, len(rules))
	for i, r := range rules {
		prev, ok := best[r.Name]
		if !ok {
			best[r.Name] = i
			order = append(order, r.Name)
			continue
		}
		if rules[prev].Version == r.Version {
			return nil, errors.Errorf("rule %s: duplicate version %d", r.Name, r.Version)
		}
		if r.Version > rules[prev].Version {
			best[r.Name] = i
		}
	}

	resolved := make([]Rule, 0, len(order))
	for _, name := range order {
		resolved = append(resolved, rules[best[name]])
	}
	return resolved, nil
}

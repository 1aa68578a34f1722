package rewrite

import (
	"bytes"
	"context"
	"regexp"
	"sort"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Outcome classifies what a single rule did to the content.
type Outcome int

const (
	OutcomeApplied    Outcome = iota // at least one edit was spliced in
	OutcomeGuarded                   // guard string already present, rule skipped
	OutcomeNoMatch                   // trigger pattern absent, nothing to do
	OutcomeUnbalanced                // structural scan failed, no edit produced
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeGuarded:
		return "already-applied"
	case OutcomeNoMatch:
		return "no-match"
	case OutcomeUnbalanced:
		return "unbalanced"
	default:
		return "unknown"
	}
}

// RuleResult reports the outcome of one rule against one piece of content.
type RuleResult struct {
	Rule     string   // Rule name
	Outcome  Outcome  // What happened
	Edits    int      // Number of splices made
	Warnings []string // Structural scan problems, if any
}

// Result contains the outcome of a full rewrite pass.
type Result struct {
	OriginalContent []byte
	ModifiedContent []byte
	Changed         bool
	EditCount       int
	Rules           []RuleResult
}

// Warnings collects all per-rule warnings in rule order.
func (r *Result) Warnings() []string {
	var out []string
	for _, rr := range r.Rules {
		out = append(out, rr.Warnings...)
	}
	return out
}

// Rewriter applies guarded rewrite rules to in-memory content.
type Rewriter struct{}

// New creates a new Rewriter
func New() *Rewriter {
	return &Rewriter{}
}

// Rewrite applies each rule in order against the running content. A rule is
// applied at most once per match site; rules whose guard is already present
// in their scope contribute no edits, so a second pass over the output of a
// first pass is a no-op.
func (rw *Rewriter) Rewrite(ctx context.Context, content []byte, rules []Rule) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	result := &Result{
		OriginalContent: content,
		ModifiedContent: content,
	}

	current := content
	for i := range rules {
		rule := &rules[i]
		next, rr, err := rw.applyRule(current, rule)
		if err != nil {
			return nil, errors.Errorf("applying rule %s: %w", rule.Name, err)
		}

		logger.Debug().
			Str("rule", rule.Name).
			Str("outcome", rr.Outcome.String()).
			Int("edits", rr.Edits).
			Msg("rule applied")

		result.Rules = append(result.Rules, rr)
		result.EditCount += rr.Edits
		if rr.Edits > 0 {
			result.Changed = true
		}
		current = next
	}

	result.ModifiedContent = current
	return result, nil
}

// edit is a pending splice against a single content snapshot.
type edit struct {
	start, end int // [start, end) span being replaced; start == end for pure insertion
	text       []byte
}

// applyRule computes all edits for one rule against one snapshot, then splices
// them in reverse document order so earlier edits don't shift later offsets.
func (rw *Rewriter) applyRule(content []byte, rule *Rule) ([]byte, RuleResult, error) {
	rr := RuleResult{Rule: rule.Name}

	re, err := rule.Regexp()
	if err != nil {
		return nil, rr, err
	}

	// Global idempotency: guard anywhere in the file means this rule already
	// ran, regardless of where its matches sit.
	if rule.GuardScope == GuardScopeFile && bytes.Contains(content, []byte(rule.Guard)) {
		rr.Outcome = OutcomeGuarded
		return content, rr, nil
	}

	matches := re.FindAllSubmatchIndex(content, -1)
	if len(matches) == 0 {
		rr.Outcome = OutcomeNoMatch
		return content, rr, nil
	}

	// Two matches can resolve to the same insertion point, e.g. both sit
	// inside one structural block. A block gets its template, and with it the
	// guard, exactly once.
	type editKey struct {
		start, end int
		text       string
	}
	seen := make(map[editKey]bool)

	var edits []edit
	for _, m := range matches {
		e, skip, warn := rw.editForMatch(content, rule, re, m)
		if warn != "" {
			rr.Warnings = append(rr.Warnings, warn)
			continue
		}
		if skip {
			continue
		}
		k := editKey{start: e.start, end: e.end, text: string(e.text)}
		if seen[k] {
			continue
		}
		seen[k] = true
		edits = append(edits, e)
	}

	switch {
	case len(edits) > 0:
		rr.Outcome = OutcomeApplied
	case len(rr.Warnings) > 0:
		rr.Outcome = OutcomeUnbalanced
	default:
		rr.Outcome = OutcomeGuarded
	}
	rr.Edits = len(edits)

	if len(edits) == 0 {
		return content, rr, nil
	}

	// Block-position edits carry the block's offset, not the match's, so with
	// nested blocks the collected edits are not in document order. Restore it
	// before splicing back to front against the original snapshot.
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	out := content
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		var buf bytes.Buffer
		buf.Grow(len(out) + len(e.text))
		buf.Write(out[:e.start])
		buf.Write(e.text)
		buf.Write(out[e.end:])
		out = buf.Bytes()
	}
	return out, rr, nil
}

// editForMatch builds the splice for a single trigger match, or reports that
// the match is guarded (skip) or structurally unbalanced (warn).
func (rw *Rewriter) editForMatch(content []byte, rule *Rule, re *regexp.Regexp, m []int) (e edit, skip bool, warn string) {
	start, end := m[0], m[1]

	// Locate the structural block first when the rule needs one, both for
	// block positions and for block-scoped guards.
	openAt, closeAt := -1, -1
	if rule.Structural != nil {
		var err error
		openAt, closeAt, err = scanBalanced(content, start, rule.Structural.Open[0], rule.Structural.Close[0])
		if err != nil {
			return edit{}, false, "no balanced " + rule.Structural.Open + rule.Structural.Close + " block after match for rule " + rule.Name
		}
	}

	// Per-match guard check.
	var region []byte
	switch rule.GuardScope {
	case GuardScopeWindow:
		limit := end + rule.GuardWindow
		if limit > len(content) {
			limit = len(content)
		}
		region = content[start:limit]
	case GuardScopeBlock:
		region = content[openAt : closeAt+1]
	}
	if region != nil && bytes.Contains(region, []byte(rule.Guard)) {
		return edit{}, true, ""
	}

	expanded := re.Expand(nil, []byte(rule.Template), content, m)

	switch rule.Position {
	case PositionReplace:
		return edit{start: start, end: end, text: expanded}, false, ""

	case PositionBefore:
		indent := rw.indentFor(content, start, rule)
		at := lineStart(content, start)
		return edit{start: at, end: at, text: joinLine(nil, indent, expanded, []byte("\n"))}, false, ""

	case PositionBlockStart:
		indent := blockBodyIndent(content, openAt, closeAt)
		return edit{start: openAt + 1, end: openAt + 1, text: joinLine([]byte("\n"), indent, expanded, nil)}, false, ""

	case PositionBlockEnd:
		indent := blockBodyIndent(content, openAt, closeAt)
		at := lineStart(content, closeAt)
		return edit{start: at, end: at, text: joinLine(nil, indent, expanded, []byte("\n"))}, false, ""

	default: // PositionAfter
		indent := rw.indentFor(content, start, rule)
		return edit{start: end, end: end, text: joinLine([]byte("\n"), indent, expanded, nil)}, false, ""
	}
}

// indentFor returns the matched line's leading whitespace when the rule asks
// for indentation matching.
func (rw *Rewriter) indentFor(content []byte, pos int, rule *Rule) []byte {
	if !rule.MatchIndent {
		return nil
	}
	return lineIndent(content, pos)
}

// joinLine concatenates the parts into a fresh buffer. The parts may alias the
// content being edited, so they are always copied.
func joinLine(parts ...[]byte) []byte {
	size := 0
	for _, p := range parts {
		size += len(p)
	}
	out := make([]byte, 0, size)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// lineStart returns the offset of the first character of the line holding pos.
func lineStart(content []byte, pos int) int {
	start := pos
	for start > 0 && content[start-1] != '\n' {
		start--
	}
	return start
}

// blockBodyIndent guesses the indentation of a block's body: the leading
// whitespace of the first non-blank interior line, falling back to the open
// token's line plus four spaces for blocks with no interior lines.
func blockBodyIndent(content []byte, openAt, closeAt int) []byte {
	closeLine := lineStart(content, closeAt)

	pos := openAt
	for pos < closeAt && content[pos] != '\n' {
		pos++
	}
	for pos < closeAt {
		ls := pos + 1
		if ls >= closeLine {
			break
		}
		le := ls
		for le < closeAt && content[le] != '\n' {
			le++
		}
		if len(bytes.TrimSpace(content[ls:le])) > 0 {
			return append([]byte{}, lineIndent(content, ls)...)
		}
		pos = le
	}

	base := lineIndent(content, openAt)
	return joinLine(base, []byte("    "))
}

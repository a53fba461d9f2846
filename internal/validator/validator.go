// Package validator compares the markers of a translated target with its
// source and proposes repairs. Issues are data for a QA panel; nothing
// here fails or interrupts editing.
package validator

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"tag-engine/internal/codec"
	"tag-engine/internal/token"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Rule identifies the check that produced an issue.
type Rule string

const (
	RuleMissing Rule = "tag-missing"
	RuleExtra   Rule = "tag-extra"
	RuleOrder   Rule = "tag-order"
)

// Severity of an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// FixKind is the repair a suggestion performs.
type FixKind string

const (
	FixInsert  FixKind = "insert"
	FixDelete  FixKind = "delete"
	FixReorder FixKind = "reorder"
)

var fixKinds = map[Rule]FixKind{
	RuleMissing: FixInsert,
	RuleExtra:   FixDelete,
	RuleOrder:   FixReorder,
}

// Hint pairs an extra marker with the missing marker it most resembles.
type Hint struct {
	Marker  string `json:"marker" yaml:"marker"`
	Closest string `json:"closest" yaml:"closest"`
}

// Issue is one finding about a target.
type Issue struct {
	Rule     Rule     `json:"rule" yaml:"rule"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	Markers  []string `json:"markers,omitempty" yaml:"markers,omitempty"`
	Hints    []Hint   `json:"hints,omitempty" yaml:"hints,omitempty"`
	// Detail is a marker-per-line diff of source against target order.
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Suggestion is a machine-applicable repair for one issue.
type Suggestion struct {
	Rule        Rule     `json:"rule" yaml:"rule"`
	Kind        FixKind  `json:"kind" yaml:"kind"`
	Description string   `json:"description" yaml:"description"`
	Markers     []string `json:"markers,omitempty" yaml:"markers,omitempty"`
}

// Report is the result of Validate.
type Report struct {
	Issues      []Issue      `json:"issues" yaml:"issues"`
	Suggestions []Suggestion `json:"suggestions" yaml:"suggestions"`
}

// OK reports whether no issue was found.
func (r Report) OK() bool { return len(r.Issues) == 0 }

// HasErrors reports whether any issue has error severity.
func (r Report) HasErrors() bool {
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks that target carries the markers of source. Missing and
// extra markers are errors; a reordering is only reported when neither
// fired, as a warning.
func Validate(source, target token.Sequence) Report {
	var report Report

	srcMarkers := source.MarkerContents()
	tgtMarkers := target.MarkerContents()
	inSource := contentSet(srcMarkers)
	inTarget := contentSet(tgtMarkers)

	var missing, extra []string
	for _, c := range srcMarkers {
		if !inTarget[c] {
			missing = append(missing, c)
		}
	}
	for _, c := range tgtMarkers {
		if !inSource[c] {
			extra = append(extra, c)
		}
	}

	if len(missing) > 0 {
		report.Issues = append(report.Issues, Issue{
			Rule:     RuleMissing,
			Severity: SeverityError,
			Message:  fmt.Sprintf("Missing %d tag(s): %s", len(missing), strings.Join(missing, ", ")),
			Markers:  missing,
		})
		report.Suggestions = append(report.Suggestions, Suggestion{
			Rule:        RuleMissing,
			Kind:        FixInsert,
			Description: "Append missing tags at the end of the target",
			Markers:     missing,
		})
	}

	if len(extra) > 0 {
		report.Issues = append(report.Issues, Issue{
			Rule:     RuleExtra,
			Severity: SeverityError,
			Message:  fmt.Sprintf("Found %d tag(s) not in source: %s", len(extra), strings.Join(extra, ", ")),
			Markers:  extra,
			Hints:    closestHints(extra, missing),
		})
		report.Suggestions = append(report.Suggestions, Suggestion{
			Rule:        RuleExtra,
			Kind:        FixDelete,
			Description: "Remove tags that do not appear in the source",
			Markers:     extra,
		})
	}

	if len(missing) == 0 && len(extra) == 0 && !slices.Equal(srcMarkers, tgtMarkers) {
		report.Issues = append(report.Issues, Issue{
			Rule:     RuleOrder,
			Severity: SeverityWarning,
			Message:  "Tags are present but in a different order than the source",
			Markers:  tgtMarkers,
			Detail:   orderDiff(srcMarkers, tgtMarkers),
		})
		report.Suggestions = append(report.Suggestions, Suggestion{
			Rule:        RuleOrder,
			Kind:        FixReorder,
			Description: "Reorder tags to match the source (not implemented)",
			Markers:     srcMarkers,
		})
	}

	return report
}

// GenerateAutoFix re-validates and returns the suggestion that repairs
// issue, or nil for an unknown rule.
func GenerateAutoFix(issue Issue, source, target token.Sequence) *Suggestion {
	kind, ok := fixKinds[issue.Rule]
	if !ok {
		return nil
	}
	for _, s := range Validate(source, target).Suggestions {
		if s.Kind == kind {
			return &s
		}
	}
	return nil
}

// Implemented reports whether Apply changes anything. Reordering has no
// algorithm yet: restoring source order must keep the interleaved text
// and there is no rule for where each tag goes back.
func (s Suggestion) Implemented() bool {
	return s.Kind != FixReorder
}

// Apply returns a repaired copy of target.
func (s Suggestion) Apply(target token.Sequence) token.Sequence {
	switch s.Kind {
	case FixInsert:
		out := target.Clone()
		for _, c := range s.Markers {
			out = append(out, token.NewMarker(c))
		}
		return out
	case FixDelete:
		drop := contentSet(s.Markers)
		out := make(token.Sequence, 0, len(target))
		for _, t := range target {
			if t.IsMarker() && drop[t.Content] {
				continue
			}
			out = append(out, t)
		}
		return out
	default:
		return target.Clone()
	}
}

// Annotate returns a copy of target with pairing metadata and a UI
// validation state on every marker: error for markers the source lacks,
// warning for paired tags without a partner, valid otherwise.
func Annotate(source, target token.Sequence) token.Sequence {
	inSource := contentSet(source.MarkerContents())
	out := codec.Annotate(target)
	for i, t := range out {
		if !t.IsMarker() {
			continue
		}
		md := t.Meta()
		switch {
		case !inSource[t.Content]:
			md.Validation = token.ValidationError
		case md.TagType != token.TagStandalone && !md.HasPartner:
			md.Validation = token.ValidationWarning
		default:
			md.Validation = token.ValidationValid
		}
		out[i] = t.WithMetadata(md)
	}
	return out
}

func contentSet(contents []string) map[string]bool {
	set := make(map[string]bool, len(contents))
	for _, c := range contents {
		set[c] = true
	}
	return set
}

func closestHints(extra, missing []string) []Hint {
	if len(missing) == 0 {
		return nil
	}
	var hints []Hint
	for _, e := range extra {
		ranks := fuzzy.RankFindFold(e, missing)
		if len(ranks) == 0 {
			continue
		}
		sort.Sort(ranks)
		hints = append(hints, Hint{Marker: e, Closest: ranks[0].Target})
	}
	return hints
}

// orderDiff renders a line diff with one marker per line, prefixed with
// "-" for source-only and "+" for target-only positions.
func orderDiff(source, target []string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(joinLines(source), joinLines(target))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func joinLines(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, "\n") + "\n"
}

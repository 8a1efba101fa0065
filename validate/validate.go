// Package validate runs the structural and semantic checks of §7 over a
// loaded net that go beyond what petri's constructors already reject at
// construction time. Grounded on validation/checks.go's
// AddError/AddWarning accumulator style.
package validate

import (
	"fmt"

	"github.com/simao-eugenio/shypn-sub005/behavior"
	"github.com/simao-eugenio/shypn-sub005/petri"
)

// Report accumulates findings from a single Validate call. Errors mean
// the net cannot be simulated; Warnings describe a net that will run but
// likely does not do what its author intended.
type Report struct {
	Errors   []string
	Warnings []string
}

// AddError appends a formatted structural/semantic error.
func (r *Report) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// AddWarning appends a formatted non-fatal finding.
func (r *Report) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// OK reports whether the report has no errors. Warnings do not affect OK.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

// Validate checks net for the semantic issues construction-time
// validation in petri cannot catch on its own: dead transitions (no
// preset and no postset, and not explicitly marked a source/sink), and
// continuous transitions whose rate_expr fails to compile.
func Validate(net *petri.Net) Report {
	var report Report

	for _, t := range net.Transitions() {
		loc := net.LocalityOf(t)
		hasPreset := len(loc.Preset) > 0
		hasPostset := len(loc.Postset) > 0

		if !hasPreset && !hasPostset && !t.IsSource && !t.IsSink {
			report.AddWarning("transition %q (%s) has no input and no output arcs and will never fire", t.ID, petri.EscapeLabel(t.Label))
		}

		if t.Kind == petri.Continuous {
			if _, err := behavior.New(t); err != nil {
				report.AddError("transition %q (%s): %v", t.ID, petri.EscapeLabel(t.Label), err)
			}
		}
	}

	for _, p := range net.Places() {
		if p.Tokens < 0 {
			report.AddError("place %q (%s) has a negative token count %d", p.ID, petri.EscapeLabel(p.Label), p.Tokens)
		}
		if p.InitialMarking < 0 {
			report.AddError("place %q (%s) has a negative initial_marking %d", p.ID, petri.EscapeLabel(p.Label), p.InitialMarking)
		}
	}

	return report
}

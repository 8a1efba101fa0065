// Package petri implements the data model of a hybrid discrete/continuous
// Petri net: places, transitions, and the arcs connecting them. The package
// owns structural invariants only — firing semantics live in behavior,
// scheduling in schedule, and the commit pipeline in stepexec.
package petri

import "strings"

// TransitionKind selects one of the four firing semantics a transition
// can carry.
type TransitionKind string

const (
	Immediate  TransitionKind = "immediate"
	Timed      TransitionKind = "timed"
	Stochastic TransitionKind = "stochastic"
	Continuous TransitionKind = "continuous"
)

// FiringPolicy resolves competition among transitions within a selected
// maximal concurrent set.
type FiringPolicy string

const (
	PolicyEarliest           FiringPolicy = "earliest"
	PolicyLatest             FiringPolicy = "latest"
	PolicyPriority           FiringPolicy = "priority"
	PolicyRace               FiringPolicy = "race"
	PolicyAge                FiringPolicy = "age"
	PolicyRandom             FiringPolicy = "random"
	PolicyPreemptivePriority FiringPolicy = "preemptive-priority"
)

// ArcKind distinguishes a normal (consuming) arc from the two read-only
// variants.
type ArcKind string

const (
	ArcNormal    ArcKind = "normal"
	ArcInhibitor ArcKind = "inhibitor"
	ArcTest      ArcKind = "test"
)

// Node is implemented by both Place and Transition so an Arc can hold a
// direct reference to either endpoint without a type switch at every call
// site.
type Node interface {
	NodeID() string
}

// Place holds a non-negative integer token count representing a discrete
// molecule count or a scaled concentration.
type Place struct {
	ID             string
	Label          string
	Tokens         int
	InitialMarking int
	Metadata       map[string]any
}

// NewPlace creates a place with its initial marking also set as its
// current token count.
func NewPlace(id, label string, initial int) *Place {
	return &Place{ID: id, Label: label, Tokens: initial, InitialMarking: initial}
}

// NodeID implements Node.
func (p *Place) NodeID() string { return p.ID }

// TimedParams parameterizes a Timed transition: it becomes eligible at
// enablement+Earliest and stays eligible after enablement+Latest has
// passed; Latest may be +Inf.
type TimedParams struct {
	Earliest float64
	Latest   float64
}

// StochasticParams parameterizes a Stochastic transition: delay is drawn
// from Exp(Rate); MaxBurst (0 = unbounded) caps tokens moved per firing.
type StochasticParams struct {
	Rate     float64
	MaxBurst int
}

// ContinuousParams parameterizes a Continuous transition: flow follows
// RateExpr (a constant or a rate.Program source), clamped to [MinRate,
// MaxRate].
type ContinuousParams struct {
	RateExpr string
	MinRate  float64
	MaxRate  float64
}

// Transition is an event. Exactly one of Timed/Stochastic/Continuous is
// meaningful, selected by Kind.
type Transition struct {
	ID           string
	Label        string
	Kind         TransitionKind
	Priority     int
	FiringPolicy FiringPolicy
	IsSource     bool
	IsSink       bool

	Timed      TimedParams
	Stochastic StochasticParams
	Continuous ContinuousParams
}

// NewTransition creates a transition of the given kind with default
// (earliest) firing policy.
func NewTransition(id, label string, kind TransitionKind) *Transition {
	return &Transition{ID: id, Label: label, Kind: kind, FiringPolicy: PolicyEarliest}
}

// NodeID implements Node.
func (t *Transition) NodeID() string { return t.ID }

// Geometry is rendering-only metadata; the kernel never reads it.
type Geometry struct {
	Curved         bool
	ControlOffsetX float64
	ControlOffsetY float64
}

// Arc connects one Place and one Transition — never two places or two
// transitions — in a fixed direction (Source -> Target).
type Arc struct {
	ID     string
	Source Node
	Target Node
	Weight int
	Kind   ArcKind
	Geom   Geometry
}

// SourceID returns the id of the arc's source node, for serialization and
// logging; the kernel itself always follows Source directly.
func (a *Arc) SourceID() string { return a.Source.NodeID() }

// TargetID returns the id of the arc's target node.
func (a *Arc) TargetID() string { return a.Target.NodeID() }

// PlaceEnd returns the Place endpoint of the arc and whether the arc is an
// input arc (place -> transition) as opposed to an output arc
// (transition -> place).
func (a *Arc) PlaceEnd() (place *Place, isInput bool) {
	if p, ok := a.Source.(*Place); ok {
		return p, true
	}
	return a.Target.(*Place), false
}

// TransitionEnd returns the Transition endpoint of the arc.
func (a *Arc) TransitionEnd() *Transition {
	if t, ok := a.Source.(*Transition); ok {
		return t
	}
	return a.Target.(*Transition)
}

func validateArcEndpoints(source, target Node) error {
	_, sp := source.(*Place)
	_, st := source.(*Transition)
	_, tp := target.(*Place)
	_, tt := target.(*Transition)
	if sp == st || tp == tt {
		return ErrBadEndpoints
	}
	if sp && tp {
		return ErrBadEndpoints
	}
	if st && tt {
		return ErrBadEndpoints
	}
	return nil
}

// EscapeLabel performs minimal escaping for a place/transition Label
// embedded in a generated diagnostic (validate's report strings, log
// messages): labels are free text and may carry markup-sensitive
// characters that would otherwise corrupt a downstream HTML or terminal
// rendering of the message.
func EscapeLabel(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// Package modelio loads and saves a petri.Net as JSON, matching the
// host-facing persistence schema: flat sequences of places, transitions,
// and arcs addressed by string id, plus a semver schema_version field.
// It also offers a compact binary form of a marking snapshot for
// checkpointing a running simulation. Grounded on parser/json.go's
// per-field extraction and missing-endpoint error style, adapted from a
// colored-token map schema to this module's stoichiometric one.
package modelio

import (
	"encoding/json"
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"

	"github.com/simao-eugenio/shypn-sub005/petri"
)

// CurrentSchemaVersion is written by Save and accepted (among others) by
// Load.
const CurrentSchemaVersion = "1.0.0"

type document struct {
	SchemaVersion string          `json:"schema_version"`
	ID            string          `json:"id"`
	Label         string          `json:"label"`
	Places        []docPlace      `json:"places"`
	Transitions   []docTransition `json:"transitions"`
	Arcs          []docArc        `json:"arcs"`
}

type docPlace struct {
	ID             string         `json:"id"`
	Label          string         `json:"label"`
	X              float64        `json:"x"`
	Y              float64        `json:"y"`
	Tokens         int            `json:"tokens"`
	InitialMarking int            `json:"initial_marking"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

type docTransition struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Kind         string   `json:"kind"`
	Priority     int      `json:"priority"`
	FiringPolicy string   `json:"firing_policy,omitempty"`
	IsSource     bool     `json:"is_source,omitempty"`
	IsSink       bool     `json:"is_sink,omitempty"`
	Earliest     *float64 `json:"earliest,omitempty"`
	Latest       *float64 `json:"latest,omitempty"`
	Rate         *float64 `json:"rate,omitempty"`
	RateFunction *string  `json:"rate_function,omitempty"`
	MaxBurst     *int     `json:"max_burst,omitempty"`
	MinRate      *float64 `json:"min_rate,omitempty"`
	MaxRate      *float64 `json:"max_rate,omitempty"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Width        float64  `json:"width,omitempty"`
	Height       float64  `json:"height,omitempty"`
	Horizontal   bool     `json:"horizontal,omitempty"`
}

type docArc struct {
	ID             string  `json:"id"`
	SourceID       string  `json:"source_id"`
	TargetID       string  `json:"target_id"`
	Weight         int     `json:"weight"`
	Kind           string  `json:"kind"`
	IsCurved       bool    `json:"is_curved,omitempty"`
	ControlOffsetX float64 `json:"control_offset_x,omitempty"`
	ControlOffsetY float64 `json:"control_offset_y,omitempty"`
}

// Load parses a serialized model. A missing arc endpoint returns
// ErrUnresolvedEndpoint naming the arc id and the unresolved id.
func Load(data []byte) (*petri.Net, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("modelio: invalid JSON: %w", err)
	}
	if doc.SchemaVersion != "" {
		if _, err := semver.Parse(doc.SchemaVersion); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchemaVersion, doc.SchemaVersion, err)
		}
	}

	net := petri.NewNet(doc.ID, doc.Label)

	for _, dp := range doc.Places {
		p := &petri.Place{
			ID:             dp.ID,
			Label:          dp.Label,
			Tokens:         dp.Tokens,
			InitialMarking: dp.InitialMarking,
			Metadata:       dp.Metadata,
		}
		if _, err := net.AddPlace(p); err != nil {
			return nil, fmt.Errorf("modelio: place %q: %w", dp.ID, err)
		}
	}

	for _, dt := range doc.Transitions {
		t := &petri.Transition{
			ID:           dt.ID,
			Label:        dt.Label,
			Kind:         petri.TransitionKind(dt.Kind),
			Priority:     dt.Priority,
			FiringPolicy: firingPolicyOrDefault(dt.FiringPolicy),
			IsSource:     dt.IsSource,
			IsSink:       dt.IsSink,
		}
		if dt.Earliest != nil {
			t.Timed.Earliest = *dt.Earliest
		}
		if dt.Latest != nil {
			t.Timed.Latest = *dt.Latest
		}
		if dt.Rate != nil {
			t.Stochastic.Rate = *dt.Rate
		}
		if dt.MaxBurst != nil {
			t.Stochastic.MaxBurst = *dt.MaxBurst
		}
		if dt.RateFunction != nil {
			t.Continuous.RateExpr = *dt.RateFunction
		}
		if dt.MinRate != nil {
			t.Continuous.MinRate = *dt.MinRate
		}
		if dt.MaxRate != nil {
			t.Continuous.MaxRate = *dt.MaxRate
		}
		if _, err := net.AddTransition(t); err != nil {
			return nil, fmt.Errorf("modelio: transition %q: %w", dt.ID, err)
		}
	}

	for _, da := range doc.Arcs {
		source, err := resolveEndpoint(net, da.ID, da.SourceID)
		if err != nil {
			return nil, err
		}
		target, err := resolveEndpoint(net, da.ID, da.TargetID)
		if err != nil {
			return nil, err
		}
		weight := da.Weight
		if weight == 0 {
			weight = 1
		}
		kind := petri.ArcKind(da.Kind)
		if kind == "" {
			kind = petri.ArcNormal
		}
		a, err := net.AddArc(da.ID, source, target, weight, kind)
		if err != nil {
			return nil, fmt.Errorf("modelio: arc %q: %w", da.ID, err)
		}
		a.Geom = petri.Geometry{
			Curved:         da.IsCurved,
			ControlOffsetX: da.ControlOffsetX,
			ControlOffsetY: da.ControlOffsetY,
		}
	}

	return net, nil
}

func firingPolicyOrDefault(s string) petri.FiringPolicy {
	if s == "" {
		return petri.PolicyEarliest
	}
	return petri.FiringPolicy(s)
}

func resolveEndpoint(net *petri.Net, arcID, id string) (petri.Node, error) {
	p, isPlace := net.Place(id)
	t, isTransition := net.Transition(id)
	switch {
	case isPlace && isTransition:
		return nil, fmt.Errorf("%w: arc %q: id %q", ErrAmbiguousEndpoint, arcID, id)
	case isPlace:
		return p, nil
	case isTransition:
		return t, nil
	default:
		return nil, fmt.Errorf("%w: arc %q: id %q", ErrUnresolvedEndpoint, arcID, id)
	}
}

// Save serializes net into the persistence schema, stamping
// CurrentSchemaVersion. Ids are written verbatim; no numeric coercion is
// ever applied to id strings.
func Save(net *petri.Net) ([]byte, error) {
	doc := document{
		SchemaVersion: CurrentSchemaVersion,
		ID:            net.ID,
		Label:         net.Label,
	}
	for _, p := range net.Places() {
		doc.Places = append(doc.Places, docPlace{
			ID: p.ID, Label: p.Label, Tokens: p.Tokens,
			InitialMarking: p.InitialMarking, Metadata: p.Metadata,
		})
	}
	for _, t := range net.Transitions() {
		dt := docTransition{
			ID: t.ID, Label: t.Label, Kind: string(t.Kind),
			Priority: t.Priority, FiringPolicy: string(t.FiringPolicy),
			IsSource: t.IsSource, IsSink: t.IsSink,
		}
		switch t.Kind {
		case petri.Timed:
			dt.Earliest, dt.Latest = &t.Timed.Earliest, &t.Timed.Latest
		case petri.Stochastic:
			dt.Rate, dt.MaxBurst = &t.Stochastic.Rate, &t.Stochastic.MaxBurst
		case petri.Continuous:
			dt.RateFunction = &t.Continuous.RateExpr
			dt.MinRate, dt.MaxRate = &t.Continuous.MinRate, &t.Continuous.MaxRate
		}
		doc.Transitions = append(doc.Transitions, dt)
	}
	for _, a := range net.Arcs() {
		doc.Arcs = append(doc.Arcs, docArc{
			ID: a.ID, SourceID: a.SourceID(), TargetID: a.TargetID(),
			Weight: a.Weight, Kind: string(a.Kind),
			IsCurved:       a.Geom.Curved,
			ControlOffsetX: a.Geom.ControlOffsetX,
			ControlOffsetY: a.Geom.ControlOffsetY,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// SaveSnapshot encodes a marking as CBOR, for compact checkpointing of a
// running simulation's state independent of the model structure.
func SaveSnapshot(m petri.Marking) ([]byte, error) {
	return cbor.Marshal(m)
}

// LoadSnapshot decodes a CBOR-encoded marking produced by SaveSnapshot.
func LoadSnapshot(data []byte) (petri.Marking, error) {
	var m petri.Marking
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("modelio: invalid snapshot: %w", err)
	}
	return m, nil
}

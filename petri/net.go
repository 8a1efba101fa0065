package petri

import "fmt"

// Net is the full structural model: a set of places, a set of
// transitions, and the arcs connecting them. Net owns identity — every
// other package addresses places and transitions through the *Place and
// *Transition pointers a Net hands out, never by re-looking-up an id.
type Net struct {
	ID    string
	Label string

	places      map[string]*Place
	transitions map[string]*Transition
	arcs        map[string]*Arc

	Observable
}

// NewNet creates an empty net.
func NewNet(id, label string) *Net {
	return &Net{
		ID:          id,
		Label:       label,
		places:      make(map[string]*Place),
		transitions: make(map[string]*Transition),
		arcs:        make(map[string]*Arc),
	}
}

// Place looks up a place by id.
func (n *Net) Place(id string) (*Place, bool) {
	p, ok := n.places[id]
	return p, ok
}

// Transition looks up a transition by id.
func (n *Net) Transition(id string) (*Transition, bool) {
	t, ok := n.transitions[id]
	return t, ok
}

// Arc looks up an arc by id.
func (n *Net) Arc(id string) (*Arc, bool) {
	a, ok := n.arcs[id]
	return a, ok
}

// Places returns every place in the net in no particular order.
func (n *Net) Places() []*Place {
	out := make([]*Place, 0, len(n.places))
	for _, p := range n.places {
		out = append(out, p)
	}
	return out
}

// Transitions returns every transition in the net in no particular order.
func (n *Net) Transitions() []*Transition {
	out := make([]*Transition, 0, len(n.transitions))
	for _, t := range n.transitions {
		out = append(out, t)
	}
	return out
}

// Arcs returns every arc in the net in no particular order.
func (n *Net) Arcs() []*Arc {
	out := make([]*Arc, 0, len(n.arcs))
	for _, a := range n.arcs {
		out = append(out, a)
	}
	return out
}

// AddPlace inserts p into the net. p.ID must be non-empty and unused.
func (n *Net) AddPlace(p *Place) (*Place, error) {
	if p.ID == "" {
		return nil, ErrEmptyID
	}
	if _, exists := n.places[p.ID]; exists {
		return nil, fmt.Errorf("%w: place %q", ErrDuplicateID, p.ID)
	}
	n.places[p.ID] = p
	n.notify(Event{Kind: EventPlaceAdded, ID: p.ID})
	return p, nil
}

// AddTransition inserts t into the net. t.ID must be non-empty and unused.
func (n *Net) AddTransition(t *Transition) (*Transition, error) {
	if t.ID == "" {
		return nil, ErrEmptyID
	}
	if _, exists := n.transitions[t.ID]; exists {
		return nil, fmt.Errorf("%w: transition %q", ErrDuplicateID, t.ID)
	}
	if err := validateTransitionParams(t); err != nil {
		return nil, err
	}
	n.transitions[t.ID] = t
	n.notify(Event{Kind: EventTransitionAdded, ID: t.ID})
	return t, nil
}

func validateTransitionParams(t *Transition) error {
	switch t.Kind {
	case Timed:
		if t.Timed.Earliest < 0 || t.Timed.Latest < t.Timed.Earliest {
			return fmt.Errorf("%w: transition %q", ErrInvalidTimedWindow, t.ID)
		}
	case Stochastic:
		if t.Stochastic.Rate <= 0 {
			return fmt.Errorf("%w: transition %q", ErrInvalidRate, t.ID)
		}
	case Continuous:
		if t.Continuous.MaxRate < t.Continuous.MinRate || t.Continuous.MinRate < 0 {
			return fmt.Errorf("%w: transition %q", ErrInvalidRateBounds, t.ID)
		}
	}
	return nil
}

// AddArc inserts an arc between a Place and a Transition (in either
// direction) with the given weight and kind. Arc weight must be >= 1;
// inhibitor and test arcs must run place -> transition since they only
// ever gate, never produce.
func (n *Net) AddArc(id string, source, target Node, weight int, kind ArcKind) (*Arc, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if _, exists := n.arcs[id]; exists {
		return nil, fmt.Errorf("%w: arc %q", ErrDuplicateID, id)
	}
	if err := validateArcEndpoints(source, target); err != nil {
		return nil, err
	}
	if weight < 1 {
		return nil, fmt.Errorf("%w: arc %q", ErrNegativeWeight, id)
	}
	if kind != ArcNormal {
		if _, sourceIsPlace := source.(*Place); !sourceIsPlace {
			return nil, fmt.Errorf("%w: arc %q: %s arcs must run place to transition", ErrBadEndpoints, id, kind)
		}
	}
	if _, ok := n.places[source.NodeID()]; !ok {
		if _, ok := n.places[target.NodeID()]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPlace, source.NodeID()+"/"+target.NodeID())
		}
	}
	a := &Arc{ID: id, Source: source, Target: target, Weight: weight, Kind: kind}
	n.arcs[id] = a
	n.notify(Event{Kind: EventArcAdded, ID: id})
	return a, nil
}

// DeletePlace removes a place and every arc touching it.
func (n *Net) DeletePlace(id string) error {
	if _, ok := n.places[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlace, id)
	}
	for arcID, a := range n.arcs {
		if a.SourceID() == id || a.TargetID() == id {
			delete(n.arcs, arcID)
			n.notify(Event{Kind: EventArcRemoved, ID: arcID})
		}
	}
	delete(n.places, id)
	n.notify(Event{Kind: EventPlaceRemoved, ID: id})
	return nil
}

// DeleteTransition removes a transition and every arc touching it.
func (n *Net) DeleteTransition(id string) error {
	if _, ok := n.transitions[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTransition, id)
	}
	for arcID, a := range n.arcs {
		if a.SourceID() == id || a.TargetID() == id {
			delete(n.arcs, arcID)
			n.notify(Event{Kind: EventArcRemoved, ID: arcID})
		}
	}
	delete(n.transitions, id)
	n.notify(Event{Kind: EventTransitionRemoved, ID: id})
	return nil
}

// Locality is the set of arcs touching a transition, partitioned by role.
// Preset/Postset hold normal consuming/producing arcs; Regulatory holds
// inhibitor and test arcs, which gate firing without being consumed.
type Locality struct {
	Preset     []*Arc // normal place -> transition
	Postset    []*Arc // normal transition -> place
	Regulatory []*Arc // inhibitor/test place -> transition
}

// LocalityOf computes the locality of t by scanning every arc in the net.
// Results are not cached here; adapter.Adapter wraps this with a
// cache invalidated on structural Observable events.
func (n *Net) LocalityOf(t *Transition) Locality {
	var loc Locality
	for _, a := range n.arcs {
		if a.TransitionEnd() != t {
			continue
		}
		switch {
		case a.Kind != ArcNormal:
			loc.Regulatory = append(loc.Regulatory, a)
		case a.Source == Node(t):
			loc.Postset = append(loc.Postset, a)
		default:
			loc.Preset = append(loc.Preset, a)
		}
	}
	return loc
}

// Package adapter caches the structural lookups schedule and conflict
// repeatedly need (a transition's preset/postset/regulatory arcs) so
// every step does not re-scan the whole arc set. The cache is
// invalidated on any structural petri.Net event, mirroring the
// teacher's RWMutex-guarded map cache.
package adapter

import "github.com/simao-eugenio/shypn-sub005/petri"

// Adapter wraps a *petri.Net with a cache keyed by transition id.
type Adapter struct {
	net *petri.Net
	now func() float64

	cache map[string]petri.Locality
	unsub func()
}

// New creates an Adapter over net. now supplies the controller's current
// logical time via a read-only closure; the adapter never reaches into
// the controller's own state directly.
func New(net *petri.Net, now func() float64) *Adapter {
	a := &Adapter{
		net:   net,
		now:   now,
		cache: make(map[string]petri.Locality),
	}
	a.unsub = net.Subscribe(func(petri.Event) { a.Invalidate() })
	return a
}

// Close unsubscribes the adapter from its net's structural events.
func (a *Adapter) Close() {
	if a.unsub != nil {
		a.unsub()
	}
}

// Net returns the underlying net.
func (a *Adapter) Net() *petri.Net { return a.net }

// Locality returns the (cached) locality of t, computing and storing it
// on first request after construction or the last Invalidate.
func (a *Adapter) Locality(t *petri.Transition) petri.Locality {
	if loc, ok := a.cache[t.ID]; ok {
		return loc
	}
	loc := a.net.LocalityOf(t)
	a.cache[t.ID] = loc
	return loc
}

// Invalidate clears every cached locality. Called on any
// created/deleted/transformed structural event.
func (a *Adapter) Invalidate() {
	a.cache = make(map[string]petri.Locality)
}

// LogicalTime returns the controller's current simulation time.
func (a *Adapter) LogicalTime() float64 {
	if a.now == nil {
		return 0
	}
	return a.now()
}

// TokensOf returns the live token count of a place, or 0 if the place no
// longer exists.
func (a *Adapter) TokensOf(placeID string) int {
	if p, ok := a.net.Place(placeID); ok {
		return p.Tokens
	}
	return 0
}

// StructurallyEnabled reports whether every arc in t's locality is
// currently satisfied: each normal and test input arc has enough tokens
// on its place for the arc weight, and each inhibitor arc's place holds
// fewer tokens than its weight. A transition marked as a source also
// needs at least one output arc. This check is kind-agnostic; the
// behavior package layers kind-specific timing gates on top of it.
func (a *Adapter) StructurallyEnabled(t *petri.Transition) bool {
	loc := a.Locality(t)
	if t.IsSource && len(loc.Postset) == 0 {
		return false
	}
	for _, arc := range loc.Preset {
		place, _ := arc.PlaceEnd()
		if place.Tokens < arc.Weight {
			return false
		}
	}
	for _, arc := range loc.Regulatory {
		place, _ := arc.PlaceEnd()
		switch arc.Kind {
		case petri.ArcTest:
			if place.Tokens < arc.Weight {
				return false
			}
		case petri.ArcInhibitor:
			if place.Tokens >= arc.Weight {
				return false
			}
		}
	}
	return true
}

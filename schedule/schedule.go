// Package schedule owns the enablement/timing bookkeeping for every
// transition in a net: when it most recently became enabled, and (for
// stochastic transitions) when its next firing is due. The kernel calls
// Tracker.Update once per step before conflict detection partitions the
// enabled set.
package schedule

import (
	"math/rand"
	"sort"

	"github.com/simao-eugenio/shypn-sub005/adapter"
	"github.com/simao-eugenio/shypn-sub005/behavior"
	"github.com/simao-eugenio/shypn-sub005/petri"
)

// Tracker holds the TransitionState for every transition a controller
// knows about. The TransitionState type itself is defined in behavior
// (CanFire takes one as a parameter); Tracker owns its lifecycle.
type Tracker struct {
	states map[string]*behavior.TransitionState
	rng    *rand.Rand
}

// New creates a Tracker. rng must be owned by the caller (normally
// kernel.Controller) and never be math/rand's package-level source, so
// stochastic runs are reproducible from a seed.
func New(rng *rand.Rand) *Tracker {
	return &Tracker{states: make(map[string]*behavior.TransitionState), rng: rng}
}

func (tr *Tracker) stateFor(id string) *behavior.TransitionState {
	s, ok := tr.states[id]
	if !ok {
		s = &behavior.TransitionState{}
		tr.states[id] = s
	}
	return s
}

// State returns a copy of the current TransitionState for id.
func (tr *Tracker) State(id string) behavior.TransitionState {
	return *tr.stateFor(id)
}

// Forget drops the tracked state for a transition that no longer exists,
// called from the kernel's structural-change listener.
func (tr *Tracker) Forget(id string) {
	delete(tr.states, id)
}

// EnablementTime returns the time id most recently became structurally
// enabled, and whether it is currently tracked as enabled at all. It
// satisfies conflict.EnablementTime, resolving the age and race firing
// policies' earliest-enabled-first ordering.
func (tr *Tracker) EnablementTime(id string) (float64, bool) {
	s, ok := tr.states[id]
	if !ok || s.EnablementTime == nil {
		return 0, false
	}
	return *s.EnablementTime, true
}

// Update recomputes EnablementTime/ScheduledTime for every transition in
// behaviors against the current marking. A transition that transitions
// from disabled to enabled records now as its enablement time and, if
// Stochastic, draws a fresh exponential delay. A transition that becomes
// disabled forgets both timestamps — re-enabling later starts the clock
// over, per the standard enabling-memory-less semantics of stochastic
// and timed transitions in this kernel.
func (tr *Tracker) Update(now float64, ad *adapter.Adapter, behaviors map[string]*behavior.Behavior) {
	for id, b := range behaviors {
		state := tr.stateFor(id)
		enabled := ad.StructurallyEnabled(b.Transition)
		wasEnabled := state.EnablementTime != nil

		switch {
		case enabled && !wasEnabled:
			state.SetEnablement(now)
			if b.Transition.Kind == petri.Stochastic {
				scheduled := now + b.SampleDelay(tr.rng)
				state.ScheduledTime = &scheduled
			}
		case !enabled && wasEnabled:
			state.Clear()
		}
	}
}

// Enabled partitions the behaviors currently eligible to act into
// discrete (immediate/timed/stochastic, ready to attempt a commit this
// step) and continuous (ready to contribute flow to the RK4 integrator)
// sets. The returned slices are sorted by transition id for determinism.
func (tr *Tracker) Enabled(now float64, ad *adapter.Adapter, behaviors map[string]*behavior.Behavior) (discrete, continuous []*petri.Transition) {
	for id, b := range behaviors {
		se := ad.StructurallyEnabled(b.Transition)
		state := tr.stateFor(id)
		if !b.CanFire(now, *state, se) {
			continue
		}
		if b.IsDiscrete() {
			discrete = append(discrete, b.Transition)
		} else {
			continuous = append(continuous, b.Transition)
		}
	}
	sortByID(discrete)
	sortByID(continuous)
	return discrete, continuous
}

func sortByID(ts []*petri.Transition) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].ID < ts[j].ID })
}

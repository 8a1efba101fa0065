// Package behavior implements the four transition firing semantics as a
// tagged union rather than an interface hierarchy, per the kernel's
// design preference for flat dispatch over inheritance chains. Token
// movement itself is uniform across kinds and lives in stepexec; a
// Behavior only answers "can this fire (or flow) right now" and, for
// Stochastic, how to schedule the next attempt.
package behavior

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/simao-eugenio/shypn-sub005/petri"
	"github.com/simao-eugenio/shypn-sub005/rate"
)

// TransitionState tracks the timing bookkeeping a Behavior needs to
// answer CanFire. Its lifecycle (creation on enablement, clearing on
// disablement) is owned by schedule.Tracker; Behavior only reads and
// writes the fields it is handed.
type TransitionState struct {
	EnablementTime *float64
	ScheduledTime  *float64
}

// SetEnablement records the time a transition most recently became
// enabled, clearing any previously scheduled firing time.
func (s *TransitionState) SetEnablement(now float64) {
	t := now
	s.EnablementTime = &t
	s.ScheduledTime = nil
}

// Clear forgets both timestamps, as happens when a transition becomes
// disabled.
func (s *TransitionState) Clear() {
	s.EnablementTime = nil
	s.ScheduledTime = nil
}

// Behavior wraps a *petri.Transition with the compiled state its kind
// needs: a continuous transition carries a compiled rate.Program, the
// other three kinds carry nothing beyond the transition's own params.
type Behavior struct {
	Transition *petri.Transition
	Program    *rate.Program // non-nil only when Transition.Kind == petri.Continuous
}

// New compiles any rate expression the transition needs and returns a
// ready-to-use Behavior.
func New(t *petri.Transition) (*Behavior, error) {
	b := &Behavior{Transition: t}
	if t.Kind == petri.Continuous {
		prog, err := rate.Compile(t.Continuous.RateExpr)
		if err != nil {
			return nil, fmt.Errorf("behavior: transition %q: %w", t.ID, err)
		}
		b.Program = prog
	}
	return b, nil
}

// CanFire answers the kind-specific timing gate on top of structural
// enablement (which adapter/schedule already established before calling
// this). structurallyEnabled must already account for arc weights,
// inhibitor and test arcs.
func (b *Behavior) CanFire(now float64, state TransitionState, structurallyEnabled bool) bool {
	if !structurallyEnabled {
		return false
	}
	switch b.Transition.Kind {
	case petri.Immediate:
		return true
	case petri.Timed:
		if state.EnablementTime == nil {
			return false
		}
		return now >= *state.EnablementTime+b.Transition.Timed.Earliest
	case petri.Stochastic:
		return state.ScheduledTime != nil && now >= *state.ScheduledTime
	case petri.Continuous:
		// Continuous transitions never discretely fire; they flow under
		// integrate.RK4Step instead. CanFire here only tells the
		// scheduler this transition belongs in the continuous set C.
		return true
	}
	return false
}

// SampleDelay draws a stochastic firing delay from Exp(rate) using the
// supplied random source. rng must never be the math/rand package-level
// generator — the kernel owns one *rand.Rand per run so simulations are
// reproducible from a seed.
func (b *Behavior) SampleDelay(rng *rand.Rand) float64 {
	u := rng.Float64()
	for u <= 0 {
		u = rng.Float64()
	}
	return -math.Log(u) / b.Transition.Stochastic.Rate
}

// BurstCount draws how many Exp(rate) arrivals fall within one step of
// length dt, simulating the firings that a continuous-time stochastic
// process would have made between the scheduled firing the scheduler
// already selected and the end of this step: the firing itself counts
// as 1, then further delays are sampled and accumulated until they
// would land past dt. MaxBurst (0 = unbounded) caps the result, per
// spec §4.2.3 — without a cap, a fast transition (rate*dt >> 1) could
// move an unbounded number of tokens in a single atomic step. Only
// meaningful for Stochastic transitions; every other kind fires exactly
// once per commit and returns 1.
func (b *Behavior) BurstCount(rng *rand.Rand, dt float64) int {
	if b.Transition.Kind != petri.Stochastic {
		return 1
	}
	maxBurst := b.Transition.Stochastic.MaxBurst
	count := 1
	elapsed := 0.0
	for maxBurst == 0 || count < maxBurst {
		elapsed += b.SampleDelay(rng)
		if elapsed > dt {
			break
		}
		count++
	}
	return count
}

// Rate evaluates the continuous rate expression against env, clamped to
// [MinRate, MaxRate]. Only valid for Continuous transitions.
func (b *Behavior) Rate(env rate.Env) (float64, error) {
	if b.Transition.Kind != petri.Continuous {
		return 0, fmt.Errorf("%w: %q is not continuous", ErrUnknownKind, b.Transition.ID)
	}
	if b.Program == nil {
		return 0, fmt.Errorf("%w: %q", ErrMissingProgram, b.Transition.ID)
	}
	v, err := b.Program.Eval(env)
	if err != nil {
		return 0, err
	}
	cp := b.Transition.Continuous
	if v < cp.MinRate {
		v = cp.MinRate
	}
	if v > cp.MaxRate {
		v = cp.MaxRate
	}
	return v, nil
}

// IsDiscrete reports whether the transition is one of the three
// event-based kinds (as opposed to Continuous, which flows).
func (b *Behavior) IsDiscrete() bool {
	return b.Transition.Kind != petri.Continuous
}

// FireHook runs after input tokens are consumed and before output
// tokens are produced during a discrete commit. The three event-based
// kinds have no extra work to do beyond moving tokens, so this is a
// no-op for them; it exists so stepexec has a single place to invoke
// (and recover a panic from) any future per-kind firing side effect.
func (b *Behavior) FireHook() error {
	return nil
}

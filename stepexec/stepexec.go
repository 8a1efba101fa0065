// Package stepexec implements the three-phase atomic commit that fires
// a maximal conflict-free set of discrete transitions as a single
// all-or-nothing unit: validate, snapshot, commit-or-rollback.
package stepexec

import (
	"fmt"

	"github.com/simao-eugenio/shypn-sub005/adapter"
	"github.com/simao-eugenio/shypn-sub005/behavior"
	"github.com/simao-eugenio/shypn-sub005/petri"
)

// StepContext bundles everything Step needs to fire one ordered set of
// transitions against the live net.
type StepContext struct {
	Adapter   *adapter.Adapter
	Behaviors map[string]*behavior.Behavior
	Ordered   []*petri.Transition // already policy-ordered by conflict.Order
	Now       float64

	// Burst gives the number of firings a stochastic transition's single
	// commit slot actually represents this step (behavior.BurstCount,
	// capped by its MaxBurst), per spec §4.2.3. A transition absent from
	// Burst, or mapped to <= 0, fires once, which is every non-stochastic
	// transition's only possible value.
	Burst map[string]int
}

func (ctx *StepContext) burstFor(id string) int {
	if n, ok := ctx.Burst[id]; ok && n > 0 {
		return n
	}
	return 1
}

// Executor fires one maximal set per call to Step.
type Executor struct{}

// NewExecutor creates a stateless Executor; all state for a step lives in
// StepContext and the net itself.
func NewExecutor() *Executor { return &Executor{} }

// Step runs the validate/snapshot/commit-or-rollback sequence of §4.6.
// On success it returns (true, firedIDs, nil). On any validation or
// commit failure — including a recovered panic from a behavior's
// FireHook — it returns (false, nil, err) and the net is left exactly
// as it was before Step was called.
func (e *Executor) Step(ctx *StepContext) (ok bool, fired []string, err error) {
	net := ctx.Adapter.Net()

	for _, t := range ctx.Ordered {
		if !ctx.Adapter.StructurallyEnabled(t) {
			return false, nil, fmt.Errorf("%w: %s", ErrValidationFailed, t.ID)
		}
	}

	snapshot := net.Snapshot()

	ok, fired, err = e.commit(ctx, net)
	if err != nil {
		net.Restore(snapshot)
		return false, nil, err
	}
	return ok, fired, nil
}

func (e *Executor) commit(ctx *StepContext, net *petri.Net) (ok bool, fired []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, fired, err = false, nil, fmt.Errorf("%w: %v", ErrCommitFailed, r)
		}
	}()

	for _, t := range ctx.Ordered {
		loc := ctx.Adapter.Locality(t)

		mult := ctx.burstFor(t.ID)
		for _, a := range loc.Preset {
			place, _ := a.PlaceEnd()
			if place.Tokens < a.Weight {
				return false, nil, fmt.Errorf("%w: %s: insufficient tokens on %s", ErrCommitFailed, t.ID, place.ID)
			}
			if avail := place.Tokens / a.Weight; avail < mult {
				mult = avail
			}
		}

		for _, a := range loc.Preset {
			place, _ := a.PlaceEnd()
			place.Tokens -= a.Weight * mult
		}

		if b, ok := ctx.Behaviors[t.ID]; ok {
			if err := b.FireHook(); err != nil {
				return false, nil, fmt.Errorf("%w: %s: %v", ErrCommitFailed, t.ID, err)
			}
		}

		for _, a := range loc.Postset {
			place, _ := a.PlaceEnd()
			place.Tokens += a.Weight * mult
		}

		fired = append(fired, t.ID)
	}

	return true, fired, nil
}

// Package integrate advances the continuous locality by one fixed
// timestep using classical fourth-order Runge-Kutta, run in lockstep
// with (immediately after) the discrete atomic step. It operates on a
// float64 shadow of the marking, never on petri.Marking directly — the
// kernel is responsible for rounding the shadow back into integer token
// counts after integration.
package integrate

import (
	"github.com/simao-eugenio/shypn-sub005/adapter"
	"github.com/simao-eugenio/shypn-sub005/behavior"
	"github.com/simao-eugenio/shypn-sub005/rate"
)

// Flow is one continuous transition's contribution to the places in its
// locality: Consume/Produce map place id to the stoichiometric weight of
// the normal arc connecting it, exactly as petri.Arc.Weight does for
// discrete firing.
type Flow struct {
	Behavior *behavior.Behavior
	Consume  map[string]int
	Produce  map[string]int
}

// BuildFlow reads b's locality out of ad and returns the Flow describing
// how b's rate moves tokens among its preset and postset places.
func BuildFlow(ad *adapter.Adapter, b *behavior.Behavior) Flow {
	f := Flow{Behavior: b, Consume: make(map[string]int), Produce: make(map[string]int)}
	loc := ad.Locality(b.Transition)
	for _, a := range loc.Preset {
		place, _ := a.PlaceEnd()
		f.Consume[place.ID] += a.Weight
	}
	for _, a := range loc.Postset {
		place, _ := a.PlaceEnd()
		f.Produce[place.ID] += a.Weight
	}
	return f
}

// Shadow is a float64 view of token counts for the places touched by a
// continuous flow set, kept independent of petri.Marking's ints.
type Shadow map[string]float64

// OnRateFail is called at most once per failing transition per
// derivative evaluation, so the kernel can log the failure without the
// integrator itself taking a logging dependency. It is never required to
// be non-nil.
type OnRateFail func(transitionID string, err error)

// derivative evaluates every flow's rate against shadow and sums their
// contributions. A flow whose rate expression fails to evaluate (a
// compile-time-unreachable runtime error, or a NaN/Inf result) does not
// abort the derivative for the other flows: per §4.2.4/§4.9, that one
// transition contributes rate 0 for this evaluation and onFail (if
// non-nil) is notified so the kernel can log it once.
func derivative(shadow Shadow, now float64, flows []Flow, onFail OnRateFail) Shadow {
	d := make(Shadow)
	for _, f := range flows {
		env := rate.Env{
			Tokens: func(id string) float64 { return shadow[id] },
			Time:   now,
		}
		r, err := f.Behavior.Rate(env)
		if err != nil {
			if onFail != nil {
				onFail(f.Behavior.Transition.ID, err)
			}
			r = 0
		}
		for placeID, w := range f.Consume {
			d[placeID] -= float64(w) * r
		}
		for placeID, w := range f.Produce {
			d[placeID] += float64(w) * r
		}
	}
	return d
}

func addScaled(base Shadow, delta Shadow, scale float64) Shadow {
	out := make(Shadow, len(base))
	for id, v := range base {
		out[id] = v
	}
	for id, dv := range delta {
		out[id] += dv * scale
	}
	return out
}

// RK4Step advances shadow by dt using the classical four-stage formula:
//
//	k1 = f(M, t)
//	k2 = f(M + dt/2*k1, t + dt/2)
//	k3 = f(M + dt/2*k2, t + dt/2)
//	k4 = f(M + dt*k3, t + dt)
//	M' = M + dt/6*(k1 + 2*k2 + 2*k3 + k4)
//
// flows is the set C of continuous transitions snapshotted as eligible
// before the discrete atomic step ran this cycle, so a transition the
// discrete step enables mid-step cannot also contribute flow this step.
// The result is clamped to be non-negative, per the kernel's
// non-negativity invariant. A rate evaluation failure never aborts the
// step: see derivative's onFail for the per-transition substitution of
// rate 0 that keeps the rest of C integrating normally.
func RK4Step(dt float64, shadow Shadow, flows []Flow, now float64, onFail OnRateFail) Shadow {
	if len(flows) == 0 {
		return shadow
	}
	k1 := derivative(shadow, now, flows, onFail)
	k2 := derivative(addScaled(shadow, k1, dt/2), now+dt/2, flows, onFail)
	k3 := derivative(addScaled(shadow, k2, dt/2), now+dt/2, flows, onFail)
	k4 := derivative(addScaled(shadow, k3, dt), now+dt, flows, onFail)

	result := make(Shadow, len(shadow))
	for id, v := range shadow {
		result[id] = v
	}
	for id := range k1 {
		result[id] = result[id] + dt/6*(k1[id]+2*k2[id]+2*k3[id]+k4[id])
	}
	for id, v := range result {
		if v < 0 {
			result[id] = 0
		}
	}
	return result
}

package integrate

import (
	"math"
	"testing"

	"github.com/simao-eugenio/shypn-sub005/adapter"
	"github.com/simao-eugenio/shypn-sub005/behavior"
	"github.com/simao-eugenio/shypn-sub005/petri"
)

func TestRK4ConstantRateIsExact(t *testing.T) {
	n := petri.NewNet("n1", "test")
	src, _ := n.AddPlace(petri.NewPlace("src", "Src", 100))
	dst, _ := n.AddPlace(petri.NewPlace("dst", "Dst", 0))
	tr, _ := n.AddTransition(petri.NewTransition("flow", "Flow", petri.Continuous))
	tr.Continuous = petri.ContinuousParams{RateExpr: "2", MaxRate: 1000}
	n.AddArc("a1", src, tr, 1, petri.ArcNormal)
	n.AddArc("a2", tr, dst, 1, petri.ArcNormal)

	ad := adapter.New(n, nil)
	defer ad.Close()
	b, err := behavior.New(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	flow := BuildFlow(ad, b)

	shadow := Shadow{"src": 100, "dst": 0}
	dt := 0.5
	next := RK4Step(dt, shadow, []Flow{flow}, 0, nil)

	wantSrc := 100 - 2*dt
	wantDst := 0 + 2*dt
	if math.Abs(next["src"]-wantSrc) > 1e-9 {
		t.Fatalf("expected src=%v, got %v", wantSrc, next["src"])
	}
	if math.Abs(next["dst"]-wantDst) > 1e-9 {
		t.Fatalf("expected dst=%v, got %v", wantDst, next["dst"])
	}
}

func TestRK4ClampsToNonNegative(t *testing.T) {
	n := petri.NewNet("n1", "test")
	src, _ := n.AddPlace(petri.NewPlace("src", "Src", 1))
	tr, _ := n.AddTransition(petri.NewTransition("drain", "Drain", petri.Continuous))
	tr.Continuous = petri.ContinuousParams{RateExpr: "1000", MaxRate: 1000}
	n.AddArc("a1", src, tr, 1, petri.ArcNormal)

	ad := adapter.New(n, nil)
	defer ad.Close()
	b, _ := behavior.New(tr)
	flow := BuildFlow(ad, b)

	next := RK4Step(1.0, Shadow{"src": 1}, []Flow{flow}, 0, nil)
	if next["src"] != 0 {
		t.Fatalf("expected clamp to 0, got %v", next["src"])
	}
}

func TestRK4SubstitutesZeroOnRateFailure(t *testing.T) {
	n := petri.NewNet("n1", "test")
	bad, _ := n.AddPlace(petri.NewPlace("bad", "Bad", 0))
	src, _ := n.AddPlace(petri.NewPlace("src", "Src", 100))
	dst, _ := n.AddPlace(petri.NewPlace("dst", "Dst", 0))

	failing, _ := n.AddTransition(petri.NewTransition("failing", "Failing", petri.Continuous))
	failing.Continuous = petri.ContinuousParams{RateExpr: "1/P_zero", MaxRate: 1000}
	n.AddArc("a2", failing, bad, 1, petri.ArcNormal)

	ok, _ := n.AddTransition(petri.NewTransition("ok", "Ok", petri.Continuous))
	ok.Continuous = petri.ContinuousParams{RateExpr: "2", MaxRate: 1000}
	n.AddArc("a3", src, ok, 1, petri.ArcNormal)
	n.AddArc("a4", ok, dst, 1, petri.ArcNormal)

	ad := adapter.New(n, nil)
	defer ad.Close()
	bFailing, err := behavior.New(failing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bOk, err := behavior.New(ok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	flows := []Flow{BuildFlow(ad, bFailing), BuildFlow(ad, bOk)}

	var failedIDs []string
	onFail := func(transitionID string, err error) { failedIDs = append(failedIDs, transitionID) }

	dt := 0.5
	shadow := Shadow{"zero": 0, "bad": 0, "src": 100, "dst": 0}
	next := RK4Step(dt, shadow, flows, 0, onFail)

	if next["bad"] != 0 {
		t.Fatalf("expected failing transition to contribute 0, got bad=%v", next["bad"])
	}
	wantDst := 0 + 2*dt
	if math.Abs(next["dst"]-wantDst) > 1e-9 {
		t.Fatalf("expected dst=%v unaffected by the other flow's failure, got %v", wantDst, next["dst"])
	}
	if len(failedIDs) == 0 {
		t.Fatalf("expected onFail to be called for the failing transition")
	}
	for _, id := range failedIDs {
		if id != "failing" {
			t.Fatalf("expected only %q to fail, got %q", "failing", id)
		}
	}
}

func TestRK4WithNoFlowsIsNoOp(t *testing.T) {
	shadow := Shadow{"p": 5}
	next := RK4Step(1.0, shadow, nil, 0, nil)
	if next["p"] != 5 {
		t.Fatalf("expected unchanged shadow, got %v", next)
	}
}

package kernel

import (
	"testing"

	"github.com/simao-eugenio/shypn-sub005/petri"
)

func TestStepFiresImmediateTransitionAndAdvancesTime(t *testing.T) {
	n := petri.NewNet("n1", "test")
	in, _ := n.AddPlace(petri.NewPlace("in", "In", 1))
	out, _ := n.AddPlace(petri.NewPlace("out", "Out", 0))
	tr, _ := n.AddTransition(petri.NewTransition("t1", "T1", petri.Immediate))
	n.AddArc("a1", in, tr, 1, petri.ArcNormal)
	n.AddArc("a2", tr, out, 1, petri.ArcNormal)

	c, err := New(n, WithDt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := c.Step()
	if result.Err != nil {
		t.Fatalf("unexpected step error: %v", result.Err)
	}
	if len(result.Fired) != 1 || result.Fired[0] != "t1" {
		t.Fatalf("expected t1 to fire, got %v", result.Fired)
	}
	if in.Tokens != 0 || out.Tokens != 1 {
		t.Fatalf("expected tokens moved, got in=%d out=%d", in.Tokens, out.Tokens)
	}
	if c.Now() != 1 {
		t.Fatalf("expected time advanced to 1, got %v", c.Now())
	}
}

func TestResetRestoresInitialMarkingAndClock(t *testing.T) {
	n := petri.NewNet("n1", "test")
	in, _ := n.AddPlace(petri.NewPlace("in", "In", 1))
	out, _ := n.AddPlace(petri.NewPlace("out", "Out", 0))
	tr, _ := n.AddTransition(petri.NewTransition("t1", "T1", petri.Immediate))
	n.AddArc("a1", in, tr, 1, petri.ArcNormal)
	n.AddArc("a2", tr, out, 1, petri.ArcNormal)

	c, _ := New(n, WithDt(1))
	c.Step()
	c.Reset()

	if c.Now() != 0 {
		t.Fatalf("expected reset clock to 0, got %v", c.Now())
	}
	if in.Tokens != 1 || out.Tokens != 0 {
		t.Fatalf("expected initial marking restored, got in=%d out=%d", in.Tokens, out.Tokens)
	}
}

type recordingListener struct {
	results []StepResult
}

func (r *recordingListener) OnStep(res StepResult) {
	r.results = append(r.results, res)
}

func TestRegisterStepListenerReceivesEveryStep(t *testing.T) {
	n := petri.NewNet("n1", "test")
	n.AddPlace(petri.NewPlace("p", "P", 5))
	c, _ := New(n, WithDt(1))
	rec := &recordingListener{}
	c.RegisterStepListener(rec)

	c.Step()
	c.Step()

	if len(rec.results) != 2 {
		t.Fatalf("expected 2 recorded steps, got %d", len(rec.results))
	}
}

// TestStochasticBurstCapNeverMovesMoreThanMaxBurstPerStep exercises the
// burst cap end to end: a stochastic transition fast enough to fire many
// times within one dt (rate*dt >> 1) must still move at most MaxBurst
// tokens in any single step, and the total token count across both
// places must be conserved at every step.
func TestStochasticBurstCapNeverMovesMoreThanMaxBurstPerStep(t *testing.T) {
	n := petri.NewNet("n1", "test")
	p1, _ := n.AddPlace(petri.NewPlace("p1", "P1", 100))
	p2, _ := n.AddPlace(petri.NewPlace("p2", "P2", 0))
	tr := petri.NewTransition("t1", "T1", petri.Stochastic)
	tr.Stochastic = petri.StochasticParams{Rate: 1000, MaxBurst: 3}
	n.AddTransition(tr)
	n.AddArc("a1", p1, tr, 1, petri.ArcNormal)
	n.AddArc("a2", tr, p2, 1, petri.ArcNormal)

	c, err := New(n, WithDt(0.1), WithSeed(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 50; i++ {
		before := p2.Tokens
		result := c.Step()
		if result.Err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, result.Err)
		}
		if moved := p2.Tokens - before; moved > 3 {
			t.Fatalf("step %d: expected at most 3 tokens moved, got %d", i, moved)
		}
		if p1.Tokens+p2.Tokens != 100 {
			t.Fatalf("step %d: expected conservation p1+p2=100, got p1=%d p2=%d", i, p1.Tokens, p2.Tokens)
		}
		if p1.Tokens == 0 {
			break
		}
	}
}

func TestContinuousTransitionFlowsViaIntegration(t *testing.T) {
	n := petri.NewNet("n1", "test")
	src, _ := n.AddPlace(petri.NewPlace("src", "Src", 100))
	dst, _ := n.AddPlace(petri.NewPlace("dst", "Dst", 0))
	tr, _ := n.AddTransition(petri.NewTransition("flow", "Flow", petri.Continuous))
	tr.Continuous = petri.ContinuousParams{RateExpr: "1", MaxRate: 1000}
	n.AddArc("a1", src, tr, 1, petri.ArcNormal)
	n.AddArc("a2", tr, dst, 1, petri.ArcNormal)

	c, err := New(n, WithDt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := c.Step()
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if dst.Tokens <= 0 {
		t.Fatalf("expected continuous flow to move tokens into dst, got %d", dst.Tokens)
	}
}

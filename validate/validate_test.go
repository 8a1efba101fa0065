package validate

import (
	"testing"

	"github.com/simao-eugenio/shypn-sub005/petri"
)

func TestValidateWarnsOnDeadTransition(t *testing.T) {
	n := petri.NewNet("n1", "test")
	n.AddTransition(petri.NewTransition("dead", "Dead", petri.Immediate))
	report := Validate(n)
	if len(report.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", report.Warnings)
	}
	if !report.OK() {
		t.Fatalf("expected OK despite warning")
	}
}

func TestValidateAllowsExplicitSourceWithNoPreset(t *testing.T) {
	n := petri.NewNet("n1", "test")
	src := petri.NewTransition("src", "Src", petri.Immediate)
	src.IsSource = true
	n.AddTransition(src)
	report := Validate(n)
	if len(report.Warnings) != 0 {
		t.Fatalf("expected no warnings for an explicit source, got %v", report.Warnings)
	}
}

func TestValidateErrorsOnBadContinuousRateExpr(t *testing.T) {
	n := petri.NewNet("n1", "test")
	in, _ := n.AddPlace(petri.NewPlace("in", "In", 1))
	tr, _ := n.AddTransition(petri.NewTransition("flow", "Flow", petri.Continuous))
	tr.Continuous = petri.ContinuousParams{RateExpr: "eval(1)", MaxRate: 1}
	n.AddArc("a1", in, tr, 1, petri.ArcNormal)

	report := Validate(n)
	if report.OK() {
		t.Fatalf("expected an error for an unwhitelisted rate_expr function")
	}
}

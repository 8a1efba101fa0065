package petri

import (
	"errors"
	"testing"
)

func TestAddPlaceRejectsDuplicateAndEmptyID(t *testing.T) {
	n := NewNet("n1", "test")
	if _, err := n.AddPlace(NewPlace("p1", "P1", 3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := n.AddPlace(NewPlace("p1", "dup", 0)); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if _, err := n.AddPlace(NewPlace("", "noid", 0)); !errors.Is(err, ErrEmptyID) {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
}

func TestAddArcRejectsPlaceToPlace(t *testing.T) {
	n := NewNet("n1", "test")
	p1, _ := n.AddPlace(NewPlace("p1", "P1", 1))
	p2, _ := n.AddPlace(NewPlace("p2", "P2", 1))
	if _, err := n.AddArc("a1", p1, p2, 1, ArcNormal); !errors.Is(err, ErrBadEndpoints) {
		t.Fatalf("expected ErrBadEndpoints, got %v", err)
	}
}

func TestAddArcRejectsTransitionToTransition(t *testing.T) {
	n := NewNet("n1", "test")
	t1, _ := n.AddTransition(NewTransition("t1", "T1", Immediate))
	t2, _ := n.AddTransition(NewTransition("t2", "T2", Immediate))
	if _, err := n.AddArc("a1", t1, t2, 1, ArcNormal); !errors.Is(err, ErrBadEndpoints) {
		t.Fatalf("expected ErrBadEndpoints, got %v", err)
	}
}

func TestAddArcRejectsNegativeWeight(t *testing.T) {
	n := NewNet("n1", "test")
	p1, _ := n.AddPlace(NewPlace("p1", "P1", 1))
	t1, _ := n.AddTransition(NewTransition("t1", "T1", Immediate))
	if _, err := n.AddArc("a1", p1, t1, 0, ArcNormal); !errors.Is(err, ErrNegativeWeight) {
		t.Fatalf("expected ErrNegativeWeight, got %v", err)
	}
}

func TestAddArcRejectsInhibitorRunningBackwards(t *testing.T) {
	n := NewNet("n1", "test")
	p1, _ := n.AddPlace(NewPlace("p1", "P1", 1))
	t1, _ := n.AddTransition(NewTransition("t1", "T1", Immediate))
	if _, err := n.AddArc("a1", t1, p1, 1, ArcInhibitor); !errors.Is(err, ErrBadEndpoints) {
		t.Fatalf("expected ErrBadEndpoints for backwards inhibitor arc, got %v", err)
	}
}

func TestAddTransitionValidatesKindParams(t *testing.T) {
	n := NewNet("n1", "test")
	bad := NewTransition("t1", "T1", Timed)
	bad.Timed = TimedParams{Earliest: 5, Latest: 1}
	if _, err := n.AddTransition(bad); !errors.Is(err, ErrInvalidTimedWindow) {
		t.Fatalf("expected ErrInvalidTimedWindow, got %v", err)
	}

	badRate := NewTransition("t2", "T2", Stochastic)
	badRate.Stochastic = StochasticParams{Rate: 0}
	if _, err := n.AddTransition(badRate); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}

	badBounds := NewTransition("t3", "T3", Continuous)
	badBounds.Continuous = ContinuousParams{MinRate: 5, MaxRate: 1}
	if _, err := n.AddTransition(badBounds); !errors.Is(err, ErrInvalidRateBounds) {
		t.Fatalf("expected ErrInvalidRateBounds, got %v", err)
	}
}

func TestDeletePlaceCascadesArcs(t *testing.T) {
	n := NewNet("n1", "test")
	p1, _ := n.AddPlace(NewPlace("p1", "P1", 1))
	t1, _ := n.AddTransition(NewTransition("t1", "T1", Immediate))
	a1, _ := n.AddArc("a1", p1, t1, 1, ArcNormal)

	var removed []EventKind
	n.Subscribe(func(e Event) { removed = append(removed, e.Kind) })

	if err := n.DeletePlace("p1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := n.Arc(a1.ID); ok {
		t.Fatalf("expected arc to be cascaded away")
	}
	if len(removed) != 2 || removed[0] != EventArcRemoved || removed[1] != EventPlaceRemoved {
		t.Fatalf("expected [arc_removed place_removed], got %v", removed)
	}
}

func TestLocalityOfPartitionsArcsByRole(t *testing.T) {
	n := NewNet("n1", "test")
	in, _ := n.AddPlace(NewPlace("in", "In", 2))
	out, _ := n.AddPlace(NewPlace("out", "Out", 0))
	gate, _ := n.AddPlace(NewPlace("gate", "Gate", 1))
	block, _ := n.AddPlace(NewPlace("block", "Block", 0))
	tr, _ := n.AddTransition(NewTransition("t1", "T1", Immediate))

	n.AddArc("a-in", in, tr, 1, ArcNormal)
	n.AddArc("a-out", tr, out, 1, ArcNormal)
	n.AddArc("a-test", gate, tr, 1, ArcTest)
	n.AddArc("a-inhibit", block, tr, 1, ArcInhibitor)

	loc := n.LocalityOf(tr)
	if len(loc.Preset) != 1 || loc.Preset[0].SourceID() != "in" {
		t.Fatalf("unexpected preset: %+v", loc.Preset)
	}
	if len(loc.Postset) != 1 || loc.Postset[0].TargetID() != "out" {
		t.Fatalf("unexpected postset: %+v", loc.Postset)
	}
	if len(loc.Regulatory) != 2 {
		t.Fatalf("expected 2 regulatory arcs, got %d", len(loc.Regulatory))
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	n := NewNet("n1", "test")
	p1, _ := n.AddPlace(NewPlace("p1", "P1", 5))
	snap := n.Snapshot()
	p1.Tokens = 99
	n.Restore(snap)
	if p1.Tokens != 5 {
		t.Fatalf("expected restore to bring tokens back to 5, got %d", p1.Tokens)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	n := NewNet("n1", "test")
	p1, _ := n.AddPlace(NewPlace("p1", "P1", 5))
	p1.Tokens = 0
	n.Reset()
	first := p1.Tokens
	n.Reset()
	if p1.Tokens != first || p1.Tokens != 5 {
		t.Fatalf("expected reset to be idempotent at 5, got %d then %d", first, p1.Tokens)
	}
}

func TestListenerMutationPanics(t *testing.T) {
	n := NewNet("n1", "test")
	n.Subscribe(func(e Event) {
		n.AddPlace(NewPlace("reentrant", "bad", 0))
	})
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on re-entrant structural mutation")
		}
	}()
	n.AddPlace(NewPlace("p1", "P1", 0))
}

package templates

import (
	"testing"

	"github.com/simao-eugenio/shypn-sub005/petri"
)

func TestGetReturnsKnownTemplate(t *testing.T) {
	tmpl, err := Get("sir")
	if err != nil {
		t.Fatalf("Get(sir): %v", err)
	}
	if tmpl.Name() != "sir" {
		t.Fatalf("expected name sir, got %q", tmpl.Name())
	}
}

func TestGetRejectsUnknownTemplate(t *testing.T) {
	if _, err := Get("nope"); err == nil {
		t.Fatalf("expected an error for an unknown template")
	}
}

func TestListIncludesAllRegisteredTemplates(t *testing.T) {
	names := List()
	if len(names) != len(Registry) {
		t.Fatalf("expected %d names, got %d", len(Registry), len(names))
	}
}

func TestSIRGeneratesExpectedPlacesAndArcs(t *testing.T) {
	tmpl := &SIRTemplate{}
	net, err := tmpl.Generate(map[string]interface{}{
		"population":       100,
		"initial_infected": 5,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	s, ok := net.Place("S")
	if !ok {
		t.Fatalf("missing place S")
	}
	if s.Tokens != 95 {
		t.Fatalf("expected 95 susceptible, got %d", s.Tokens)
	}
	i, ok := net.Place("I")
	if !ok {
		t.Fatalf("missing place I")
	}
	if i.Tokens != 5 {
		t.Fatalf("expected 5 infected, got %d", i.Tokens)
	}
	if _, ok := net.Place("R"); !ok {
		t.Fatalf("missing place R")
	}
	if _, ok := net.Transition("infection"); !ok {
		t.Fatalf("missing infection transition")
	}
	if _, ok := net.Transition("recovery"); !ok {
		t.Fatalf("missing recovery transition")
	}
}

func TestEnzymeKineticsGatesConversionOnAvailability(t *testing.T) {
	tmpl := &EnzymeKineticsTemplate{}
	net, err := tmpl.Generate(map[string]interface{}{
		"substrate":        50,
		"enzyme_reservoir": 2,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	conv, ok := net.Transition("conversion")
	if !ok {
		t.Fatalf("missing conversion transition")
	}
	loc := net.LocalityOf(conv)
	if len(loc.Preset) != 1 {
		t.Fatalf("expected conversion to have exactly 1 consuming preset arc, got %d", len(loc.Preset))
	}
	if len(loc.Regulatory) != 1 || loc.Regulatory[0].Kind != petri.ArcTest {
		t.Fatalf("expected conversion to be gated by exactly 1 test arc, got %+v", loc.Regulatory)
	}
}

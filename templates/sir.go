package templates

import (
	"fmt"

	"github.com/simao-eugenio/shypn-sub005/petri"
)

// SIRTemplate builds a continuous mass-action SIR epidemic model:
// S --infection--> I --recovery--> R, with the infection rate a
// function of the current S and I token counts (via rate.Program place
// aliases) and recovery a constant per-capita rate.
type SIRTemplate struct{}

func (t *SIRTemplate) Name() string { return "sir" }

func (t *SIRTemplate) Description() string {
	return "continuous SIR epidemic model (Susceptible -> Infected -> Recovered)"
}

func (t *SIRTemplate) Parameters() []Parameter {
	return []Parameter{
		{Name: "population", Description: "total population size", Type: "int", Default: 1000, Required: false},
		{Name: "initial_infected", Description: "initial infected count", Type: "int", Default: 10, Required: false},
		{Name: "beta", Description: "transmission rate", Type: "float", Default: 0.3, Required: false},
		{Name: "gamma", Description: "recovery rate", Type: "float", Default: 0.1, Required: false},
	}
}

func (t *SIRTemplate) Generate(params map[string]interface{}) (*petri.Net, error) {
	population := getIntParam(params, "population", 1000)
	initialInfected := getIntParam(params, "initial_infected", 10)
	beta := getFloatParam(params, "beta", 0.3)
	gamma := getFloatParam(params, "gamma", 0.1)
	initialSusceptible := population - initialInfected

	net := petri.NewNet("sir", "SIR epidemic model")

	s, err := net.AddPlace(petri.NewPlace("S", "Susceptible", initialSusceptible))
	if err != nil {
		return nil, err
	}
	i, err := net.AddPlace(petri.NewPlace("I", "Infected", initialInfected))
	if err != nil {
		return nil, err
	}
	r, err := net.AddPlace(petri.NewPlace("R", "Recovered", 0))
	if err != nil {
		return nil, err
	}

	infection := petri.NewTransition("infection", "Infection", petri.Continuous)
	infection.Continuous = petri.ContinuousParams{
		RateExpr: fmt.Sprintf("%g*P_S*P_I/%d", beta, population),
		MaxRate:  float64(population),
	}
	if _, err := net.AddTransition(infection); err != nil {
		return nil, err
	}

	recovery := petri.NewTransition("recovery", "Recovery", petri.Continuous)
	recovery.Continuous = petri.ContinuousParams{
		RateExpr: fmt.Sprintf("%g*P_I", gamma),
		MaxRate:  float64(population),
	}
	if _, err := net.AddTransition(recovery); err != nil {
		return nil, err
	}

	if _, err := net.AddArc("a-s-infection", s, infection, 1, petri.ArcNormal); err != nil {
		return nil, err
	}
	if _, err := net.AddArc("a-infection-i", infection, i, 1, petri.ArcNormal); err != nil {
		return nil, err
	}
	if _, err := net.AddArc("a-i-infection-test", i, infection, 1, petri.ArcTest); err != nil {
		return nil, err
	}
	if _, err := net.AddArc("a-i-recovery", i, recovery, 1, petri.ArcNormal); err != nil {
		return nil, err
	}
	if _, err := net.AddArc("a-recovery-r", recovery, r, 1, petri.ArcNormal); err != nil {
		return nil, err
	}

	return net, nil
}

// Package templates provides worked example nets: a continuous SIR
// epidemic model and a discrete/continuous Michaelis-Menten enzyme
// kinetics net, adapted from templates/sir.go's parameter-default shape
// onto the new stoichiometric petri.Net.
package templates

import (
	"fmt"

	"github.com/simao-eugenio/shypn-sub005/petri"
)

// Template defines a parameterized net pattern.
type Template interface {
	Name() string
	Description() string
	Parameters() []Parameter
	Generate(params map[string]interface{}) (*petri.Net, error)
}

// Parameter describes a single named template input.
type Parameter struct {
	Name        string
	Description string
	Type        string // "int", "float"
	Default     interface{}
	Required    bool
}

// Registry holds all available templates.
var Registry = map[string]Template{
	"sir":    &SIRTemplate{},
	"enzyme": &EnzymeKineticsTemplate{},
}

// Get returns a template by name.
func Get(name string) (Template, error) {
	t, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("templates: unknown template: %s", name)
	}
	return t, nil
}

// List returns all available template names.
func List() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	return names
}

func getIntParam(params map[string]interface{}, name string, defaultVal int) int {
	if val, ok := params[name]; ok {
		switch v := val.(type) {
		case int:
			return v
		case float64:
			return int(v)
		}
	}
	return defaultVal
}

func getFloatParam(params map[string]interface{}, name string, defaultVal float64) float64 {
	if val, ok := params[name]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
	}
	return defaultVal
}

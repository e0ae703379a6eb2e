package taxengine

import (
	"github.com/taxvault/taxvault-api/internal/constants"
)

// Scenario is an immutable (income, deductions) preset in USD integer units.
type Scenario struct {
	Name       string `json:"name"`
	Income     int64  `json:"income"`
	Deductions int64  `json:"deductions"`
}

// Preset scenarios offered by the original calculator. The custom scenario
// carries user-supplied values at submission time and has no preset here.
var presetScenarios = map[string]Scenario{
	constants.ScenarioLow:    {Name: constants.ScenarioLow, Income: 30_000, Deductions: 5_000},
	constants.ScenarioMedium: {Name: constants.ScenarioMedium, Income: 75_000, Deductions: 12_000},
	constants.ScenarioHigh:   {Name: constants.ScenarioHigh, Income: 150_000, Deductions: 25_000},
}

// ScenarioByName returns the preset scenario for the given name.
func ScenarioByName(name string) (Scenario, bool) {
	s, ok := presetScenarios[name]
	return s, ok
}

// Scenarios returns all preset scenarios.
func Scenarios() []Scenario {
	return []Scenario{
		presetScenarios[constants.ScenarioLow],
		presetScenarios[constants.ScenarioMedium],
		presetScenarios[constants.ScenarioHigh],
	}
}

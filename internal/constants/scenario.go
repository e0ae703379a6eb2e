package constants

// Tax scenario names
const (
	ScenarioLow    = "low"
	ScenarioMedium = "medium"
	ScenarioHigh   = "high"
	ScenarioCustom = "custom"
)

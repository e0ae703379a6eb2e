package coordinator

// State is the taxpayer lifecycle position, derived purely from the two
// authoritative booleans the ledger exposes. Cleared is not a state: a
// successful clear collapses straight back to NotSubmitted.
type State string

const (
	StateNotSubmitted State = "not_submitted"
	StateSubmitted    State = "submitted"
	StateCalculated   State = "calculated"
)

// Action is a user-initiated taxpayer operation.
type Action string

const (
	ActionSubmit    Action = "submit"
	ActionCalculate Action = "calculate"
	ActionView      Action = "view"
	ActionClear     Action = "clear"
)

// DeriveState maps the ledger booleans to a lifecycle state. The pair
// (calculated, not submitted) cannot be produced by the contract; callers
// log it and treat the account as not submitted.
func DeriveState(hasSubmitted, isCalculated bool) State {
	switch {
	case hasSubmitted && isCalculated:
		return StateCalculated
	case hasSubmitted:
		return StateSubmitted
	default:
		return StateNotSubmitted
	}
}

// legalActions is the transition table: which actions each state permits.
var legalActions = map[State][]Action{
	StateNotSubmitted: {ActionSubmit},
	StateSubmitted:    {ActionCalculate, ActionClear},
	StateCalculated:   {ActionView, ActionClear},
}

// Allows reports whether the action is legal in this state.
func (s State) Allows(action Action) bool {
	for _, legal := range legalActions[s] {
		if legal == action {
			return true
		}
	}
	return false
}

// LegalActions returns the actions this state permits, in a stable order.
func (s State) LegalActions() []Action {
	actions := legalActions[s]
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

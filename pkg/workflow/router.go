package workflow

import "strings"

// Route is the outcome of the error check after a synthesis step
type Route string

// Error-check routes
const (
	RouteError    Route = "error"
	RouteContinue Route = "continue"
)

// ErrorCheck short-circuits to termination when the previous step failed
func ErrorCheck(s *State) Route {
	if s.Error != "" {
		return RouteError
	}
	return RouteContinue
}

// Decision is the next step selected from a review feedback signal
type Decision string

// Review decisions
const (
	DecisionFinalize Decision = "finalize"
	DecisionReject   Decision = "reject"
	DecisionRevise   Decision = "revise"
)

// ReviewDecision maps the pending feedback to the next step. The order
// is a strict priority list: an explicit approve or reject always wins
// over the budget check, and an exhausted revision budget forces
// finalization of the plan as-is.
func ReviewDecision(s *State) Decision {
	feedback := strings.ToLower(strings.TrimSpace(s.Feedback))

	switch feedback {
	case "approve", "aprobar":
		return DecisionFinalize
	case "reject", "rechazar":
		return DecisionReject
	}
	if s.RevisionCount >= s.MaxRevisions {
		return DecisionFinalize
	}
	return DecisionRevise
}

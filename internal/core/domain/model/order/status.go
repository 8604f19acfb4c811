package order

import (
	"fmt"
	"slices"

	"logistics/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Shipping ──> Completed
//	   │           │             │
//	   └───────────┴─────────────┴──> Cancelled
//
// Cancelled has no outgoing transitions. Completed may still be cancelled;
// the table is fixed and not configurable.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a created order awaiting dispatch.
	Pending

	// Shipping indicates the order has a tracking number and a station sequence.
	Shipping

	// Completed indicates the order was received at its destination.
	Completed

	// Cancelled is terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Shipping:  "shipping",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

// allowedTransitions is the single source of truth for legal status moves.
func allowedTransitions() map[Status][]Status {
	//nolint:exhaustive // Unknown has no transitions
	return map[Status][]Status{
		Pending:   {Shipping, Cancelled},
		Shipping:  {Completed, Cancelled},
		Completed: {Cancelled},
		Cancelled: {},
	}
}

// ParseStatus converts the persisted lowercase name back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// CanTransition reports whether the table allows moving from one status to another.
// It is a pure lookup and returns false for unknown statuses.
func CanTransition(from, to Status) bool {
	return slices.Contains(allowedTransitions()[from], to)
}

// Validate checks if the Status value is one of the four lifecycle states.
func (s Status) Validate() error {
	if _, ok := allowedTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lowercase wire name of the status, "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s.Validate() == nil && len(allowedTransitions()[s]) == 0
}

// Ship transitions the status to Shipping. Only Pending may ship.
func (s Status) Ship() (Status, error) {
	return s.transitionTo(Shipping)
}

// Receive transitions the status to Completed. Only Shipping may be received.
func (s Status) Receive() (Status, error) {
	return s.transitionTo(Completed)
}

// Cancel transitions the status to Cancelled from any non-cancelled status.
func (s Status) Cancel() (Status, error) {
	return s.transitionTo(Cancelled)
}

func (s Status) transitionTo(target Status) (Status, error) {
	if !CanTransition(s, target) {
		return 0, errs.NewInvalidTransitionError(s.String(), target.String())
	}
	return target, nil
}

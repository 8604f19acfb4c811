package commands

import (
	"errors"
	"time"

	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var (
	ErrAdvanceInTransitOrdersCommandIsNotConstructed = errors.New(
		"AdvanceInTransitOrdersCommand must be created via NewAdvanceInTransitOrdersCommand constructor",
	)
)

// AdvanceInTransitOrdersCommand moves shipping orders along their stations in
// proportion to the time elapsed since dispatch, as observed at Now.
//
// Example:
//
//	// Run periodically to simulate transit progress
//	cmd, _ := NewAdvanceInTransitOrdersCommand(time.Now())
//	advanced, err := handler.Handle(ctx, cmd)
type AdvanceInTransitOrdersCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

func NewAdvanceInTransitOrdersCommand(now time.Time) (AdvanceInTransitOrdersCommand, error) {
	if now.IsZero() {
		return AdvanceInTransitOrdersCommand{}, errs.NewValueIsRequiredError("now")
	}

	return AdvanceInTransitOrdersCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceInTransitOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceInTransitOrdersCommandIsNotConstructed)
}

func (c AdvanceInTransitOrdersCommand) Now() time.Time {
	return c.now
}

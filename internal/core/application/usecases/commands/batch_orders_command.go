package commands

import (
	"errors"
	"strings"

	"logistics/internal/pkg/guard"
)

var (
	ErrBatchReceiveOrdersCommandIsNotConstructed = errors.New(
		"BatchReceiveOrdersCommand must be created via NewBatchReceiveOrdersCommand constructor",
	)
	ErrBatchShipOrdersCommandIsNotConstructed = errors.New(
		"BatchShipOrdersCommand must be created via NewBatchShipOrdersCommand constructor",
	)
)

// BatchOutcome summarises a batch run.
type BatchOutcome string

const (
	BatchSuccess BatchOutcome = "success"
	BatchPartial BatchOutcome = "partial"
	BatchFailure BatchOutcome = "failure"
)

// BatchResult is the complete outcome of a batch operation. Individual
// failures never abort the batch; they are listed in FailedOrders.
type BatchResult struct {
	Outcome      BatchOutcome
	SuccessCount int
	FailedCount  int
	FailedOrders []string
	Message      string
}

// BatchReceiveOrdersCommand receives several orders independently. An empty
// list is accepted and answered with a failure result.
type BatchReceiveOrdersCommand struct { //nolint:recvcheck //using for validation
	orderNos []string

	guard guard.ConstructorGuard
}

func NewBatchReceiveOrdersCommand(orderNos []string) BatchReceiveOrdersCommand {
	return BatchReceiveOrdersCommand{
		orderNos: trimOrderNos(orderNos),
		guard:    guard.NewConstructorGuard(),
	}
}

func (c BatchReceiveOrdersCommand) Validate() error {
	return c.guard.Validate(ErrBatchReceiveOrdersCommandIsNotConstructed)
}

func (c BatchReceiveOrdersCommand) OrderNos() []string {
	return append([]string(nil), c.orderNos...)
}

// BatchShipOrdersCommand exists for API symmetry; batch shipping is refused
// because every order needs its own route.
type BatchShipOrdersCommand struct { //nolint:recvcheck //using for validation
	orderNos []string

	guard guard.ConstructorGuard
}

func NewBatchShipOrdersCommand(orderNos []string) BatchShipOrdersCommand {
	return BatchShipOrdersCommand{
		orderNos: trimOrderNos(orderNos),
		guard:    guard.NewConstructorGuard(),
	}
}

func (c BatchShipOrdersCommand) Validate() error {
	return c.guard.Validate(ErrBatchShipOrdersCommandIsNotConstructed)
}

func (c BatchShipOrdersCommand) OrderNos() []string {
	return append([]string(nil), c.orderNos...)
}

func trimOrderNos(orderNos []string) []string {
	out := make([]string, 0, len(orderNos))
	for _, orderNo := range orderNos {
		out = append(out, strings.TrimSpace(orderNo))
	}
	return out
}

package commands

import (
	"errors"

	"logistics/internal/pkg/guard"
)

var (
	ErrReceiveOrderCommandIsNotConstructed = errors.New(
		"ReceiveOrderCommand must be created via NewReceiveOrderCommand constructor",
	)
)

// ReceiveOrderCommand asks to complete a shipping order whose last station has arrived.
type ReceiveOrderCommand struct { //nolint:recvcheck //using for validation
	orderNo string

	guard guard.ConstructorGuard
}

func NewReceiveOrderCommand(orderNo string) (ReceiveOrderCommand, error) {
	orderNo, err := parseOrderNo(orderNo)
	if err != nil {
		return ReceiveOrderCommand{}, err
	}

	return ReceiveOrderCommand{
		orderNo: orderNo,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReceiveOrderCommand) Validate() error {
	return c.guard.Validate(ErrReceiveOrderCommandIsNotConstructed)
}

func (c ReceiveOrderCommand) OrderNo() string {
	return c.orderNo
}

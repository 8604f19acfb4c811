package commands

import (
	"errors"

	"logistics/internal/pkg/guard"
)

var (
	ErrCancelOrderCommandIsNotConstructed = errors.New(
		"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
	)
)

// CancelOrderCommand asks to cancel an order in any status but cancelled.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderNo string

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderNo string) (CancelOrderCommand, error) {
	orderNo, err := parseOrderNo(orderNo)
	if err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		orderNo: orderNo,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderNo() string {
	return c.orderNo
}

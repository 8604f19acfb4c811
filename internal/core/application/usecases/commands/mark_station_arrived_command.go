package commands

import (
	"errors"

	"logistics/internal/pkg/guard"
)

var (
	ErrMarkStationArrivedCommandIsNotConstructed = errors.New(
		"MarkStationArrivedCommand must be created via NewMarkStationArrivedCommand constructor",
	)
	ErrMarkAllStationsArrivedCommandIsNotConstructed = errors.New(
		"MarkAllStationsArrivedCommand must be created via NewMarkAllStationsArrivedCommand constructor",
	)
	ErrMarkStationsArrivedUpToCommandIsNotConstructed = errors.New(
		"MarkStationsArrivedUpToCommand must be created via NewMarkStationsArrivedUpToCommand constructor",
	)
)

// MarkStationArrivedCommand records arrival at one station. The index range is
// checked against the order's stations by the handler.
type MarkStationArrivedCommand struct { //nolint:recvcheck //using for validation
	orderNo string
	index   int

	guard guard.ConstructorGuard
}

func NewMarkStationArrivedCommand(orderNo string, index int) (MarkStationArrivedCommand, error) {
	orderNo, err := parseOrderNo(orderNo)
	if err != nil {
		return MarkStationArrivedCommand{}, err
	}

	return MarkStationArrivedCommand{
		orderNo: orderNo,
		index:   index,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c MarkStationArrivedCommand) Validate() error {
	return c.guard.Validate(ErrMarkStationArrivedCommandIsNotConstructed)
}

func (c MarkStationArrivedCommand) OrderNo() string {
	return c.orderNo
}

func (c MarkStationArrivedCommand) Index() int {
	return c.index
}

// MarkAllStationsArrivedCommand marks every pending station of an order.
type MarkAllStationsArrivedCommand struct { //nolint:recvcheck //using for validation
	orderNo string

	guard guard.ConstructorGuard
}

func NewMarkAllStationsArrivedCommand(orderNo string) (MarkAllStationsArrivedCommand, error) {
	orderNo, err := parseOrderNo(orderNo)
	if err != nil {
		return MarkAllStationsArrivedCommand{}, err
	}

	return MarkAllStationsArrivedCommand{
		orderNo: orderNo,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c MarkAllStationsArrivedCommand) Validate() error {
	return c.guard.Validate(ErrMarkAllStationsArrivedCommandIsNotConstructed)
}

func (c MarkAllStationsArrivedCommand) OrderNo() string {
	return c.orderNo
}

// MarkStationsArrivedUpToCommand marks every pending station up to and
// including TargetIndex.
type MarkStationsArrivedUpToCommand struct { //nolint:recvcheck //using for validation
	orderNo     string
	targetIndex int

	guard guard.ConstructorGuard
}

func NewMarkStationsArrivedUpToCommand(orderNo string, targetIndex int) (MarkStationsArrivedUpToCommand, error) {
	orderNo, err := parseOrderNo(orderNo)
	if err != nil {
		return MarkStationsArrivedUpToCommand{}, err
	}

	return MarkStationsArrivedUpToCommand{
		orderNo:     orderNo,
		targetIndex: targetIndex,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c MarkStationsArrivedUpToCommand) Validate() error {
	return c.guard.Validate(ErrMarkStationsArrivedUpToCommandIsNotConstructed)
}

func (c MarkStationsArrivedUpToCommand) OrderNo() string {
	return c.orderNo
}

func (c MarkStationsArrivedUpToCommand) TargetIndex() int {
	return c.targetIndex
}

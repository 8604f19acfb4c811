package commands

import (
	"errors"
	"strings"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a request to register a new shipment order.
// Coordinates are optional; when present they must hold [lng, lat] and spare
// the route planner a geocoding round trip.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("SO20260101001", "sf",
//	    "北京市朝阳区建国路88号", []float64{116.46, 39.91},
//	    "上海市浦东新区世纪大道100号", nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderNo     string
	courierCode string
	origin      order.Address
	destination order.Address

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the order number, both addresses and any
// supplied coordinates.
func NewCreateOrderCommand(
	orderNo, courierCode string,
	origin string, originCoordinate []float64,
	destination string, destinationCoordinate []float64,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		courierCode: strings.TrimSpace(courierCode),
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderNo(orderNo),
		cmd.setOrigin(origin, originCoordinate),
		cmd.setDestination(destination, destinationCoordinate),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderNo() string {
	return c.orderNo
}

func (c CreateOrderCommand) CourierCode() string {
	return c.courierCode
}

func (c CreateOrderCommand) Origin() order.Address {
	return c.origin
}

func (c CreateOrderCommand) Destination() order.Address {
	return c.destination
}

func (c *CreateOrderCommand) setOrderNo(orderNo string) error {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return errs.NewValueIsRequiredError("orderNo")
	}

	c.orderNo = orderNo
	return nil
}

func (c *CreateOrderCommand) setOrigin(text string, components []float64) error {
	address, err := newAddress("origin", text, components)
	if err != nil {
		return err
	}

	c.origin = address
	return nil
}

func (c *CreateOrderCommand) setDestination(text string, components []float64) error {
	address, err := newAddress("destination", text, components)
	if err != nil {
		return err
	}

	c.destination = address
	return nil
}

func newAddress(param, text string, components []float64) (order.Address, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return order.Address{}, errs.NewValueIsRequiredError(param)
	}

	coordinate, _, err := kernel.CoordinateFromComponents(components)
	if err != nil {
		return order.Address{}, errs.NewValueIsInvalidErrorWithCause(param+" coordinate", err)
	}

	return order.Address{Text: text, Coordinate: coordinate}, nil
}

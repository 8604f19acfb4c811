package commands

import (
	"errors"
	"fmt"
	"strings"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var (
	ErrShipOrderCommandIsNotConstructed = errors.New(
		"ShipOrderCommand must be created via NewShipOrderCommand constructor",
	)
)

// StationInput is one caller supplied station. Coordinate holds [lng, lat] and
// may be empty.
type StationInput struct {
	Location   string
	Coordinate []float64
}

// ShipOrderCommand dispatches a pending order.
//
// With stations, they become the order's station sequence as given. Without
// stations the handler plans a route and ships along the first plan; a zero
// expected duration is then taken from that plan.
//
// Example:
//
//	cmd, err := NewShipOrderCommand("SO1", []StationInput{
//	    {Location: "北京市朝阳区"},
//	    {Location: "济南市历下区转运中心", Coordinate: []float64{117.03, 36.67}},
//	    {Location: "上海市浦东新区"},
//	}, 43200)
type ShipOrderCommand struct { //nolint:recvcheck //using for validation
	orderNo                 string
	stations                []order.StationDraft
	expectedDurationSeconds int

	guard guard.ConstructorGuard
}

func NewShipOrderCommand(orderNo string, stations []StationInput, expectedDurationSeconds int) (ShipOrderCommand, error) {
	cmd := ShipOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderNo(orderNo),
		cmd.setStations(stations),
		cmd.setExpectedDuration(expectedDurationSeconds),
	); err != nil {
		return ShipOrderCommand{}, err
	}

	return cmd, nil
}

func (c ShipOrderCommand) Validate() error {
	return c.guard.Validate(ErrShipOrderCommandIsNotConstructed)
}

func (c ShipOrderCommand) OrderNo() string {
	return c.orderNo
}

// Stations returns a copy of the requested station drafts; empty means plan a route.
func (c ShipOrderCommand) Stations() []order.StationDraft {
	return append([]order.StationDraft(nil), c.stations...)
}

func (c ShipOrderCommand) ExpectedDurationSeconds() int {
	return c.expectedDurationSeconds
}

func (c *ShipOrderCommand) setOrderNo(orderNo string) error {
	orderNo, err := parseOrderNo(orderNo)
	if err != nil {
		return err
	}

	c.orderNo = orderNo
	return nil
}

func (c *ShipOrderCommand) setStations(stations []StationInput) error {
	drafts := make([]order.StationDraft, 0, len(stations))
	var errList []error

	for i, s := range stations {
		location := strings.TrimSpace(s.Location)
		if location == "" {
			errList = append(errList, errs.NewValueIsRequiredErrorWithCause(
				"station location", fmt.Errorf("station %d has no location", i)))
			continue
		}

		coordinate, _, err := kernel.CoordinateFromComponents(s.Coordinate)
		if err != nil {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("station %d coordinate", i), err))
			continue
		}

		drafts = append(drafts, order.StationDraft{Location: location, Coordinate: coordinate})
	}

	if err := errors.Join(errList...); err != nil {
		return err
	}

	c.stations = drafts
	return nil
}

func (c *ShipOrderCommand) setExpectedDuration(seconds int) error {
	if seconds < 0 {
		return errs.NewValueIsOutOfRangeError("expected duration", seconds, 0, "unbounded")
	}

	c.expectedDurationSeconds = seconds
	return nil
}

package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/order"
)

// Station handlers update arrival state only. They do not consult the order
// status and write no operation log entry; a call that changes nothing
// writes nothing.

// MarkStationArrivedCommandHandler enforces the one-station-at-a-time rule.
//
// Errors:
//   - errs.ObjectNotFoundError for an unknown order or an order without stations
//   - errs.ValueIsOutOfRangeError for an index outside the station list
//   - errs.AlreadyArrivedError, leaving the original arrival time untouched
//   - errs.OutOfSequenceError when the previous station is still pending
type MarkStationArrivedCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewMarkStationArrivedCommandHandler(uowFactory OrderUoWFactory) MarkStationArrivedCommandHandler {
	return MarkStationArrivedCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns the updated station.
func (h MarkStationArrivedCommandHandler) Handle(ctx context.Context, cmd MarkStationArrivedCommand) (order.Station, error) {
	if err := cmd.Validate(); err != nil {
		return order.Station{}, err
	}

	var station order.Station
	err := inUnitOfWork(ctx, h.uowFactory, func(uow OrderUoW) error {
		orderRepo := uow.OrderRepository()

		o, err := orderRepo.GetForUpdate(ctx, cmd.OrderNo())
		if err != nil {
			return err
		}

		if station, err = o.MarkStationArrived(cmd.Index(), time.Now()); err != nil {
			return err
		}

		return orderRepo.Update(ctx, o)
	})
	if err != nil {
		return order.Station{}, err
	}

	return station, nil
}

// MarkAllStationsArrivedCommandHandler marks every pending station with one
// timestamp, ignoring sequencing. It is idempotent.
type MarkAllStationsArrivedCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewMarkAllStationsArrivedCommandHandler(uowFactory OrderUoWFactory) MarkAllStationsArrivedCommandHandler {
	return MarkAllStationsArrivedCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns how many stations changed.
func (h MarkAllStationsArrivedCommandHandler) Handle(ctx context.Context, cmd MarkAllStationsArrivedCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	var changed int
	err := inUnitOfWork(ctx, h.uowFactory, func(uow OrderUoW) error {
		orderRepo := uow.OrderRepository()

		o, err := orderRepo.GetForUpdate(ctx, cmd.OrderNo())
		if err != nil {
			return err
		}

		if changed, err = o.MarkAllStationsArrived(time.Now()); err != nil || changed == 0 {
			return err
		}

		return orderRepo.Update(ctx, o)
	})
	if err != nil {
		return 0, err
	}

	return changed, nil
}

// MarkStationsArrivedUpToCommandHandler marks the pending prefix of the
// station list up to a target index with one timestamp. It is idempotent.
type MarkStationsArrivedUpToCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewMarkStationsArrivedUpToCommandHandler(uowFactory OrderUoWFactory) MarkStationsArrivedUpToCommandHandler {
	return MarkStationsArrivedUpToCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns how many stations changed.
func (h MarkStationsArrivedUpToCommandHandler) Handle(
	ctx context.Context,
	cmd MarkStationsArrivedUpToCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	var changed int
	err := inUnitOfWork(ctx, h.uowFactory, func(uow OrderUoW) error {
		orderRepo := uow.OrderRepository()

		o, err := orderRepo.GetForUpdate(ctx, cmd.OrderNo())
		if err != nil {
			return err
		}

		if changed, err = o.MarkStationsArrivedUpTo(cmd.TargetIndex(), time.Now()); err != nil || changed == 0 {
			return err
		}

		return orderRepo.Update(ctx, o)
	})
	if err != nil {
		return 0, err
	}

	return changed, nil
}

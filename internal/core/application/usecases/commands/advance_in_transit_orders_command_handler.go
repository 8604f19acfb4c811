package commands

import (
	"context"
	"log/slog"
	"math"
	"time"

	"logistics/internal/core/domain/model/order"
)

// AdvanceInTransitOrdersCommandHandler drives station progress for every
// shipping order. For an order shipped at t0 with expected duration d and n
// stations, the target station at time t is floor(min(1, (t-t0)/d) * (n-1)).
// Orders without an expected duration jump to their last station.
//
// Each order advances in its own unit of work through the mark-up-to handler;
// a failing order is logged and skipped.
type AdvanceInTransitOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	markUpTo   MarkStationsArrivedUpToCommandHandler
	logger     *slog.Logger
}

func NewAdvanceInTransitOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	markUpTo MarkStationsArrivedUpToCommandHandler,
	logger *slog.Logger,
) AdvanceInTransitOrdersCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return AdvanceInTransitOrdersCommandHandler{
		uowFactory: uowFactory,
		markUpTo:   markUpTo,
		logger:     logger.With("component", "advance_in_transit"),
	}
}

// Handle returns the number of orders that had at least one station change.
func (h AdvanceInTransitOrdersCommandHandler) Handle(ctx context.Context, cmd AdvanceInTransitOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	orders, err := h.shippingOrders(ctx)
	if err != nil {
		return 0, err
	}

	advanced := 0
	for _, o := range orders {
		target, ok := progressTarget(o, cmd.Now())
		if !ok {
			continue
		}

		markCmd, err := NewMarkStationsArrivedUpToCommand(o.OrderNo(), target)
		if err != nil {
			return advanced, err
		}

		changed, err := h.markUpTo.Handle(ctx, markCmd)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to advance order", "order_no", o.OrderNo(), "error", err)
			continue
		}
		if changed > 0 {
			advanced++
		}
	}

	return advanced, nil
}

func (h AdvanceInTransitOrdersCommandHandler) shippingOrders(ctx context.Context) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().GetAllInStatus(ctx, order.Shipping)
}

// progressTarget reports false when nothing is due: no stations, no ship
// time, or the target station has already arrived.
func progressTarget(o *order.Order, now time.Time) (int, bool) {
	stations := o.Stations()
	if len(stations) == 0 || o.ShipTime() == nil {
		return 0, false
	}

	last := len(stations) - 1
	target := last
	if d := o.ExpectedDurationSeconds(); d > 0 {
		fraction := now.Sub(*o.ShipTime()).Seconds() / float64(d)
		fraction = math.Max(0, math.Min(1, fraction))
		target = int(math.Floor(fraction * float64(last)))
	}

	if stations[target].IsArrived() {
		return 0, false
	}
	return target, true
}

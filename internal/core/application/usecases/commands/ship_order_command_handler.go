package commands

import (
	"context"
	"errors"
	"time"

	"logistics/internal/core/domain/model/oplog"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/pkg/errs"
)

// ShipOrderCommandHandler dispatches a pending order: it assigns a tracking
// number, seeds the station sequence (origin station arrived), moves the order
// to shipping and logs (ship, pending, shipping), all in one unit of work.
//
// When the command carries no stations, the route is planned first with the
// default strategy, outside the transaction. A planning failure fails the ship
// and nothing is written.
//
// Example:
//
//	handler := NewShipOrderCommandHandler(uowFactory, trackingNumbers, geoRouter, fastest)
//	trackingNo, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrInvalidTransition) {
//	    // order already shipped, completed or cancelled
//	}
type ShipOrderCommandHandler struct {
	uowFactory      OrderUoWFactory
	trackingNumbers TrackingNumberIssuer
	planner         RoutePlanner
	defaultStrategy route.Strategy
}

// NewShipOrderCommandHandler creates the ship handler. planner may be nil, in
// which case ship commands must carry their stations.
func NewShipOrderCommandHandler(
	uowFactory OrderUoWFactory,
	trackingNumbers TrackingNumberIssuer,
	planner RoutePlanner,
	defaultStrategy route.Strategy,
) ShipOrderCommandHandler {
	return ShipOrderCommandHandler{
		uowFactory:      uowFactory,
		trackingNumbers: trackingNumbers,
		planner:         planner,
		defaultStrategy: defaultStrategy,
	}
}

// Handle ships the order and returns its new tracking number.
func (h ShipOrderCommandHandler) Handle(ctx context.Context, cmd ShipOrderCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	drafts := cmd.Stations()
	duration := cmd.ExpectedDurationSeconds()
	if len(drafts) == 0 {
		plan, err := h.planRoute(ctx, cmd.OrderNo())
		if err != nil {
			return "", err
		}

		drafts = plan.StationDrafts()
		if duration == 0 {
			duration = plan.DurationSeconds
		}
	}

	var trackingNo string
	err := inUnitOfWork(ctx, h.uowFactory, func(uow OrderUoW) error {
		orderRepo := uow.OrderRepository()

		o, err := orderRepo.GetForUpdate(ctx, cmd.OrderNo())
		if err != nil {
			return err
		}

		from := o.Status()
		now := time.Now()
		trackingNo = h.trackingNumbers.Generate(o.CourierCode(), now)
		if err = o.Ship(trackingNo, drafts, duration, now); err != nil {
			return err
		}

		entry, err := oplog.NewEntry(o.OrderNo(), oplog.ActionShip, from, o.Status(), now)
		if err != nil {
			return err
		}

		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}

		return uow.OperationLogRepository().Append(ctx, entry)
	})
	if err != nil {
		return "", err
	}

	return trackingNo, nil
}

// planRoute reads the order outside the write transaction so a slow provider
// never holds a row lock. The status is checked up front to avoid planning for
// an order that cannot ship; the write transaction checks it again.
func (h ShipOrderCommandHandler) planRoute(ctx context.Context, orderNo string) (route.Plan, error) {
	if h.planner == nil {
		return route.Plan{}, errs.NewValueIsRequiredError("stations")
	}

	o, err := h.readOrder(ctx, orderNo)
	if err != nil {
		return route.Plan{}, err
	}
	if !order.CanTransition(o.Status(), order.Shipping) {
		return route.Plan{}, errs.NewInvalidTransitionError(o.Status().String(), order.Shipping.String())
	}

	plans, err := h.planner.Plan(ctx, route.Request{
		Origin:                o.Origin().Text,
		Destination:           o.Destination().Text,
		OriginCoordinate:      o.Origin().Coordinate,
		DestinationCoordinate: o.Destination().Coordinate,
		Strategies:            []route.Strategy{h.defaultStrategy},
	})
	if err != nil {
		return route.Plan{}, err
	}
	if len(plans) == 0 {
		return route.Plan{}, errs.NewRoutePlanningFailedError(
			o.Origin().Text, o.Destination().Text, errors.New("no route returned"))
	}

	return plans[0], nil
}

func (h ShipOrderCommandHandler) readOrder(ctx context.Context, orderNo string) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().Get(ctx, orderNo)
}

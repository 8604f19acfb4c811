package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/oplog"
)

// ReceiveOrderCommandHandler completes an order and records (receive, shipping, completed).
//
// Errors, in the order they are checked:
//   - errs.ObjectNotFoundError for an unknown order
//   - errs.InvalidTransitionError unless the order is shipping
//   - errs.NotArrivedError while the last station is pending or there are no stations
type ReceiveOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewReceiveOrderCommandHandler(uowFactory OrderUoWFactory) ReceiveOrderCommandHandler {
	return ReceiveOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h ReceiveOrderCommandHandler) Handle(ctx context.Context, cmd ReceiveOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return inUnitOfWork(ctx, h.uowFactory, func(uow OrderUoW) error {
		orderRepo := uow.OrderRepository()

		o, err := orderRepo.GetForUpdate(ctx, cmd.OrderNo())
		if err != nil {
			return err
		}

		from := o.Status()
		now := time.Now()
		if err = o.Receive(now); err != nil {
			return err
		}

		entry, err := oplog.NewEntry(o.OrderNo(), oplog.ActionReceive, from, o.Status(), now)
		if err != nil {
			return err
		}

		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}

		return uow.OperationLogRepository().Append(ctx, entry)
	})
}

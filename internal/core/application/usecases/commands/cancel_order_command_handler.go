package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/oplog"
)

// CancelOrderCommandHandler cancels an order and logs the status it left.
// Completed orders may still be cancelled; cancelled ones fail with
// errs.InvalidTransitionError.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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
		if err = o.Cancel(now); err != nil {
			return err
		}

		entry, err := oplog.NewEntry(o.OrderNo(), oplog.ActionCancel, from, o.Status(), now)
		if err != nil {
			return err
		}

		if err = orderRepo.Update(ctx, o); err != nil {
			return err
		}

		return uow.OperationLogRepository().Append(ctx, entry)
	})
}

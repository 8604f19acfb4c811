package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/oplog"
	"logistics/internal/core/domain/model/order"
)

// CreateOrderCommandHandler registers a pending order and records the
// creation in the operation log within one unit of work.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	cmd, _ := NewCreateOrderCommand("SO1", "zto", "杭州市西湖区", nil, "成都市武侯区", nil)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// Order is now pending and ready to ship
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires an OrderUoWFactory for transactional persistence.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command.
// A duplicate order number surfaces as the repository's errs.ValueIsInvalidError.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now()
	o, err := order.NewOrder(cmd.OrderNo(), cmd.CourierCode(), cmd.Origin(), cmd.Destination(), now)
	if err != nil {
		return err
	}

	entry, err := oplog.NewEntry(o.OrderNo(), oplog.ActionCreate, order.Unknown, order.Pending, now)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	if err = uow.OperationLogRepository().Append(ctx, entry); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

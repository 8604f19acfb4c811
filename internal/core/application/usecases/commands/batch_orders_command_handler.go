package commands

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	msgEmptyOrderList     = "order list is empty"
	msgBatchShipRefused   = "batch ship is not supported, ship orders one by one with a chosen route"
	msgBatchReceiveAll    = "received %d orders"
	msgBatchReceivePartly = "received %d orders, %d failed"
)

// BatchReceiveOrdersCommandHandler runs the single-order receive for each
// order number in turn. Each receive is its own unit of work, so one failure
// never affects another order.
type BatchReceiveOrdersCommandHandler struct {
	receive ReceiveOrderCommandHandler
	logger  *slog.Logger
}

func NewBatchReceiveOrdersCommandHandler(
	receive ReceiveOrderCommandHandler,
	logger *slog.Logger,
) BatchReceiveOrdersCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return BatchReceiveOrdersCommandHandler{
		receive: receive,
		logger:  logger.With("component", "batch_receive"),
	}
}

// Handle always reports a complete result; the error is reserved for an
// unconstructed command.
func (h BatchReceiveOrdersCommandHandler) Handle(ctx context.Context, cmd BatchReceiveOrdersCommand) (BatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return BatchResult{}, err
	}

	orderNos := cmd.OrderNos()
	if len(orderNos) == 0 {
		return BatchResult{
			Outcome:      BatchFailure,
			FailedOrders: []string{},
			Message:      msgEmptyOrderList,
		}, nil
	}

	result := BatchResult{FailedOrders: []string{}}
	for _, orderNo := range orderNos {
		if err := h.receiveOne(ctx, orderNo); err != nil {
			h.logger.WarnContext(ctx, "batch receive item failed", "order_no", orderNo, "error", err)
			result.FailedOrders = append(result.FailedOrders, orderNo)
			continue
		}
		result.SuccessCount++
	}
	result.FailedCount = len(result.FailedOrders)

	switch {
	case result.FailedCount == 0:
		result.Outcome = BatchSuccess
		result.Message = fmt.Sprintf(msgBatchReceiveAll, result.SuccessCount)
	case result.SuccessCount == 0:
		result.Outcome = BatchFailure
		result.Message = fmt.Sprintf(msgBatchReceivePartly, result.SuccessCount, result.FailedCount)
	default:
		result.Outcome = BatchPartial
		result.Message = fmt.Sprintf(msgBatchReceivePartly, result.SuccessCount, result.FailedCount)
	}

	return result, nil
}

func (h BatchReceiveOrdersCommandHandler) receiveOne(ctx context.Context, orderNo string) error {
	cmd, err := NewReceiveOrderCommand(orderNo)
	if err != nil {
		return err
	}
	return h.receive.Handle(ctx, cmd)
}

// BatchShipOrdersCommandHandler refuses every batch ship without touching the store.
type BatchShipOrdersCommandHandler struct{}

func NewBatchShipOrdersCommandHandler() BatchShipOrdersCommandHandler {
	return BatchShipOrdersCommandHandler{}
}

func (h BatchShipOrdersCommandHandler) Handle(_ context.Context, cmd BatchShipOrdersCommand) (BatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return BatchResult{}, err
	}

	failed := cmd.OrderNos()
	return BatchResult{
		Outcome:      BatchFailure,
		FailedCount:  len(failed),
		FailedOrders: failed,
		Message:      msgBatchShipRefused,
	}, nil
}

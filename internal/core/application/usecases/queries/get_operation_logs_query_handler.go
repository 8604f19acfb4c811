package queries

import (
	"context"
)

// GetOperationLogsQueryHandler returns an empty list for unknown orders.
type GetOperationLogsQueryHandler struct {
	logs OperationLogReader
}

func NewGetOperationLogsQueryHandler(logs OperationLogReader) GetOperationLogsQueryHandler {
	return GetOperationLogsQueryHandler{logs: logs}
}

func (h GetOperationLogsQueryHandler) Handle(
	ctx context.Context,
	query GetOperationLogsQuery,
) ([]OperationLogResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries, err := h.logs.ListByOrder(ctx, query.OrderNo())
	if err != nil {
		return nil, err
	}

	out := make([]OperationLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, newOperationLogResponse(e))
	}
	return out, nil
}

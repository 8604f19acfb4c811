package ports

import (
	"context"

	"logistics/internal/core/domain/model/oplog"
)

// OperationLogRepository is the append-only store of lifecycle transitions.
type OperationLogRepository interface {
	// Append stores one entry. Entries are never updated or deleted.
	Append(ctx context.Context, entry *oplog.Entry) error

	// ListByOrder returns the entries of an order, most recent first.
	// Unknown orders yield an empty list, not an error.
	ListByOrder(ctx context.Context, orderNo string) ([]*oplog.Entry, error)
}

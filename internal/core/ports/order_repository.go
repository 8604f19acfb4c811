// Package ports defines the contracts between the logistics core and its
// infrastructure: the order and operation log stores, the unit of work that makes
// a read-modify-write atomic, and the mapping provider used for route planning.
package ports

import (
	"context"

	"logistics/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Orders are addressed by their business number.
type OrderRepository interface {
	// Add persists a new order. A duplicate order number is reported as
	// errs.ValueIsInvalidError for "orderNo".
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the aggregate if the stored version still equals
	// aggregate.Version(), and bumps the stored version.
	// Returns errs.VersionIsInvalidError when another writer got there first and
	// errs.ObjectNotFoundError when the order does not exist.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns the order or errs.ObjectNotFoundError.
	Get(ctx context.Context, orderNo string) (*order.Order, error)

	// GetForUpdate is Get plus a write lock held until the unit of work ends,
	// where the backend supports one. Backends without row locks rely on the
	// version check in Update.
	GetForUpdate(ctx context.Context, orderNo string) (*order.Order, error)

	// GetAllInStatus lists orders in the given status, oldest first.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}

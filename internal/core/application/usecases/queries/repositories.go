// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models shaped for the HTTP surface and never mutate state.
package queries

import (
	"context"

	"logistics/internal/core/domain/model/oplog"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/route"
)

// Read side collaborators. Every store backend provides them outside a unit of
// work; the route planner is the GeoRouter.
type (
	OrderReader interface {
		Get(ctx context.Context, orderNo string) (*order.Order, error)
	}

	OperationLogReader interface {
		ListByOrder(ctx context.Context, orderNo string) ([]*oplog.Entry, error)
	}

	RoutePlanner interface {
		Plan(ctx context.Context, req route.Request) ([]route.Plan, error)
	}
)

// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"
	"errors"
	"time"

	"logistics/internal/core/domain/model/route"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
)

// Unit of Work interfaces provide transaction management for command handlers.
// An order change and the operation log entry describing it always commit together.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OperationLogRepoFactory provides access to the operation log within a transaction.
	OperationLogRepoFactory interface {
		OperationLogRepository() ports.OperationLogRepository
	}

	// OrderUoW manages transactions for order lifecycle operations.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, orderNo)
	//   // ... mutate o
	//   err = uow.OrderRepository().Update(ctx, o)
	//   err = uow.OperationLogRepository().Append(ctx, entry)
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		OperationLogRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// Collaborators used by the ship and station progress handlers.
type (
	// TrackingNumberIssuer hands out tracking numbers at ship time.
	TrackingNumberIssuer interface {
		Generate(courierCode string, now time.Time) string
	}

	// RoutePlanner produces candidate routes when a ship command carries no stations.
	RoutePlanner interface {
		Plan(ctx context.Context, req route.Request) ([]route.Plan, error)
	}
)

// maxConflictRetries bounds how often a read-modify-write is replayed after
// losing an optimistic version check to a concurrent writer.
const maxConflictRetries = 3

// inUnitOfWork runs fn inside a fresh unit of work and commits when fn
// succeeds. Conflicting concurrent updates are replayed from scratch up to
// maxConflictRetries times; every other error is returned as is.
func inUnitOfWork(ctx context.Context, factory OrderUoWFactory, fn func(uow OrderUoW) error) error {
	var err error
	for range maxConflictRetries {
		err = runUnitOfWork(ctx, factory, fn)
		if !errors.Is(err, errs.ErrVersionIsInvalid) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

func runUnitOfWork(ctx context.Context, factory OrderUoWFactory, fn func(uow OrderUoW) error) error {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := fn(uow); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

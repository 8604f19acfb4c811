// Package postgres provides the GORM-based Unit of Work over the order and
// operation log tables.
//
// A lifecycle command reads the order with GetForUpdate, which takes a row
// lock, applies the transition, writes the order with a version check and
// appends the log entry. All of it commits or rolls back together:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, orderNo)
//	if err != nil {
//	    return err
//	}
//	// ... transition o ...
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	if err := uow.OperationLogRepository().Append(ctx, entry); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance holds at most one transaction; goroutines must use
// separate instances.
package postgres

import (
	"context"
	"io"
	"log/slog"

	"logistics/internal/adapters/out/postgres/oplogrepo"
	"logistics/internal/adapters/out/postgres/orderrepo"
	"logistics/internal/core/ports"

	"gorm.io/gorm"
)

// TrackedAggregate is an aggregate written during the unit of work.
type TrackedAggregate struct {
	Key       string
	Aggregate any
}

// Models lists the persisted DTOs for schema migration.
func Models() []any {
	return []any{&orderrepo.OrderDTO{}, &oplogrepo.OperationLogDTO{}}
}

// AutoMigrate creates or updates the order and operation log tables.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(Models()...)
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance.
type GormUnitOfWorkFactory struct {
	db     *gorm.DB
	logger *slog.Logger
}

// FactoryOption customizes a GormUnitOfWorkFactory.
type FactoryOption func(*GormUnitOfWorkFactory)

// WithLogger makes every unit of work report the orders written by each commit
// at debug level.
func WithLogger(logger *slog.Logger) FactoryOption {
	return func(f *GormUnitOfWorkFactory) {
		if logger != nil {
			f.logger = logger.With("component", "unit_of_work")
		}
	}
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db, WithLogger(logger))
func NewGormUnitOfWorkFactory(db *gorm.DB, opts ...FactoryOption) *GormUnitOfWorkFactory {
	f := &GormUnitOfWorkFactory{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create produces a new UnitOfWork with its own transaction state.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		logger:            f.logger,
		trackedAggregates: make([]TrackedAggregate, 0),
	}
}

// Orders returns an order repository outside any transaction, for queries.
func (f *GormUnitOfWorkFactory) Orders() *orderrepo.GormOrderRepository {
	return orderrepo.NewGormOrderRepository(f.db, discardTracker{})
}

// OperationLogs returns an operation log repository outside any transaction, for queries.
func (f *GormUnitOfWorkFactory) OperationLogs() *oplogrepo.GormOperationLogRepository {
	return oplogrepo.NewGormOperationLogRepository(f.db)
}

// GormUnitOfWork coordinates one database transaction and records the
// aggregates written through it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	logger            *slog.Logger
	trackedAggregates []TrackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return err
	}

	if len(uow.trackedAggregates) > 0 {
		keys := make([]string, 0, len(uow.trackedAggregates))
		for _, a := range uow.trackedAggregates {
			keys = append(keys, a.Key)
		}
		uow.logger.DebugContext(ctx, "committed", slog.Any("orders", keys))
	}
	return nil
}

// Rollback discards all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active, which makes
// a deferred Rollback after Commit harmless.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// OrderRepository provides order persistence bound to the current
// transaction, or to the main connection when none is active.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// OperationLogRepository provides log persistence bound to the current
// transaction, or to the main connection when none is active.
func (uow *GormUnitOfWork) OperationLogRepository() ports.OperationLogRepository {
	return oplogrepo.NewGormOperationLogRepository(uow.conn())
}

// TrackAggregate registers an aggregate as written within this unit of work.
// Called by repository implementations.
func (uow *GormUnitOfWork) TrackAggregate(key string, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, TrackedAggregate{
		Key:       key,
		Aggregate: aggregate,
	})
}

// TrackedAggregates returns the aggregates written so far.
func (uow *GormUnitOfWork) TrackedAggregates() []TrackedAggregate {
	return append([]TrackedAggregate(nil), uow.trackedAggregates...)
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

type discardTracker struct{}

func (discardTracker) TrackAggregate(string, any) {}

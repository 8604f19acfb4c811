package memory

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/oplog"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
)

var ErrNoActiveTransaction = errors.New("no active transaction")

type stagedOrder struct {
	snapshot order.Snapshot
	isNew    bool
}

// UnitOfWork stages writes until Commit. Outside Begin/Commit its
// repositories write through immediately.
type UnitOfWork struct {
	store   *Store
	active  bool
	orders  []stagedOrder
	entries []*oplog.Entry
}

// Begin is a no-op when a transaction is already open.
func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if uow.active {
		return nil
	}

	uow.active = true
	uow.reset()
	return nil
}

func (uow *UnitOfWork) Commit(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}

	err := uow.store.apply(uow.orders, uow.entries)
	uow.active = false
	uow.reset()
	return err
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}

	uow.active = false
	uow.reset()
	return nil
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: uow}
}

func (uow *UnitOfWork) OperationLogRepository() ports.OperationLogRepository {
	return &operationLogRepository{uow: uow}
}

func (uow *UnitOfWork) reset() {
	uow.orders = nil
	uow.entries = nil
}

func (uow *UnitOfWork) stageOrder(staged stagedOrder) error {
	if !uow.active {
		return uow.store.apply([]stagedOrder{staged}, nil)
	}

	for i := range uow.orders {
		if uow.orders[i].snapshot.OrderNo == staged.snapshot.OrderNo {
			staged.isNew = uow.orders[i].isNew
			uow.orders[i] = staged
			return nil
		}
	}
	uow.orders = append(uow.orders, staged)
	return nil
}

func (uow *UnitOfWork) findStaged(orderNo string) (stagedOrder, bool) {
	for _, staged := range uow.orders {
		if staged.snapshot.OrderNo == orderNo {
			return staged, true
		}
	}
	return stagedOrder{}, false
}

func (uow *UnitOfWork) stageEntry(entry *oplog.Entry) error {
	if !uow.active {
		return uow.store.apply(nil, []*oplog.Entry{entry})
	}

	uow.entries = append(uow.entries, entry)
	return nil
}

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	orderNo := aggregate.OrderNo()
	if _, ok := r.uow.findStaged(orderNo); ok {
		return errs.NewValueIsInvalidError("orderNo")
	}
	if _, ok := r.uow.store.snapshot(orderNo); ok {
		return errs.NewValueIsInvalidError("orderNo")
	}

	return r.uow.stageOrder(stagedOrder{snapshot: aggregate.Snapshot(), isNew: true})
}

func (r *orderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	orderNo := aggregate.OrderNo()
	expected, ok := r.uow.findStaged(orderNo)
	if !ok {
		committed, exists := r.uow.store.snapshot(orderNo)
		if !exists {
			return errs.NewObjectNotFoundError("order", orderNo)
		}
		expected = stagedOrder{snapshot: committed}
	}
	if expected.snapshot.Version != aggregate.Version() {
		return errs.NewVersionIsInvalidError("order", nil)
	}

	return r.uow.stageOrder(stagedOrder{snapshot: aggregate.Snapshot(), isNew: expected.isNew})
}

func (r *orderRepository) Get(ctx context.Context, orderNo string) (*order.Order, error) {
	if staged, ok := r.uow.findStaged(orderNo); ok {
		return order.RestoreOrder(staged.snapshot)
	}
	return r.uow.store.Get(ctx, orderNo)
}

// GetForUpdate takes no lock; Update detects concurrent writers by version.
func (r *orderRepository) GetForUpdate(ctx context.Context, orderNo string) (*order.Order, error) {
	return r.Get(ctx, orderNo)
}

func (r *orderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	return r.uow.store.GetAllInStatus(ctx, status)
}

type operationLogRepository struct {
	uow *UnitOfWork
}

func (r *operationLogRepository) Append(ctx context.Context, entry *oplog.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.uow.stageEntry(entry)
}

func (r *operationLogRepository) ListByOrder(ctx context.Context, orderNo string) ([]*oplog.Entry, error) {
	return r.uow.store.ListByOrder(ctx, orderNo)
}

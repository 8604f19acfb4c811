package commands_test

import (
	"context"
	"testing"
	"time"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/oplog"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, orderNo string) (*order.Order, error) {
	args := m.Called(ctx, orderNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, orderNo string) (*order.Order, error) {
	args := m.Called(ctx, orderNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOperationLogRepository struct{ mock.Mock }

func (m *MockOperationLogRepository) Append(ctx context.Context, entry *oplog.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockOperationLogRepository) ListByOrder(ctx context.Context, orderNo string) ([]*oplog.Entry, error) {
	args := m.Called(ctx, orderNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*oplog.Entry), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockOrderUoW) OperationLogRepository() ports.OperationLogRepository {
	args := m.Called()
	return args.Get(0).(ports.OperationLogRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockTrackingNumberIssuer struct{ mock.Mock }

func (m *MockTrackingNumberIssuer) Generate(courierCode string, now time.Time) string {
	args := m.Called(courierCode, now)
	return args.String(0)
}

type MockRoutePlanner struct{ mock.Mock }

func (m *MockRoutePlanner) Plan(ctx context.Context, req route.Request) ([]route.Plan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]route.Plan), args.Error(1)
}

var createdAt = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func pendingOrder(t *testing.T, orderNo string) *order.Order {
	t.Helper()

	o, err := order.NewOrder(orderNo, "sf",
		order.Address{Text: "北京市朝阳区"},
		order.Address{Text: "上海市浦东新区"},
		createdAt)
	require.NoError(t, err)
	return o
}

func stationDrafts(names ...string) []order.StationDraft {
	drafts := make([]order.StationDraft, 0, len(names))
	for _, name := range names {
		drafts = append(drafts, order.StationDraft{Location: name})
	}
	return drafts
}

// shippingOrder ships an order at shipTime along the named stations.
func shippingOrder(t *testing.T, orderNo string, shipTime time.Time, duration int, stations ...string) *order.Order {
	t.Helper()

	o := pendingOrder(t, orderNo)
	require.NoError(t, o.Ship("SF202605010900000001", stationDrafts(stations...), duration, shipTime))
	return o
}

func mustCoordinate(t *testing.T, lng, lat float64) kernel.Coordinate {
	t.Helper()

	c, err := kernel.NewCoordinate(lng, lat)
	require.NoError(t, err)
	return c
}

// expectUnitOfWork wires factory -> uow -> repositories for one unit of work
// that is begun, committed and rolled back by the deferred cleanup.
func expectUnitOfWork(ctx context.Context, factory *MockOrderUoWFactory) (*MockOrderUoW, *MockOrderRepository, *MockOperationLogRepository) {
	uow := new(MockOrderUoW)
	orderRepo := new(MockOrderRepository)
	logRepo := new(MockOperationLogRepository)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Maybe()
	uow.On("OperationLogRepository").Return(logRepo).Maybe()
	uow.On("Rollback", ctx).Return(nil).Once()

	return uow, orderRepo, logRepo
}

func entryMatching(action oplog.Action, from, to order.Status) any {
	return mock.MatchedBy(func(e *oplog.Entry) bool {
		return e.Action() == action && e.FromStatus() == from && e.ToStatus() == to &&
			e.Operator() == oplog.SystemOperator
	})
}

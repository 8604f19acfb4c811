package queries_test

import (
	"context"
	"testing"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/oplog"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/route"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, orderNo string) (*order.Order, error) {
	args := m.Called(ctx, orderNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockOperationLogReader struct{ mock.Mock }

func (m *MockOperationLogReader) ListByOrder(ctx context.Context, orderNo string) ([]*oplog.Entry, error) {
	args := m.Called(ctx, orderNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*oplog.Entry), args.Error(1)
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

func mustCoordinate(t *testing.T, lng, lat float64) kernel.Coordinate {
	t.Helper()
	c, err := kernel.NewCoordinate(lng, lat)
	require.NoError(t, err)
	return c
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder("SO1", "zto",
		order.Address{Text: "杭州市西湖区", Coordinate: mustCoordinate(t, 120.13, 30.26)},
		order.Address{Text: "成都市武侯区"},
		createdAt)
	require.NoError(t, err)
	return o
}

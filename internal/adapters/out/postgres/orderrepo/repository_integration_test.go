package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"logistics/internal/adapters/out/postgres/orderrepo"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(key string, aggregate any) {
	m.Called(key, aggregate)
}

// OrderRepositoryIntegrationTestSuite runs the repository against a real
// PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
	baseTime   time.Time
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
	suite.baseTime = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(orderNo string, createTime time.Time) *order.Order {
	origin, err := kernel.NewCoordinate(113.324520, 23.099994)
	suite.Require().NoError(err)

	o, err := order.NewOrder(orderNo, "zto",
		order.Address{Text: "广州市天河区", Coordinate: origin},
		order.Address{Text: "深圳市南山区"},
		createTime)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) addOrder(orderNo string, createTime time.Time) *order.Order {
	o := suite.newOrder(orderNo, createTime)
	suite.Require().NoError(suite.repository.Add(context.Background(), o))
	stored, err := suite.repository.Get(context.Background(), orderNo)
	suite.Require().NoError(err)
	return stored
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_RoundTrip() {
	ctx := context.Background()
	o := suite.newOrder("SO1", suite.baseTime)

	suite.Require().NoError(suite.repository.Add(ctx, o))

	stored, err := suite.repository.Get(ctx, "SO1")
	suite.Require().NoError(err)
	suite.Equal("SO1", stored.OrderNo())
	suite.Equal("zto", stored.CourierCode())
	suite.Equal(order.Pending, stored.Status())
	suite.Equal(1, stored.Version())
	suite.Empty(stored.TrackingNo())
	suite.Empty(stored.Stations())
	suite.True(stored.Origin().HasCoordinate())
	suite.InDelta(113.324520, stored.Origin().Coordinate.Lng(), 1e-9)
	suite.False(stored.Destination().HasCoordinate())
	suite.True(suite.baseTime.Equal(stored.CreateTime()))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", "SO1", o)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateOrderNo() {
	ctx := context.Background()
	suite.addOrder("SO1", suite.baseTime)

	err := suite.repository.Add(ctx, suite.newOrder("SO1", suite.baseTime))

	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
	suite.Contains(err.Error(), "orderNo")
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsShipment() {
	ctx := context.Background()
	o := suite.addOrder("SO1", suite.baseTime)

	hub, err := kernel.NewCoordinate(114.057868, 22.543099)
	suite.Require().NoError(err)
	shipTime := suite.baseTime.Add(time.Hour)
	suite.Require().NoError(o.Ship("ZTO202603010900001234", []order.StationDraft{
		{Location: "广州市天河区"},
		{Location: "东莞市转运中心"},
		{Location: "深圳市南山区", Coordinate: hub},
	}, 7200, shipTime))

	suite.Require().NoError(suite.repository.Update(ctx, o))

	stored, err := suite.repository.Get(ctx, "SO1")
	suite.Require().NoError(err)
	suite.Equal(order.Shipping, stored.Status())
	suite.Equal("ZTO202603010900001234", stored.TrackingNo())
	suite.Equal(7200, stored.ExpectedDurationSeconds())
	suite.Equal(2, stored.Version())

	stations := stored.Stations()
	suite.Require().Len(stations, 3)
	suite.True(stations[0].IsArrived())
	suite.True(shipTime.Equal(*stations[0].ArrivalTime()))
	suite.False(stations[1].IsArrived())
	suite.Equal("东莞市转运中心", stations[1].Location())
	suite.True(stations[1].Coordinate().IsZero())
	suite.True(hub.IsEqual(stations[2].Coordinate()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion() {
	ctx := context.Background()
	first := suite.addOrder("SO1", suite.baseTime)
	second, err := suite.repository.Get(ctx, "SO1")
	suite.Require().NoError(err)

	suite.Require().NoError(first.Cancel(suite.baseTime.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.Ship("T1", []order.StationDraft{{Location: "a"}}, 0, suite.baseTime.Add(time.Hour)))
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
	stored, getErr := suite.repository.Get(ctx, "SO1")
	suite.Require().NoError(getErr)
	suite.Equal(order.Cancelled, stored.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_MissingOrder() {
	err := suite.repository.Update(context.Background(), suite.newOrder("SO-MISSING", suite.baseTime))

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	o, err := suite.repository.Get(context.Background(), "SO-MISSING")

	suite.Nil(o)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_InsideTransaction() {
	ctx := context.Background()
	suite.addOrder("SO1", suite.baseTime)

	err := suite.db.Transaction(func(tx *gorm.DB) error {
		repo := orderrepo.NewGormOrderRepository(tx, suite.tracker)
		o, err := repo.GetForUpdate(ctx, "SO1")
		if err != nil {
			return err
		}
		suite.Equal("SO1", o.OrderNo())
		return nil
	})

	suite.Require().NoError(err)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllInStatus_OldestFirst() {
	ctx := context.Background()
	suite.addOrder("SO-B", suite.baseTime.Add(time.Minute))
	suite.addOrder("SO-A", suite.baseTime.Add(time.Minute))
	suite.addOrder("SO-C", suite.baseTime)
	cancelled := suite.addOrder("SO-D", suite.baseTime)
	suite.Require().NoError(cancelled.Cancel(suite.baseTime))
	suite.Require().NoError(suite.repository.Update(ctx, cancelled))

	orders, err := suite.repository.GetAllInStatus(ctx, order.Pending)

	suite.Require().NoError(err)
	orderNos := make([]string, 0, len(orders))
	for _, o := range orders {
		orderNos = append(orderNos, o.OrderNo())
	}
	suite.Equal([]string{"SO-C", "SO-A", "SO-B"}, orderNos)

	none, err := suite.repository.GetAllInStatus(ctx, order.Completed)
	suite.Require().NoError(err)
	suite.Empty(none)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}

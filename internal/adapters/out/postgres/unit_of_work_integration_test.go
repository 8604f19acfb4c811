package postgres_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	postgres_adapter "logistics/internal/adapters/out/postgres"
	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/domain/model/oplog"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/core/domain/services"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type orderUoWFactory struct {
	factory *postgres_adapter.GormUnitOfWorkFactory
}

func (f orderUoWFactory) Create() commands.OrderUoW {
	return f.factory.Create()
}

// UnitOfWorkIntegrationTestSuite exercises the unit of work and the command
// handlers on top of it against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres_adapter.GormUnitOfWorkFactory
	logs      *bytes.Buffer
	baseTime  time.Time
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.AutoMigrate(ctx, db))

	suite.logs = &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(suite.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db, postgres_adapter.WithLogger(logger))
	suite.baseTime = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, operation_logs").Error)
	suite.logs.Reset()
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(orderNo string) *order.Order {
	o, err := order.NewOrder(orderNo, "sf",
		order.Address{Text: "杭州市西湖区"},
		order.Address{Text: "苏州市姑苏区"},
		suite.baseTime)
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) createEntry(orderNo string, at time.Time) *oplog.Entry {
	entry, err := oplog.NewEntry(orderNo, oplog.ActionCreate, order.Unknown, order.Pending, at)
	suite.Require().NoError(err)
	return entry
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitsOrderAndLogTogether() {
	ctx := context.Background()
	uow := suite.factory.Create()
	o := suite.newOrder("SO1")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.OperationLogRepository().Append(ctx, suite.createEntry("SO1", suite.baseTime)))

	_, err := suite.factory.Orders().Get(ctx, "SO1")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound, "uncommitted order must not be visible")

	suite.Require().NoError(uow.Commit(ctx))

	stored, err := suite.factory.Orders().Get(ctx, "SO1")
	suite.Require().NoError(err)
	suite.Equal(order.Pending, stored.Status())

	entries, err := suite.factory.OperationLogs().ListByOrder(ctx, "SO1")
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal(order.Unknown, entries[0].FromStatus())
	suite.Equal(oplog.SystemOperator, entries[0].Operator())

	tracked := uow.(*postgres_adapter.GormUnitOfWork).TrackedAggregates()
	suite.Require().Len(tracked, 1)
	suite.Equal("SO1", tracked[0].Key)
	suite.Same(o, tracked[0].Aggregate)
	suite.Contains(suite.logs.String(), "msg=committed")
	suite.Contains(suite.logs.String(), "orders=[SO1]")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsEverything() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.newOrder("SO1")))
	suite.Require().NoError(uow.OperationLogRepository().Append(ctx, suite.createEntry("SO1", suite.baseTime)))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Orders().Get(ctx, "SO1")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	entries, err := suite.factory.OperationLogs().ListByOrder(ctx, "SO1")
	suite.Require().NoError(err)
	suite.Empty(entries)
	suite.Empty(uow.(*postgres_adapter.GormUnitOfWork).TrackedAggregates())
	suite.NotContains(suite.logs.String(), "committed")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.OrderRepository().Add(ctx, suite.newOrder("SO1")))

	stored, err := suite.factory.Orders().Get(ctx, "SO1")
	suite.Require().NoError(err)
	suite.Equal("SO1", stored.OrderNo())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOperationLogs_MostRecentFirst() {
	ctx := context.Background()
	logs := suite.factory.OperationLogs()

	ship, err := oplog.NewEntry("SO1", oplog.ActionShip, order.Pending, order.Shipping, suite.baseTime.Add(time.Hour))
	suite.Require().NoError(err)
	cancel, err := oplog.NewEntry("SO1", oplog.ActionCancel, order.Shipping, order.Cancelled, suite.baseTime.Add(time.Hour))
	suite.Require().NoError(err)

	suite.Require().NoError(logs.Append(ctx, suite.createEntry("SO1", suite.baseTime)))
	suite.Require().NoError(logs.Append(ctx, ship))
	suite.Require().NoError(logs.Append(ctx, cancel.WithRemark("customer request")))
	suite.Require().NoError(logs.Append(ctx, suite.createEntry("SO2", suite.baseTime)))

	entries, err := logs.ListByOrder(ctx, "SO1")

	suite.Require().NoError(err)
	suite.Require().Len(entries, 3)
	suite.Equal(oplog.ActionCancel, entries[0].Action())
	suite.Equal("customer request", entries[0].Remark())
	suite.True(cancel.ID().IsEqual(entries[0].ID()))
	suite.Equal(oplog.ActionShip, entries[1].Action())
	suite.Equal(oplog.ActionCreate, entries[2].Action())

	none, err := logs.ListByOrder(ctx, "SO-UNKNOWN")
	suite.Require().NoError(err)
	suite.NotNil(none)
	suite.Empty(none)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestLifecycle_ShipArriveReceive() {
	ctx := context.Background()
	factory := orderUoWFactory{factory: suite.factory}

	trackingNumbers, err := services.NewTrackingNumberGenerator(map[string]string{"sf": "SF"}, "YD")
	suite.Require().NoError(err)
	fastest := route.Strategy{Key: route.Fastest, Name: "最快路线", Tag: "primary"}

	createCmd, err := commands.NewCreateOrderCommand("SO1", "sf", "杭州市西湖区", nil, "苏州市姑苏区", nil)
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewCreateOrderCommandHandler(factory).Handle(ctx, createCmd))

	shipCmd, err := commands.NewShipOrderCommand("SO1", []commands.StationInput{
		{Location: "杭州市西湖区"},
		{Location: "嘉兴市转运中心", Coordinate: []float64{120.755486, 30.746129}},
		{Location: "苏州市姑苏区"},
	}, 10800)
	suite.Require().NoError(err)
	trackingNo, err := commands.NewShipOrderCommandHandler(factory, trackingNumbers, nil, fastest).Handle(ctx, shipCmd)
	suite.Require().NoError(err)
	suite.Regexp(`^SF\d{18}$`, trackingNo)

	receiveCmd, err := commands.NewReceiveOrderCommand("SO1")
	suite.Require().NoError(err)
	receive := commands.NewReceiveOrderCommandHandler(factory)
	suite.Require().ErrorIs(receive.Handle(ctx, receiveCmd), errs.ErrNotArrived)

	arriveCmd, err := commands.NewMarkAllStationsArrivedCommand("SO1")
	suite.Require().NoError(err)
	changed, err := commands.NewMarkAllStationsArrivedCommandHandler(factory).Handle(ctx, arriveCmd)
	suite.Require().NoError(err)
	suite.Equal(2, changed)

	suite.Require().NoError(receive.Handle(ctx, receiveCmd))

	stored, err := suite.factory.Orders().Get(ctx, "SO1")
	suite.Require().NoError(err)
	suite.Equal(order.Completed, stored.Status())
	suite.Equal(trackingNo, stored.TrackingNo())
	suite.Equal(4, stored.Version())
	suite.InDelta(120.755486, stored.Stations()[1].Coordinate().Lng(), 1e-9)

	entries, err := suite.factory.OperationLogs().ListByOrder(ctx, "SO1")
	suite.Require().NoError(err)
	actions := make([]oplog.Action, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action())
	}
	suite.Equal([]oplog.Action{oplog.ActionReceive, oplog.ActionShip, oplog.ActionCreate}, actions)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestLifecycle_ConcurrentCancelHasOneWinner() {
	ctx := context.Background()
	factory := orderUoWFactory{factory: suite.factory}

	createCmd, err := commands.NewCreateOrderCommand("SO1", "sf", "杭州市西湖区", nil, "苏州市姑苏区", nil)
	suite.Require().NoError(err)
	suite.Require().NoError(commands.NewCreateOrderCommandHandler(factory).Handle(ctx, createCmd))

	cancelCmd, err := commands.NewCancelOrderCommand("SO1")
	suite.Require().NoError(err)
	cancel := commands.NewCancelOrderCommandHandler(factory)

	const callers = 6
	results := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = cancel.Handle(ctx, cancelCmd)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		suite.Require().ErrorIs(err, errs.ErrInvalidTransition)
	}
	suite.Equal(1, succeeded)

	entries, err := suite.factory.OperationLogs().ListByOrder(ctx, "SO1")
	suite.Require().NoError(err)
	suite.Len(entries, 2)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

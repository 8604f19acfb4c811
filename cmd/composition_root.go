package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpadapter "logistics/internal/adapters/in/http"
	"logistics/internal/adapters/out/amap"
	"logistics/internal/adapters/out/memory"
	"logistics/internal/adapters/out/postgres"
	"logistics/internal/adapters/out/rediscache"
	"logistics/internal/core/application/routing"
	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/core/domain/services"
	"logistics/internal/core/ports"
	"logistics/internal/jobs"
	"logistics/internal/pkg/refdata"

	"github.com/labstack/echo/v4"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// CompositionRoot owns the process wide dependencies and builds handlers from them.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	strategies      route.StrategyTable
	defaultStrategy route.Strategy
	trackingNumbers *services.TrackingNumberGenerator
	planner         *routing.GeoRouter

	uowFactory ports.UnitOfWorkFactory
	orders     queries.OrderReader
	logs       queries.OperationLogReader

	closers []func() error
}

// NewCompositionRoot loads the reference data, opens the configured store and
// builds the route planner. Close releases what it opened.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &CompositionRoot{cfg: cfg, logger: logger}

	tables, err := refdata.Load(cfg.RefdataFile)
	if err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}

	if c.strategies, err = strategyTable(tables); err != nil {
		return nil, fmt.Errorf("strategy table: %w", err)
	}
	var ok bool
	if c.defaultStrategy, ok = c.strategies.Lookup(route.Fastest); !ok {
		c.defaultStrategy = c.strategies.All()[0]
	}

	if c.trackingNumbers, err = trackingNumberGenerator(tables); err != nil {
		return nil, fmt.Errorf("tracking numbers: %w", err)
	}

	if err = c.openStore(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	if err = c.buildPlanner(ctx, tables); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

func (c *CompositionRoot) openStore(ctx context.Context) error {
	switch c.cfg.StoreBackend {
	case StoreBackendMemory:
		store := memory.NewStore()
		c.uowFactory = store
		c.orders = store
		c.logs = store
		c.logger.WarnContext(ctx, "Using the in-memory store; data is lost on restart")
		return nil

	case StoreBackendPostgres:
		db, err := gorm.Open(postgresdriver.Open(c.cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		c.closers = append(c.closers, sqlDB.Close)

		if err = postgres.AutoMigrate(ctx, db); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		factory := postgres.NewGormUnitOfWorkFactory(db, postgres.WithLogger(c.logger))
		c.uowFactory = factory
		c.orders = factory.Orders()
		c.logs = factory.OperationLogs()
		return nil

	default:
		return fmt.Errorf("unknown store backend %q", c.cfg.StoreBackend)
	}
}

func (c *CompositionRoot) buildPlanner(ctx context.Context, tables refdata.Tables) error {
	synthTables, err := synthesizerTables(tables)
	if err != nil {
		return fmt.Errorf("synthetic route tables: %w", err)
	}
	synthesizer, err := services.NewRouteSynthesizer(synthTables, c.strategies, nil)
	if err != nil {
		return fmt.Errorf("route synthesizer: %w", err)
	}

	var provider ports.GeoProvider
	client, err := amap.NewClient(amap.Config{
		BaseURL: c.cfg.AmapBaseURL,
		Key:     c.cfg.AmapKey,
		Timeout: c.cfg.AmapTimeout,
		QPS:     c.cfg.AmapQPS,
	})
	switch {
	case errors.Is(err, amap.ErrKeyIsRequired):
		c.logger.WarnContext(ctx, "AMAP_KEY is not set; route planning relies on synthetic routes")
		provider = unconfiguredProvider{}
	case err != nil:
		return fmt.Errorf("amap client: %w", err)
	default:
		provider = client
	}

	retry := routing.DefaultRetryPolicy()
	retry.MaxRetries = c.cfg.GeocodeMaxRetries
	if c.cfg.GeocodeBaseDelay > 0 {
		retry.BaseDelay = c.cfg.GeocodeBaseDelay
	}

	var opts []routing.Option
	if cache := c.geocodeCache(ctx); cache != nil {
		opts = append(opts, routing.WithGeocodeCache(cache))
	}

	c.planner, err = routing.NewGeoRouter(provider, synthesizer, c.strategies, routing.Config{
		FallbackToSyntheticRoute: c.cfg.RouteFallbackToSynthetic,
		Timeout:                  c.cfg.RoutePlanningTimeout,
		Retry:                    retry,
	}, c.logger, opts...)
	if err != nil {
		return fmt.Errorf("geo router: %w", err)
	}

	return nil
}

// geocodeCache connects to Redis when configured. An unreachable server only
// disables the cache.
func (c *CompositionRoot) geocodeCache(ctx context.Context) ports.GeocodeCache {
	if c.cfg.RedisAddr == "" {
		return nil
	}

	client, err := rediscache.NewClient(ctx, rediscache.Options{
		Addr:     c.cfg.RedisAddr,
		Password: c.cfg.RedisPassword,
		DB:       c.cfg.RedisDB,
	})
	if err != nil {
		c.logger.WarnContext(ctx, "Geocode cache disabled", "addr", c.cfg.RedisAddr, "error", err)
		return nil
	}
	c.closers = append(c.closers, client.Close)

	return rediscache.NewGeocodeCache(client, c.cfg.GeocodeCacheTTL)
}

// Close releases database and cache connections.
func (c *CompositionRoot) Close() error {
	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errList = append(errList, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errList...)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateShipOrderCommandHandler() commands.ShipOrderCommandHandler {
	return commands.NewShipOrderCommandHandler(c.orderUoWFactory(), c.trackingNumbers, c.planner, c.defaultStrategy)
}

func (c *CompositionRoot) CreateReceiveOrderCommandHandler() commands.ReceiveOrderCommandHandler {
	return commands.NewReceiveOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateBatchReceiveOrdersCommandHandler() commands.BatchReceiveOrdersCommandHandler {
	return commands.NewBatchReceiveOrdersCommandHandler(c.CreateReceiveOrderCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateBatchShipOrdersCommandHandler() commands.BatchShipOrdersCommandHandler {
	return commands.NewBatchShipOrdersCommandHandler()
}

func (c *CompositionRoot) CreateMarkStationArrivedCommandHandler() commands.MarkStationArrivedCommandHandler {
	return commands.NewMarkStationArrivedCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateMarkAllStationsArrivedCommandHandler() commands.MarkAllStationsArrivedCommandHandler {
	return commands.NewMarkAllStationsArrivedCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateMarkStationsArrivedUpToCommandHandler() commands.MarkStationsArrivedUpToCommandHandler {
	return commands.NewMarkStationsArrivedUpToCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAdvanceInTransitOrdersCommandHandler() commands.AdvanceInTransitOrdersCommandHandler {
	return commands.NewAdvanceInTransitOrdersCommandHandler(
		c.orderUoWFactory(), c.CreateMarkStationsArrivedUpToCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.orders)
}

func (c *CompositionRoot) CreateGetOperationLogsQueryHandler() queries.GetOperationLogsQueryHandler {
	return queries.NewGetOperationLogsQueryHandler(c.logs)
}

func (c *CompositionRoot) CreateGetStationStatusQueryHandler() queries.GetStationStatusQueryHandler {
	return queries.NewGetStationStatusQueryHandler(c.orders)
}

func (c *CompositionRoot) CreatePlanRouteQueryHandler() queries.PlanRouteQueryHandler {
	return queries.NewPlanRouteQueryHandler(c.planner, c.strategies)
}

// Router builds the HTTP surface over every handler.
func (c *CompositionRoot) Router(ctx context.Context) (*echo.Echo, error) {
	doc, err := httpadapter.LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}

	server := httpadapter.NewServer(httpadapter.Handlers{
		CreateOrder:             c.CreateCreateOrderCommandHandler(),
		ShipOrder:               c.CreateShipOrderCommandHandler(),
		ReceiveOrder:            c.CreateReceiveOrderCommandHandler(),
		CancelOrder:             c.CreateCancelOrderCommandHandler(),
		BatchShipOrders:         c.CreateBatchShipOrdersCommandHandler(),
		BatchReceiveOrders:      c.CreateBatchReceiveOrdersCommandHandler(),
		MarkStationArrived:      c.CreateMarkStationArrivedCommandHandler(),
		MarkAllStationsArrived:  c.CreateMarkAllStationsArrivedCommandHandler(),
		MarkStationsArrivedUpTo: c.CreateMarkStationsArrivedUpToCommandHandler(),
		GetOrder:                c.CreateGetOrderQueryHandler(),
		GetOperationLogs:        c.CreateGetOperationLogsQueryHandler(),
		GetStationStatus:        c.CreateGetStationStatusQueryHandler(),
		PlanRoute:               c.CreatePlanRouteQueryHandler(),
	}, c.logger)

	return httpadapter.NewRouter(server, doc, c.logger), nil
}

// JobManager registers the background jobs enabled in the configuration.
func (c *CompositionRoot) JobManager() *jobs.JobManager {
	jm := jobs.NewJobManager()
	if c.cfg.StationProgressEnabled {
		jm.Register("station progress", jobs.NewStationProgressJob(
			c.CreateAdvanceInTransitOrdersCommandHandler(), c.cfg.StationProgressSchedule, c.logger))
	}
	return jm
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

var errProviderNotConfigured = errors.New("mapping provider is not configured")

// unconfiguredProvider fails every call so the router answers with synthetic
// plans, or with a planning failure when the fallback is off.
type unconfiguredProvider struct{}

func (unconfiguredProvider) Geocode(context.Context, string) (kernel.Coordinate, error) {
	return kernel.Coordinate{}, errProviderNotConfigured
}

func (unconfiguredProvider) ReverseGeocode(context.Context, kernel.Coordinate) (route.Place, error) {
	return route.Place{}, errProviderNotConfigured
}

func (unconfiguredProvider) Direction(
	context.Context, kernel.Coordinate, kernel.Coordinate, route.StrategyKey,
) (route.Direction, error) {
	return route.Direction{}, errProviderNotConfigured
}

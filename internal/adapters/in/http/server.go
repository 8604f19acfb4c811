package http

import (
	"log/slog"
	"net/http"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// Handlers bundles the use cases exposed over HTTP.
type Handlers struct {
	CreateOrder             commands.CreateOrderCommandHandler
	ShipOrder               commands.ShipOrderCommandHandler
	ReceiveOrder            commands.ReceiveOrderCommandHandler
	CancelOrder             commands.CancelOrderCommandHandler
	BatchShipOrders         commands.BatchShipOrdersCommandHandler
	BatchReceiveOrders      commands.BatchReceiveOrdersCommandHandler
	MarkStationArrived      commands.MarkStationArrivedCommandHandler
	MarkAllStationsArrived  commands.MarkAllStationsArrivedCommandHandler
	MarkStationsArrivedUpTo commands.MarkStationsArrivedUpToCommandHandler

	GetOrder         queries.GetOrderQueryHandler
	GetOperationLogs queries.GetOperationLogsQueryHandler
	GetStationStatus queries.GetStationStatusQueryHandler
	PlanRoute        queries.PlanRouteQueryHandler
}

// Server translates HTTP requests into commands and queries and their results
// into JSON.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		handlers: handlers,
		logger:   logger.With("component", "http"),
	}
}

// RegisterRoutes mounts the order API on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/orders")

	api.POST("", s.CreateOrder)
	api.POST("/plan-route", s.PlanRoute)
	api.PUT("/batch/ship", s.BatchShipOrders)
	api.PUT("/batch/receive", s.BatchReceiveOrders)

	api.GET("/:orderNo", s.GetOrder)
	api.PUT("/:orderNo/ship", s.ShipOrder)
	api.PUT("/:orderNo/receive", s.ReceiveOrder)
	api.PUT("/:orderNo/cancel", s.CancelOrder)
	api.GET("/:orderNo/logs", s.GetOperationLogs)

	api.GET("/:orderNo/stations", s.GetStations)
	api.PUT("/:orderNo/stations/arrive-all", s.MarkAllStationsArrived)
	api.PUT("/:orderNo/stations/arrive-to/:index", s.MarkStationsArrivedUpTo)
	api.PUT("/:orderNo/stations/:index/arrive", s.MarkStationArrived)
}

// CreateOrder handles POST /api/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := bindBody(ctx, &req); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(
		req.OrderNo, req.CourierCode,
		req.Origin, req.OriginCoordinate,
		req.Destination, req.DestinationCoordinate,
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusCreated, cmd.OrderNo())
}

// GetOrder handles GET /api/orders/:orderNo.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderNo, err := pathParam[string](ctx, "orderNo")
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respondOrder(ctx, http.StatusOK, orderNo)
}

// ShipOrder handles PUT /api/orders/:orderNo/ship.
func (s *Server) ShipOrder(ctx echo.Context) error {
	orderNo, err := pathParam[string](ctx, "orderNo")
	if err != nil {
		return s.fail(ctx, err)
	}

	var req ShipOrderRequest
	if err = bindBody(ctx, &req); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewShipOrderCommand(orderNo, req.stationInputs(), req.ExpectedDurationSeconds)
	if err != nil {
		return s.fail(ctx, err)
	}

	trackingNo, err := s.handlers.ShipOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ShipOrderResponse{OrderNo: cmd.OrderNo(), TrackingNo: trackingNo})
}

// ReceiveOrder handles PUT /api/orders/:orderNo/receive.
func (s *Server) ReceiveOrder(ctx echo.Context) error {
	orderNo, err := pathParam[string](ctx, "orderNo")
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewReceiveOrderCommand(orderNo)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.ReceiveOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusOK, cmd.OrderNo())
}

// CancelOrder handles PUT /api/orders/:orderNo/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderNo, err := pathParam[string](ctx, "orderNo")
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderNo)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondOrder(ctx, http.StatusOK, cmd.OrderNo())
}

// BatchShipOrders handles PUT /api/orders/batch/ship, which is refused.
func (s *Server) BatchShipOrders(ctx echo.Context) error {
	var req BatchOrdersRequest
	if err := bindBody(ctx, &req); err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.BatchShipOrders.Handle(ctx.Request().Context(),
		commands.NewBatchShipOrdersCommand(req.OrderNos))
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusBadRequest, newBatchResultResponse(result))
}

// BatchReceiveOrders handles PUT /api/orders/batch/receive. The status tells
// the outcome: 200 for all received, 207 for some, 400 for none.
func (s *Server) BatchReceiveOrders(ctx echo.Context) error {
	var req BatchOrdersRequest
	if err := bindBody(ctx, &req); err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.BatchReceiveOrders.Handle(ctx.Request().Context(),
		commands.NewBatchReceiveOrdersCommand(req.OrderNos))
	if err != nil {
		return s.fail(ctx, err)
	}

	status := http.StatusBadRequest
	switch result.Outcome {
	case commands.BatchSuccess:
		status = http.StatusOK
	case commands.BatchPartial:
		status = http.StatusMultiStatus
	case commands.BatchFailure:
	}

	return ctx.JSON(status, newBatchResultResponse(result))
}

// GetOperationLogs handles GET /api/orders/:orderNo/logs, most recent first.
func (s *Server) GetOperationLogs(ctx echo.Context) error {
	orderNo, err := pathParam[string](ctx, "orderNo")
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOperationLogsQuery(orderNo)
	if err != nil {
		return s.fail(ctx, err)
	}

	entries, err := s.handlers.GetOperationLogs.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newOperationLogResponses(entries))
}

// GetStations handles GET /api/orders/:orderNo/stations.
func (s *Server) GetStations(ctx echo.Context) error {
	orderNo, err := pathParam[string](ctx, "orderNo")
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetStationStatusQuery(orderNo)
	if err != nil {
		return s.fail(ctx, err)
	}

	stations, err := s.handlers.GetStationStatus.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newStationResponses(stations))
}

// MarkStationArrived handles PUT /api/orders/:orderNo/stations/:index/arrive.
func (s *Server) MarkStationArrived(ctx echo.Context) error {
	orderNo, index, err := orderAndIndex(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewMarkStationArrivedCommand(orderNo, index)
	if err != nil {
		return s.fail(ctx, err)
	}

	station, err := s.handlers.MarkStationArrived.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newStationResponse(station))
}

// MarkAllStationsArrived handles PUT /api/orders/:orderNo/stations/arrive-all.
func (s *Server) MarkAllStationsArrived(ctx echo.Context) error {
	orderNo, err := pathParam[string](ctx, "orderNo")
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewMarkAllStationsArrivedCommand(orderNo)
	if err != nil {
		return s.fail(ctx, err)
	}

	changed, err := s.handlers.MarkAllStationsArrived.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ArrivalResponse{OrderNo: cmd.OrderNo(), Changed: changed})
}

// MarkStationsArrivedUpTo handles PUT /api/orders/:orderNo/stations/arrive-to/:index.
func (s *Server) MarkStationsArrivedUpTo(ctx echo.Context) error {
	orderNo, index, err := orderAndIndex(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewMarkStationsArrivedUpToCommand(orderNo, index)
	if err != nil {
		return s.fail(ctx, err)
	}

	changed, err := s.handlers.MarkStationsArrivedUpTo.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ArrivalResponse{OrderNo: cmd.OrderNo(), Changed: changed})
}

// PlanRoute handles POST /api/orders/plan-route.
func (s *Server) PlanRoute(ctx echo.Context) error {
	var req PlanRouteRequest
	if err := bindBody(ctx, &req); err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewPlanRouteQuery(
		req.Origin, req.OriginCoordinate,
		req.Destination, req.DestinationCoordinate,
		req.Strategies,
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	plans, err := s.handlers.PlanRoute.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newRoutePlanResponses(plans))
}

func (s *Server) respondOrder(ctx echo.Context, status int, orderNo string) error {
	query, err := queries.NewGetOrderQuery(orderNo)
	if err != nil {
		return s.fail(ctx, err)
	}

	view, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(status, newOrderResponse(view))
}

func orderAndIndex(ctx echo.Context) (string, int, error) {
	orderNo, err := pathParam[string](ctx, "orderNo")
	if err != nil {
		return "", 0, err
	}
	index, err := pathParam[int](ctx, "index")
	if err != nil {
		return "", 0, err
	}
	return orderNo, index, nil
}

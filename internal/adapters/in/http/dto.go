package http

import (
	"time"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// Error is the body of every non-2xx answer.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Coordinates travel as [lng, lat] arrays. Arrays with fewer than two
// components are ignored and the address is geocoded instead.

type CreateOrderRequest struct {
	OrderNo               string    `json:"orderNo" validate:"required,max=64"`
	CourierCode           string    `json:"courierCode" validate:"max=32"`
	Origin                string    `json:"origin" validate:"required"`
	OriginCoordinate      []float64 `json:"originCoordinate,omitempty"`
	Destination           string    `json:"destination" validate:"required"`
	DestinationCoordinate []float64 `json:"destinationCoordinate,omitempty"`
}

type StationRequest struct {
	Location   string    `json:"location" validate:"required"`
	Coordinate []float64 `json:"coordinate,omitempty"`
}

// ShipOrderRequest may be empty; the route is then planned from the order's
// addresses.
type ShipOrderRequest struct {
	Stations                []StationRequest `json:"stations,omitempty" validate:"omitempty,dive"`
	ExpectedDurationSeconds int              `json:"expectedDuration" validate:"gte=0"`
}

func (r ShipOrderRequest) stationInputs() []commands.StationInput {
	if len(r.Stations) == 0 {
		return nil
	}
	out := make([]commands.StationInput, 0, len(r.Stations))
	for _, s := range r.Stations {
		out = append(out, commands.StationInput{Location: s.Location, Coordinate: s.Coordinate})
	}
	return out
}

type ShipOrderResponse struct {
	OrderNo    string `json:"orderNo"`
	TrackingNo string `json:"trackingNo"`
}

type BatchOrdersRequest struct {
	OrderNos []string `json:"orderNos" validate:"omitempty,dive,required"`
}

type BatchResultResponse struct {
	Result       string   `json:"result"`
	SuccessCount int      `json:"successCount"`
	FailedCount  int      `json:"failedCount"`
	FailedOrders []string `json:"failedOrders"`
	Message      string   `json:"message"`
}

func newBatchResultResponse(r commands.BatchResult) BatchResultResponse {
	failed := r.FailedOrders
	if failed == nil {
		failed = []string{}
	}
	return BatchResultResponse{
		Result:       string(r.Outcome),
		SuccessCount: r.SuccessCount,
		FailedCount:  r.FailedCount,
		FailedOrders: failed,
		Message:      r.Message,
	}
}

type StationResponse struct {
	Index         int        `json:"index"`
	Location      string     `json:"location"`
	Coordinate    []float64  `json:"coordinate,omitempty"`
	ArrivalStatus string     `json:"arrivalStatus"`
	ArrivalTime   *time.Time `json:"arrivalTime,omitempty"`
}

func newStationResponse(s order.Station) StationResponse {
	coordinate := s.Coordinate()
	var c []float64
	if !coordinate.IsZero() {
		c = coordinate.Components()
	}
	return StationResponse{
		Index:         s.Index(),
		Location:      s.Location(),
		Coordinate:    c,
		ArrivalStatus: s.ArrivalStatus().String(),
		ArrivalTime:   s.ArrivalTime(),
	}
}

func newStationResponses(stations []queries.StationResponse) []StationResponse {
	out := make([]StationResponse, 0, len(stations))
	for _, s := range stations {
		out = append(out, StationResponse{
			Index:         s.Index,
			Location:      s.Location,
			Coordinate:    components(s.Coordinate),
			ArrivalStatus: s.ArrivalStatus,
			ArrivalTime:   s.ArrivalTime,
		})
	}
	return out
}

type OrderResponse struct {
	OrderNo                 string            `json:"orderNo"`
	CourierCode             string            `json:"courierCode"`
	Origin                  string            `json:"origin"`
	OriginCoordinate        []float64         `json:"originCoordinate,omitempty"`
	Destination             string            `json:"destination"`
	DestinationCoordinate   []float64         `json:"destinationCoordinate,omitempty"`
	Status                  string            `json:"status"`
	TrackingNo              string            `json:"trackingNo,omitempty"`
	CreateTime              time.Time         `json:"createTime"`
	ShipTime                *time.Time        `json:"shipTime,omitempty"`
	ReceiveTime             *time.Time        `json:"receiveTime,omitempty"`
	CancelTime              *time.Time        `json:"cancelTime,omitempty"`
	ExpectedDurationSeconds int               `json:"expectedDuration"`
	Stations                []StationResponse `json:"stations"`
}

func newOrderResponse(o queries.GetOrderQueryResponse) OrderResponse {
	return OrderResponse{
		OrderNo:                 o.OrderNo,
		CourierCode:             o.CourierCode,
		Origin:                  o.Origin,
		OriginCoordinate:        components(o.OriginCoordinate),
		Destination:             o.Destination,
		DestinationCoordinate:   components(o.DestinationCoordinate),
		Status:                  o.Status,
		TrackingNo:              o.TrackingNo,
		CreateTime:              o.CreateTime,
		ShipTime:                o.ShipTime,
		ReceiveTime:             o.ReceiveTime,
		CancelTime:              o.CancelTime,
		ExpectedDurationSeconds: o.ExpectedDurationSeconds,
		Stations:                newStationResponses(o.Stations),
	}
}

type OperationLogResponse struct {
	ID          string    `json:"id"`
	OrderNo     string    `json:"orderNo"`
	Action      string    `json:"action"`
	FromStatus  string    `json:"fromStatus"`
	ToStatus    string    `json:"toStatus"`
	Operator    string    `json:"operator"`
	OperateTime time.Time `json:"operateTime"`
	Remark      string    `json:"remark,omitempty"`
}

func newOperationLogResponses(entries []queries.OperationLogResponse) []OperationLogResponse {
	out := make([]OperationLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, OperationLogResponse(e))
	}
	return out
}

type ArrivalResponse struct {
	OrderNo string `json:"orderNo"`
	Changed int    `json:"changed"`
}

type PlanRouteRequest struct {
	Origin                string    `json:"origin" validate:"required"`
	OriginCoordinate      []float64 `json:"originCoordinate,omitempty"`
	Destination           string    `json:"destination" validate:"required"`
	DestinationCoordinate []float64 `json:"destinationCoordinate,omitempty"`
	Strategies            []int     `json:"strategies,omitempty" validate:"omitempty,dive,gte=0"`
}

type PlannedStationResponse struct {
	Name       string    `json:"name"`
	Coordinate []float64 `json:"coordinate,omitempty"`
}

type RoutePlanResponse struct {
	Strategy        int                      `json:"strategy"`
	StrategyName    string                   `json:"strategyName"`
	Tag             string                   `json:"tag"`
	DistanceMeters  int                      `json:"distance"`
	DurationSeconds int                      `json:"duration"`
	TollCost        *decimal.Decimal         `json:"tollCost,omitempty"`
	Stations        []PlannedStationResponse `json:"stations"`
	Synthetic       bool                     `json:"synthetic"`
}

func newRoutePlanResponses(plans []queries.PlanRouteQueryResponse) []RoutePlanResponse {
	out := make([]RoutePlanResponse, 0, len(plans))
	for _, p := range plans {
		stations := make([]PlannedStationResponse, 0, len(p.Stations))
		for _, s := range p.Stations {
			stations = append(stations, PlannedStationResponse{Name: s.Name, Coordinate: components(s.Coordinate)})
		}
		out = append(out, RoutePlanResponse{
			Strategy:        p.StrategyKey,
			StrategyName:    p.StrategyName,
			Tag:             p.StrategyTag,
			DistanceMeters:  p.DistanceMeters,
			DurationSeconds: p.DurationSeconds,
			TollCost:        p.TollCost,
			Stations:        stations,
			Synthetic:       p.Synthetic,
		})
	}
	return out
}

func components(c *kernel.Coordinate) []float64 {
	if c == nil {
		return nil
	}
	return c.Components()
}

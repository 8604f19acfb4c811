package queries

import (
	"errors"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves one order with its station sequence.
//
// Example:
//
//	query, err := NewGetOrderQuery("SO20260101001")
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
//	fmt.Println(view.Status, view.TrackingNo)
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderNo string

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderNo string) (GetOrderQuery, error) {
	orderNo, err := parseOrderNo(orderNo)
	if err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderNo: orderNo,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderNo() string {
	return q.orderNo
}

// GetOrderQueryResponse is the order read model. Optional timestamps stay nil
// until the matching transition happens.
type GetOrderQueryResponse struct {
	OrderNo                 string
	CourierCode             string
	Origin                  string
	OriginCoordinate        *kernel.Coordinate
	Destination             string
	DestinationCoordinate   *kernel.Coordinate
	Status                  string
	TrackingNo              string
	CreateTime              time.Time
	ShipTime                *time.Time
	ReceiveTime             *time.Time
	CancelTime              *time.Time
	ExpectedDurationSeconds int
	Stations                []StationResponse
}

// StationResponse is the read model of one station.
type StationResponse struct {
	Index         int
	Location      string
	Coordinate    *kernel.Coordinate
	ArrivalStatus string
	ArrivalTime   *time.Time
}

func newGetOrderQueryResponse(o *order.Order) GetOrderQueryResponse {
	return GetOrderQueryResponse{
		OrderNo:                 o.OrderNo(),
		CourierCode:             o.CourierCode(),
		Origin:                  o.Origin().Text,
		OriginCoordinate:        optionalCoordinate(o.Origin().Coordinate),
		Destination:             o.Destination().Text,
		DestinationCoordinate:   optionalCoordinate(o.Destination().Coordinate),
		Status:                  o.Status().String(),
		TrackingNo:              o.TrackingNo(),
		CreateTime:              o.CreateTime(),
		ShipTime:                o.ShipTime(),
		ReceiveTime:             o.ReceiveTime(),
		CancelTime:              o.CancelTime(),
		ExpectedDurationSeconds: o.ExpectedDurationSeconds(),
		Stations:                newStationResponses(o.Stations()),
	}
}

func newStationResponses(stations []order.Station) []StationResponse {
	out := make([]StationResponse, 0, len(stations))
	for _, s := range stations {
		out = append(out, StationResponse{
			Index:         s.Index(),
			Location:      s.Location(),
			Coordinate:    optionalCoordinate(s.Coordinate()),
			ArrivalStatus: s.ArrivalStatus().String(),
			ArrivalTime:   s.ArrivalTime(),
		})
	}
	return out
}

func optionalCoordinate(c kernel.Coordinate) *kernel.Coordinate {
	if c.IsZero() {
		return nil
	}
	return &c
}

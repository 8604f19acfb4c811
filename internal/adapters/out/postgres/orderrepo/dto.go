// Package orderrepo persists order aggregates with GORM. The station sequence
// is stored as a JSON document on the order row so an order is always read and
// written as one unit.
package orderrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"

	"gorm.io/datatypes"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	OrderNo                 string     `gorm:"primaryKey;size:64"`
	CourierCode             string     `gorm:"size:32"`
	Origin                  AddressDTO `gorm:"embedded;embeddedPrefix:origin_"`
	Destination             AddressDTO `gorm:"embedded;embeddedPrefix:destination_"`
	Status                  string     `gorm:"size:16;not null;index:idx_orders_status_created,priority:1"`
	TrackingNo              *string    `gorm:"size:32;uniqueIndex"`
	Stations                datatypes.JSON
	CreateTime              time.Time `gorm:"not null;index:idx_orders_status_created,priority:2"`
	ShipTime                *time.Time
	ReceiveTime             *time.Time
	CancelTime              *time.Time
	ExpectedDurationSeconds int
	Version                 int `gorm:"not null;default:1"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO is one end of the shipment. Coordinates are nullable because
// callers may create orders from address text alone.
type AddressDTO struct {
	Text string `gorm:"size:255;not null"`
	Lng  *float64
	Lat  *float64
}

// StationDTO is one element of the stations JSON document.
type StationDTO struct {
	Index         int        `json:"index"`
	Location      string     `json:"location"`
	Coordinate    []float64  `json:"coordinate,omitempty"`
	ArrivalStatus string     `json:"arrivalStatus"`
	ArrivalTime   *time.Time `json:"arrivalTime,omitempty"`
}

func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	s := aggregate.Snapshot()

	stations, err := stationsToJSON(s.Stations)
	if err != nil {
		return OrderDTO{}, err
	}

	var trackingNo *string
	if s.TrackingNo != "" {
		trackingNo = &s.TrackingNo
	}

	return OrderDTO{
		OrderNo:                 s.OrderNo,
		CourierCode:             s.CourierCode,
		Origin:                  addressToDTO(s.Origin),
		Destination:             addressToDTO(s.Destination),
		Status:                  s.Status.String(),
		TrackingNo:              trackingNo,
		Stations:                stations,
		CreateTime:              s.CreateTime,
		ShipTime:                s.ShipTime,
		ReceiveTime:             s.ReceiveTime,
		CancelTime:              s.CancelTime,
		ExpectedDurationSeconds: s.ExpectedDurationSeconds,
		Version:                 s.Version,
	}, nil
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	origin, err := addressFromDTO(dto.Origin)
	if err != nil {
		return nil, err
	}

	destination, err := addressFromDTO(dto.Destination)
	if err != nil {
		return nil, err
	}

	stations, err := stationsFromJSON(dto.Stations)
	if err != nil {
		return nil, err
	}

	var trackingNo string
	if dto.TrackingNo != nil {
		trackingNo = *dto.TrackingNo
	}

	return order.RestoreOrder(order.Snapshot{
		OrderNo:                 dto.OrderNo,
		CourierCode:             dto.CourierCode,
		Origin:                  origin,
		Destination:             destination,
		Status:                  status,
		TrackingNo:              trackingNo,
		Stations:                stations,
		CreateTime:              dto.CreateTime,
		ShipTime:                dto.ShipTime,
		ReceiveTime:             dto.ReceiveTime,
		CancelTime:              dto.CancelTime,
		ExpectedDurationSeconds: dto.ExpectedDurationSeconds,
		Version:                 dto.Version,
	})
}

func addressToDTO(a order.Address) AddressDTO {
	dto := AddressDTO{Text: a.Text}
	if a.HasCoordinate() {
		lng, lat := a.Coordinate.Lng(), a.Coordinate.Lat()
		dto.Lng, dto.Lat = &lng, &lat
	}
	return dto
}

func addressFromDTO(dto AddressDTO) (order.Address, error) {
	a := order.Address{Text: dto.Text}
	if dto.Lng == nil || dto.Lat == nil {
		return a, nil
	}

	c, err := kernel.NewCoordinate(*dto.Lng, *dto.Lat)
	if err != nil {
		return order.Address{}, err
	}
	a.Coordinate = c
	return a, nil
}

func stationsToJSON(stations []order.Station) (datatypes.JSON, error) {
	if len(stations) == 0 {
		return nil, nil
	}

	dtos := make([]StationDTO, 0, len(stations))
	for _, s := range stations {
		dto := StationDTO{
			Index:         s.Index(),
			Location:      s.Location(),
			ArrivalStatus: s.ArrivalStatus().String(),
			ArrivalTime:   s.ArrivalTime(),
		}
		if c := s.Coordinate(); !c.IsZero() {
			dto.Coordinate = c.Components()
		}
		dtos = append(dtos, dto)
	}

	raw, err := json.Marshal(dtos)
	if err != nil {
		return nil, fmt.Errorf("encode stations: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func stationsFromJSON(raw datatypes.JSON) ([]order.Station, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var dtos []StationDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("decode stations: %w", err)
	}

	stations := make([]order.Station, 0, len(dtos))
	for _, dto := range dtos {
		arrival, err := order.ParseArrivalStatus(dto.ArrivalStatus)
		if err != nil {
			return nil, err
		}

		coordinate, _, err := kernel.CoordinateFromComponents(dto.Coordinate)
		if err != nil {
			return nil, err
		}

		s, err := order.RestoreStation(dto.Index, dto.Location, coordinate, arrival, dto.ArrivalTime)
		if err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}

	return stations, nil
}

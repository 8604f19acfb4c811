package queries

import (
	"errors"

	"logistics/internal/pkg/guard"
)

var (
	ErrGetStationStatusQueryIsNotConstructed = errors.New(
		"GetStationStatusQuery must be created via NewGetStationStatusQuery constructor",
	)
)

// GetStationStatusQuery returns the station sequence of a shipped order.
type GetStationStatusQuery struct { //nolint:recvcheck //using for validation
	orderNo string

	guard guard.ConstructorGuard
}

func NewGetStationStatusQuery(orderNo string) (GetStationStatusQuery, error) {
	orderNo, err := parseOrderNo(orderNo)
	if err != nil {
		return GetStationStatusQuery{}, err
	}

	return GetStationStatusQuery{
		orderNo: orderNo,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetStationStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetStationStatusQueryIsNotConstructed)
}

func (q GetStationStatusQuery) OrderNo() string {
	return q.orderNo
}

package queries

import (
	"context"

	"logistics/internal/pkg/errs"
)

// GetStationStatusQueryHandler reports errs.ObjectNotFoundError both for an
// unknown order and for an order that has no stations yet.
type GetStationStatusQueryHandler struct {
	orders OrderReader
}

func NewGetStationStatusQueryHandler(orders OrderReader) GetStationStatusQueryHandler {
	return GetStationStatusQueryHandler{orders: orders}
}

func (h GetStationStatusQueryHandler) Handle(
	ctx context.Context,
	query GetStationStatusQuery,
) ([]StationResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	o, err := h.orders.Get(ctx, query.OrderNo())
	if err != nil {
		return nil, err
	}

	stations := o.Stations()
	if len(stations) == 0 {
		return nil, errs.NewObjectNotFoundError("stations", query.OrderNo())
	}

	return newStationResponses(stations), nil
}

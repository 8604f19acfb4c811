package queries

import (
	"errors"
	"strings"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrPlanRouteQueryIsNotConstructed = errors.New(
		"PlanRouteQuery must be created via NewPlanRouteQuery constructor",
	)
)

// PlanRouteQuery asks for candidate routes between two addresses without
// touching any order. Strategy keys are checked against the configured
// strategy table by the handler; no keys means every strategy.
//
// Example:
//
//	query, err := NewPlanRouteQuery("北京市朝阳区", nil, "上海市浦东新区", nil, []int{0, 2})
//	plans, err := handler.Handle(ctx, query)
type PlanRouteQuery struct { //nolint:recvcheck //using for validation
	origin                string
	originCoordinate      kernel.Coordinate
	destination           string
	destinationCoordinate kernel.Coordinate
	strategyKeys          []int

	guard guard.ConstructorGuard
}

func NewPlanRouteQuery(
	origin string, originCoordinate []float64,
	destination string, destinationCoordinate []float64,
	strategyKeys []int,
) (PlanRouteQuery, error) {
	q := PlanRouteQuery{
		strategyKeys: append([]int(nil), strategyKeys...),
		guard:        guard.NewConstructorGuard(),
	}

	var errList []error
	q.origin, q.originCoordinate, errList = appendEndpoint(errList, "origin", origin, originCoordinate)
	q.destination, q.destinationCoordinate, errList = appendEndpoint(
		errList, "destination", destination, destinationCoordinate)

	if err := errors.Join(errList...); err != nil {
		return PlanRouteQuery{}, err
	}
	return q, nil
}

func appendEndpoint(
	errList []error,
	param, text string,
	components []float64,
) (string, kernel.Coordinate, []error) {
	text = strings.TrimSpace(text)
	if text == "" {
		errList = append(errList, errs.NewValueIsRequiredError(param))
	}

	coordinate, _, err := kernel.CoordinateFromComponents(components)
	if err != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(param+" coordinate", err))
	}

	return text, coordinate, errList
}

func (q PlanRouteQuery) Validate() error {
	return q.guard.Validate(ErrPlanRouteQueryIsNotConstructed)
}

func (q PlanRouteQuery) Origin() string {
	return q.origin
}

func (q PlanRouteQuery) Destination() string {
	return q.destination
}

func (q PlanRouteQuery) StrategyKeys() []int {
	return append([]int(nil), q.strategyKeys...)
}

// PlanRouteQueryResponse is one candidate route.
type PlanRouteQueryResponse struct {
	StrategyKey     int
	StrategyName    string
	StrategyTag     string
	DistanceMeters  int
	DurationSeconds int
	// TollCost is nil when the provider did not quote one.
	TollCost  *decimal.Decimal
	Stations  []PlannedStationResponse
	Synthetic bool
}

type PlannedStationResponse struct {
	Name       string
	Coordinate *kernel.Coordinate
}

func newPlanRouteQueryResponse(p route.Plan) PlanRouteQueryResponse {
	var toll *decimal.Decimal
	if p.TollCost.Valid {
		d := p.TollCost.Decimal
		toll = &d
	}

	stations := make([]PlannedStationResponse, 0, len(p.Waypoints))
	for _, w := range p.Waypoints {
		stations = append(stations, PlannedStationResponse{
			Name:       w.Name,
			Coordinate: optionalCoordinate(w.Coordinate),
		})
	}

	return PlanRouteQueryResponse{
		StrategyKey:     int(p.Strategy.Key),
		StrategyName:    p.Strategy.Name,
		StrategyTag:     p.Strategy.Tag,
		DistanceMeters:  p.DistanceMeters,
		DurationSeconds: p.DurationSeconds,
		TollCost:        toll,
		Stations:        stations,
		Synthetic:       p.Synthetic,
	}
}

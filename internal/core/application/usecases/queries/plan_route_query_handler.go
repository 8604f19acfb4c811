package queries

import (
	"context"

	"logistics/internal/core/domain/model/route"
)

// PlanRouteQueryHandler resolves the requested strategies and delegates to
// the route planner. An unknown strategy key is errs.ValueIsInvalidError;
// planner failures are returned unchanged.
type PlanRouteQueryHandler struct {
	planner    RoutePlanner
	strategies route.StrategyTable
}

func NewPlanRouteQueryHandler(planner RoutePlanner, strategies route.StrategyTable) PlanRouteQueryHandler {
	return PlanRouteQueryHandler{
		planner:    planner,
		strategies: strategies,
	}
}

func (h PlanRouteQueryHandler) Handle(ctx context.Context, query PlanRouteQuery) ([]PlanRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	strategies, err := h.strategies.Resolve(query.StrategyKeys())
	if err != nil {
		return nil, err
	}

	plans, err := h.planner.Plan(ctx, route.Request{
		Origin:                query.origin,
		Destination:           query.destination,
		OriginCoordinate:      query.originCoordinate,
		DestinationCoordinate: query.destinationCoordinate,
		Strategies:            strategies,
	})
	if err != nil {
		return nil, err
	}

	out := make([]PlanRouteQueryResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, newPlanRouteQueryResponse(p))
	}
	return out, nil
}

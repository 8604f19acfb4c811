package ports

import (
	"context"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
)

// GeoProvider is the external mapping service.
//
// Implementations report throttling by returning an error that wraps
// errs.ErrRateLimited; callers retry those with backoff. Any other error is
// treated as a plain failure.
type GeoProvider interface {
	// Geocode resolves an address to a coordinate.
	Geocode(ctx context.Context, address string) (kernel.Coordinate, error)

	// ReverseGeocode resolves a coordinate to its administrative area.
	ReverseGeocode(ctx context.Context, point kernel.Coordinate) (route.Place, error)

	// Direction requests a driving route for one strategy.
	Direction(
		ctx context.Context,
		origin, destination kernel.Coordinate,
		strategy route.StrategyKey,
	) (route.Direction, error)
}

// GeocodeCache remembers forward geocoding answers.
type GeocodeCache interface {
	// Get reports false when the address is not cached.
	Get(ctx context.Context, address string) (kernel.Coordinate, bool, error)
	Set(ctx context.Context, address string, point kernel.Coordinate) error
}

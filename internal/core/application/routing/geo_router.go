package routing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"

	"golang.org/x/sync/errgroup"
)

// Synthesizer produces provider independent plans. services.RouteSynthesizer
// is the production implementation.
type Synthesizer interface {
	Synthesize(req route.Request) []route.Plan
}

// Config controls the failure policy of the GeoRouter.
type Config struct {
	// FallbackToSyntheticRoute returns synthetic plans when an endpoint cannot
	// be geocoded or every strategy fails. When false those cases fail with
	// errs.RoutePlanningFailedError.
	FallbackToSyntheticRoute bool

	// Timeout bounds a whole Plan call including retries. Zero means the
	// caller's context is the only bound.
	Timeout time.Duration

	Retry RetryPolicy
}

// GeoRouter turns two addresses into candidate route plans with named transit
// stations, using the mapping provider and falling back to synthetic routes.
type GeoRouter struct {
	provider    ports.GeoProvider
	cache       ports.GeocodeCache
	synthesizer Synthesizer
	strategies  route.StrategyTable
	cfg         Config
	logger      *slog.Logger
}

// Option customises a GeoRouter.
type Option func(*GeoRouter)

// WithGeocodeCache puts a cache in front of forward geocoding.
func WithGeocodeCache(cache ports.GeocodeCache) Option {
	return func(r *GeoRouter) {
		r.cache = cache
	}
}

func NewGeoRouter(
	provider ports.GeoProvider,
	synthesizer Synthesizer,
	strategies route.StrategyTable,
	cfg Config,
	logger *slog.Logger,
	opts ...Option,
) (*GeoRouter, error) {
	if provider == nil {
		return nil, errs.NewValueIsRequiredError("geo provider")
	}
	if synthesizer == nil {
		return nil, errs.NewValueIsRequiredError("synthesizer")
	}
	if len(strategies.All()) == 0 {
		return nil, errs.NewValueIsRequiredError("strategies")
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &GeoRouter{
		provider:    provider,
		synthesizer: synthesizer,
		strategies:  strategies,
		cfg:         cfg,
		logger:      logger.With("component", "geo_router"),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Plan returns deduplicated route plans in canonical strategy order.
//
// Per-strategy provider failures are logged and skipped. An unresolvable
// endpoint, or every strategy failing, is answered with synthetic plans or
// errs.RoutePlanningFailedError depending on Config.FallbackToSyntheticRoute.
// Cancellation of ctx is never replaced by synthetic plans.
func (r *GeoRouter) Plan(ctx context.Context, req route.Request) ([]route.Plan, error) {
	if len(req.Strategies) == 0 {
		req.Strategies = r.strategies.All()
	}

	planCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		planCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	origin, destination, err := r.resolveEndpoints(planCtx, req)
	if err != nil {
		return r.fallback(ctx, req, err)
	}

	plans := r.fetchPlans(planCtx, req, origin, destination)
	if len(plans) == 0 {
		return r.fallback(ctx, req, errors.New("no strategy returned a route"))
	}

	return plans, nil
}

func (r *GeoRouter) resolveEndpoints(ctx context.Context, req route.Request) (kernel.Coordinate, kernel.Coordinate, error) {
	origin, err := r.endpoint(ctx, req.Origin, req.OriginCoordinate)
	if err != nil {
		return kernel.Coordinate{}, kernel.Coordinate{}, err
	}
	destination, err := r.endpoint(ctx, req.Destination, req.DestinationCoordinate)
	if err != nil {
		return kernel.Coordinate{}, kernel.Coordinate{}, err
	}
	return origin, destination, nil
}

func (r *GeoRouter) endpoint(ctx context.Context, address string, supplied kernel.Coordinate) (kernel.Coordinate, error) {
	if !supplied.IsZero() {
		return supplied, nil
	}
	return r.geocode(ctx, address)
}

func (r *GeoRouter) geocode(ctx context.Context, address string) (kernel.Coordinate, error) {
	if r.cache != nil {
		point, ok, err := r.cache.Get(ctx, address)
		if err != nil {
			r.logger.WarnContext(ctx, "geocode cache read failed", "address", address, "error", err)
		}
		if ok {
			return point, nil
		}
	}

	point, err := withRetry(ctx, r.cfg.Retry, func(ctx context.Context) (kernel.Coordinate, error) {
		return r.provider.Geocode(ctx, address)
	})
	if err != nil {
		return kernel.Coordinate{}, errs.NewGeocodeFailedError(address, err)
	}

	if r.cache != nil {
		if err = r.cache.Set(ctx, address, point); err != nil {
			r.logger.WarnContext(ctx, "geocode cache write failed", "address", address, "error", err)
		}
	}
	return point, nil
}

func (r *GeoRouter) fetchPlans(ctx context.Context, req route.Request, origin, destination kernel.Coordinate) []route.Plan {
	results := make([]*route.Plan, len(req.Strategies))

	var g errgroup.Group
	for i, strategy := range req.Strategies {
		g.Go(func() error {
			plan, err := r.planStrategy(ctx, req, origin, destination, strategy)
			if err != nil {
				r.logger.WarnContext(ctx, "strategy skipped",
					"strategy", strategy.Key,
					"origin", req.Origin,
					"destination", req.Destination,
					"error", err,
				)
				return nil
			}
			results[i] = &plan
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]bool, len(results))
	plans := make([]route.Plan, 0, len(results))
	for _, plan := range results {
		if plan == nil {
			continue
		}
		signature := plan.Signature()
		if seen[signature] {
			continue
		}
		seen[signature] = true
		plans = append(plans, *plan)
	}
	return plans
}

func (r *GeoRouter) planStrategy(
	ctx context.Context,
	req route.Request,
	origin, destination kernel.Coordinate,
	strategy route.Strategy,
) (route.Plan, error) {
	direction, err := withRetry(ctx, r.cfg.Retry, func(ctx context.Context) (route.Direction, error) {
		return r.provider.Direction(ctx, origin, destination, strategy.Key)
	})
	if err != nil {
		return route.Plan{}, err
	}

	return route.Plan{
		Strategy:        strategy,
		DistanceMeters:  direction.DistanceMeters,
		DurationSeconds: direction.DurationSeconds,
		TollCost:        direction.TollCost,
		Waypoints:       r.stations(ctx, req, origin, destination, direction.Path),
	}, nil
}

// stations down-samples the polyline into named stations. The first and last
// stations carry the requested addresses; interior points are named by reverse
// geocoding and dropped when unnamed or when their name repeats.
func (r *GeoRouter) stations(
	ctx context.Context,
	req route.Request,
	origin, destination kernel.Coordinate,
	path []kernel.Coordinate,
) []route.Waypoint {
	waypoints := []route.Waypoint{{Name: req.Origin, Coordinate: origin}}

	seen := map[string]bool{}
	for _, point := range samplePath(path) {
		place, err := withRetry(ctx, r.cfg.Retry, func(ctx context.Context) (route.Place, error) {
			return r.provider.ReverseGeocode(ctx, point)
		})
		if err != nil {
			r.logger.WarnContext(ctx, "reverse geocode failed", "point", point.String(), "error", err)
			continue
		}

		name := place.HubName()
		if name == "" || seen[route.BaseName(name)] {
			continue
		}
		seen[route.BaseName(name)] = true
		waypoints = append(waypoints, route.Waypoint{Name: name, Coordinate: point})
	}

	return append(waypoints, route.Waypoint{Name: req.Destination, Coordinate: destination})
}

func (r *GeoRouter) fallback(ctx context.Context, req route.Request, cause error) ([]route.Plan, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, errs.NewRoutePlanningFailedError(req.Origin, req.Destination, ctxErr)
	}

	if !r.cfg.FallbackToSyntheticRoute {
		return nil, errs.NewRoutePlanningFailedError(req.Origin, req.Destination, cause)
	}

	r.logger.WarnContext(ctx, "using synthetic route",
		"origin", req.Origin,
		"destination", req.Destination,
		"reason", cause,
	)
	return r.synthesizer.Synthesize(req), nil
}

const (
	minStations      = 4
	maxStations      = 8
	pointsPerStation = 100
	endpointStations = 2
)

// samplePath picks the interior points to reverse geocode. A route gets
// min(8, max(4, len(path)/100)) stations including both endpoints, spread
// evenly along the polyline.
func samplePath(path []kernel.Coordinate) []kernel.Coordinate {
	if len(path) < 3 {
		return nil
	}

	total := min(maxStations, max(minStations, len(path)/pointsPerStation))
	interior := min(total-endpointStations, len(path)-endpointStations)

	points := make([]kernel.Coordinate, 0, interior)
	for i := 1; i <= interior; i++ {
		idx := i * (len(path) - 1) / (interior + 1)
		points = append(points, path[idx])
	}
	return points
}

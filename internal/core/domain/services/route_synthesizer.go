package services

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/pkg/errs"
)

// SyntheticCity pins a well known city name to a coordinate.
type SyntheticCity struct {
	Name       string
	Coordinate kernel.Coordinate
}

// SyntheticRoute is the canned transit hub list used for one strategy, with
// the multipliers applied to the base distance and duration.
type SyntheticRoute struct {
	Strategy       route.StrategyKey
	DistanceFactor float64
	DurationFactor float64
	Waypoints      []string
}

// SynthesizerTables is the reference data a RouteSynthesizer interpolates from.
type SynthesizerTables struct {
	Cities             []SyntheticCity
	DefaultOrigin      kernel.Coordinate
	DefaultDestination kernel.Coordinate
	Routes             []SyntheticRoute

	BaseDistanceMeters   int
	DistanceJitterMeters int
	AverageSpeedKmh      float64

	// JitterLng and JitterLat bound the random offset applied to interpolated waypoints.
	JitterLng float64
	JitterLat float64
}

// RouteSynthesizer produces plausible route plans without any external call.
// It backs the route planner when the mapping provider cannot help.
//
// Endpoints resolve to the supplied coordinate, else the first city whose name
// appears in the address, else the configured defaults. Each strategy gets its
// canned waypoint list interpolated on the straight line between the endpoints.
// The first and last stations are named exactly like the requested addresses.
type RouteSynthesizer struct {
	tables     SynthesizerTables
	strategies route.StrategyTable

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRouteSynthesizer validates the tables. A nil src seeds from the clock.
func NewRouteSynthesizer(tables SynthesizerTables, strategies route.StrategyTable, src rand.Source) (*RouteSynthesizer, error) {
	var errList []error
	if len(tables.Routes) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("synthetic routes"))
	}
	if tables.BaseDistanceMeters <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("base distance", tables.BaseDistanceMeters, 1, "unbounded"))
	}
	if tables.AverageSpeedKmh <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("average speed", tables.AverageSpeedKmh, "> 0", "unbounded"))
	}
	if err := errors.Join(
		errors.Join(errList...),
		tables.DefaultOrigin.Validate(),
		tables.DefaultDestination.Validate(),
	); err != nil {
		return nil, err
	}
	if len(strategies.All()) == 0 {
		return nil, errs.NewValueIsRequiredError("strategies")
	}

	if src == nil {
		now := uint64(time.Now().UnixNano()) //nolint:gosec // seed only
		src = rand.NewPCG(now, now>>1)
	}

	return &RouteSynthesizer{
		tables:     tables,
		strategies: strategies,
		rnd:        rand.New(src), //nolint:gosec // not security sensitive
	}, nil
}

// Synthesize returns one synthetic plan per requested strategy, or per
// configured strategy when the request names none. It never fails.
func (s *RouteSynthesizer) Synthesize(req route.Request) []route.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()

	origin := s.resolve(req.Origin, req.OriginCoordinate, s.tables.DefaultOrigin)
	destination := s.resolve(req.Destination, req.DestinationCoordinate, s.tables.DefaultDestination)

	baseDistance := s.tables.BaseDistanceMeters
	if s.tables.DistanceJitterMeters > 0 {
		baseDistance += s.rnd.IntN(s.tables.DistanceJitterMeters)
	}
	baseDuration := float64(baseDistance) / s.tables.AverageSpeedKmh * 3.6

	strategies := req.Strategies
	if len(strategies) == 0 {
		strategies = s.strategies.All()
	}

	plans := make([]route.Plan, 0, len(strategies))
	for _, strategy := range strategies {
		canned := s.routeFor(strategy.Key)

		waypoints := make([]route.Waypoint, 0, len(canned.Waypoints)+2)
		waypoints = append(waypoints, route.Waypoint{Name: req.Origin, Coordinate: origin})
		for i, name := range canned.Waypoints {
			ratio := float64(i+1) / float64(len(canned.Waypoints)+1)
			point := origin.Interpolate(destination, ratio).Offset(
				s.jitter(s.tables.JitterLng),
				s.jitter(s.tables.JitterLat),
			)
			waypoints = append(waypoints, route.Waypoint{Name: hubName(name), Coordinate: point})
		}
		waypoints = append(waypoints, route.Waypoint{Name: req.Destination, Coordinate: destination})

		plans = append(plans, route.Plan{
			Strategy:        strategy,
			DistanceMeters:  int(float64(baseDistance) * canned.DistanceFactor),
			DurationSeconds: int(baseDuration * canned.DurationFactor),
			Waypoints:       waypoints,
			Synthetic:       true,
		})
	}

	return plans
}

func (s *RouteSynthesizer) resolve(address string, supplied, fallback kernel.Coordinate) kernel.Coordinate {
	if !supplied.IsZero() {
		return supplied
	}
	for _, city := range s.tables.Cities {
		if city.Name != "" && strings.Contains(address, city.Name) {
			return city.Coordinate
		}
	}
	return fallback
}

// routeFor falls back to the first canned route for strategies without one.
func (s *RouteSynthesizer) routeFor(key route.StrategyKey) SyntheticRoute {
	for _, r := range s.tables.Routes {
		if r.Strategy == key {
			return r
		}
	}
	return s.tables.Routes[0]
}

func (s *RouteSynthesizer) jitter(bound float64) float64 {
	return (s.rnd.Float64()*2 - 1) * bound
}

func hubName(name string) string {
	return route.BaseName(name) + route.StationSuffix
}

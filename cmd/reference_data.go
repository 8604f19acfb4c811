package cmd

import (
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/core/domain/services"
	"logistics/internal/pkg/refdata"
)

func strategyTable(tables refdata.Tables) (route.StrategyTable, error) {
	rows := make([]route.Strategy, 0, len(tables.Strategies))
	for _, s := range tables.Strategies {
		rows = append(rows, route.Strategy{Key: route.StrategyKey(s.Key), Name: s.Name, Tag: s.Tag})
	}
	return route.NewStrategyTable(rows)
}

func trackingNumberGenerator(tables refdata.Tables) (*services.TrackingNumberGenerator, error) {
	return services.NewTrackingNumberGenerator(tables.PrefixByCourier(), tables.DefaultTrackingPrefix)
}

func synthesizerTables(tables refdata.Tables) (services.SynthesizerTables, error) {
	s := tables.Synthetic
	out := services.SynthesizerTables{
		BaseDistanceMeters:   s.BaseDistanceMeters,
		DistanceJitterMeters: s.DistanceJitterMeters,
		AverageSpeedKmh:      s.AverageSpeedKmh,
		JitterLng:            s.JitterLng,
		JitterLat:            s.JitterLat,
	}

	var errList []error
	for _, c := range s.Cities {
		coordinate, err := kernel.NewCoordinate(c.Lng, c.Lat)
		if err != nil {
			errList = append(errList, fmt.Errorf("city %s: %w", c.Name, err))
			continue
		}
		out.Cities = append(out.Cities, services.SyntheticCity{Name: c.Name, Coordinate: coordinate})

		if c.Name == s.DefaultOrigin {
			out.DefaultOrigin = coordinate
		}
		if c.Name == s.DefaultDestination {
			out.DefaultDestination = coordinate
		}
	}

	for _, r := range s.Routes {
		out.Routes = append(out.Routes, services.SyntheticRoute{
			Strategy:       route.StrategyKey(r.Strategy),
			DistanceFactor: r.DistanceFactor,
			DurationFactor: r.DurationFactor,
			Waypoints:      append([]string(nil), r.Waypoints...),
		})
	}

	if err := errors.Join(errList...); err != nil {
		return services.SynthesizerTables{}, err
	}
	return out, nil
}

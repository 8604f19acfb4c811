package route

import (
	"fmt"
	"strings"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// StationSuffix is appended to synthesized and reverse-geocoded transit hub names.
const StationSuffix = "转运中心"

// Request describes a route planning call. Coordinates are optional; a zero
// Coordinate means the address must be geocoded.
type Request struct {
	Origin                string
	Destination           string
	OriginCoordinate      kernel.Coordinate
	DestinationCoordinate kernel.Coordinate
	Strategies            []Strategy
}

// Waypoint is one named point of a planned route.
type Waypoint struct {
	Name       string
	Coordinate kernel.Coordinate
}

// Direction is the provider's raw answer for one strategy: totals plus the
// full polyline.
type Direction struct {
	DistanceMeters  int
	DurationSeconds int
	TollCost        decimal.NullDecimal
	Path            []kernel.Coordinate
}

// Plan is a candidate route offered for shipping. It is ephemeral: ship
// consumes its waypoints as the order's station sequence.
type Plan struct {
	Strategy        Strategy
	DistanceMeters  int
	DurationSeconds int
	TollCost        decimal.NullDecimal
	Waypoints       []Waypoint
	Synthetic       bool
}

// Signature is the coarse key used to drop visually identical plans: distance
// in 100 m buckets and duration in whole minutes.
func (p Plan) Signature() string {
	return fmt.Sprintf("%d-%d", p.DistanceMeters/100, p.DurationSeconds/60)
}

// StationDrafts converts the waypoints into the station input of order.Ship.
func (p Plan) StationDrafts() []order.StationDraft {
	drafts := make([]order.StationDraft, 0, len(p.Waypoints))
	for _, w := range p.Waypoints {
		drafts = append(drafts, order.StationDraft{Location: w.Name, Coordinate: w.Coordinate})
	}
	return drafts
}

// BaseName strips the transit hub suffix so "济南市历下区转运中心" and
// "济南市历下区" compare equal.
func BaseName(name string) string {
	return strings.TrimSuffix(strings.TrimSpace(name), StationSuffix)
}

// Place is the administrative area a reverse geocode resolved to. City is empty
// for municipalities that report no separate city level.
type Place struct {
	Province string
	City     string
	District string
}

// HubName names a transit hub after the place: the city, or the province when
// no city is known, followed by the district and StationSuffix. It returns ""
// when the place carries no name at all.
func (p Place) HubName() string {
	area := strings.TrimSpace(p.City)
	if area == "" {
		area = strings.TrimSpace(p.Province)
	}
	name := area + strings.TrimSpace(p.District)
	if name == "" {
		return ""
	}
	return name + StationSuffix
}

package kernel

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

const (
	// MinLongitude is the western bound of a WGS84/GCJ-02 longitude.
	MinLongitude = -180.0
	// MaxLongitude is the eastern bound of a WGS84/GCJ-02 longitude.
	MaxLongitude = 180.0
	// MinLatitude is the southern bound of a latitude.
	MinLatitude = -90.0
	// MaxLatitude is the northern bound of a latitude.
	MaxLatitude = 90.0
)

var ErrCoordinateIsNotConstructed = errs.NewValueIsRequiredError(
	"coordinate must be created via NewCoordinate, ParseCoordinate or CoordinateFromComponents")

// Coordinate is an immutable longitude/latitude pair in decimal degrees.
//
// Coordinates travel between the route planner, the synthetic route generator and
// the station list of an order. The textual form "lng,lat" matches the format used
// by the mapping provider, e.g. "116.407526,39.904030".
//
// Example:
//
//	beijing, err := kernel.NewCoordinate(116.407526, 39.904030)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(beijing) // 116.407526,39.904030
type Coordinate struct { //nolint:recvcheck //using for validation
	lng   float64
	lat   float64
	guard guard.ConstructorGuard
}

// NewCoordinate validates both components and returns the coordinate.
// Longitude must be within [-180, 180] and latitude within [-90, 90].
func NewCoordinate(lng, lat float64) (Coordinate, error) {
	c := Coordinate{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(c.setLng(lng), c.setLat(lat)); err != nil {
		return Coordinate{}, err
	}

	return c, nil
}

// ParseCoordinate parses the provider's "lng,lat" representation.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Coordinate{}, errs.NewValueIsInvalidErrorWithCause(
			"coordinate", fmt.Errorf("%q is not in lng,lat form", s))
	}

	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err := errors.Join(lngErr, latErr); err != nil {
		return Coordinate{}, errs.NewValueIsInvalidErrorWithCause("coordinate", err)
	}

	return NewCoordinate(lng, lat)
}

// CoordinateFromComponents builds a coordinate from a caller supplied slice,
// reading [lng, lat]. It reports false when fewer than two components are
// present so callers can fall back to geocoding the address instead.
func CoordinateFromComponents(components []float64) (Coordinate, bool, error) {
	if len(components) < 2 {
		return Coordinate{}, false, nil
	}

	c, err := NewCoordinate(components[0], components[1])
	if err != nil {
		return Coordinate{}, false, err
	}

	return c, true, nil
}

// Validate reports whether the coordinate was created through a constructor.
func (c Coordinate) Validate() error {
	return c.guard.Validate(ErrCoordinateIsNotConstructed)
}

// IsZero reports whether c is the zero value, i.e. absent.
func (c Coordinate) IsZero() bool {
	return c.Validate() != nil
}

func (c Coordinate) Lng() float64 {
	return c.lng
}

func (c Coordinate) Lat() float64 {
	return c.lat
}

// Components returns the coordinate as [lng, lat].
func (c Coordinate) Components() []float64 {
	return []float64{c.lng, c.lat}
}

// String formats the coordinate as "lng,lat" with six decimals.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.lng, c.lat)
}

// IsEqual compares two constructed coordinates component-wise.
func (c Coordinate) IsEqual(other Coordinate) bool {
	return c.Validate() == nil && other.Validate() == nil &&
		c.lng == other.lng && c.lat == other.lat
}

// Interpolate returns the point at ratio along the straight segment from c to other.
// A ratio of 0 yields c and 1 yields other.
func (c Coordinate) Interpolate(other Coordinate, ratio float64) Coordinate {
	return clamped(
		c.lng+(other.lng-c.lng)*ratio,
		c.lat+(other.lat-c.lat)*ratio,
	)
}

// Offset shifts the coordinate by the given deltas, clamping to valid bounds.
func (c Coordinate) Offset(dLng, dLat float64) Coordinate {
	return clamped(c.lng+dLng, c.lat+dLat)
}

func (c *Coordinate) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < MinLongitude || lng > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", lng, MinLongitude, MaxLongitude)
	}

	c.lng = lng
	return nil
}

func (c *Coordinate) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", lat, MinLatitude, MaxLatitude)
	}

	c.lat = lat
	return nil
}

func clamped(lng, lat float64) Coordinate {
	return Coordinate{
		lng:   math.Max(MinLongitude, math.Min(MaxLongitude, lng)),
		lat:   math.Max(MinLatitude, math.Min(MaxLatitude, lat)),
		guard: guard.NewConstructorGuard(),
	}
}

package refdata

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"logistics/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTables []byte

// Courier maps an express company code to its tracking number prefix.
type Courier struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Prefix string `yaml:"prefix"`
}

// Strategy is one row of the route strategy table.
type Strategy struct {
	Key  int    `yaml:"key"`
	Name string `yaml:"name"`
	Tag  string `yaml:"tag"`
}

// City is a well known city used to place synthetic route endpoints.
type City struct {
	Name string  `yaml:"name"`
	Lng  float64 `yaml:"lng"`
	Lat  float64 `yaml:"lat"`
}

// SyntheticRoute is the canned transit hub list of one strategy.
type SyntheticRoute struct {
	Strategy       int      `yaml:"strategy"`
	DistanceFactor float64  `yaml:"distance_factor"`
	DurationFactor float64  `yaml:"duration_factor"`
	Waypoints      []string `yaml:"waypoints"`
}

type Synthetic struct {
	DefaultOrigin        string           `yaml:"default_origin"`
	DefaultDestination   string           `yaml:"default_destination"`
	BaseDistanceMeters   int              `yaml:"base_distance_meters"`
	DistanceJitterMeters int              `yaml:"distance_jitter_meters"`
	AverageSpeedKmh      float64          `yaml:"average_speed_kmh"`
	JitterLng            float64          `yaml:"jitter_lng"`
	JitterLat            float64          `yaml:"jitter_lat"`
	Cities               []City           `yaml:"cities"`
	Routes               []SyntheticRoute `yaml:"routes"`
}

// Tables is the full set of static reference data.
type Tables struct {
	DefaultTrackingPrefix string     `yaml:"default_tracking_prefix"`
	Couriers              []Courier  `yaml:"couriers"`
	Strategies            []Strategy `yaml:"strategies"`
	Synthetic             Synthetic  `yaml:"synthetic"`
}

// Default returns the embedded tables.
func Default() (Tables, error) {
	return Parse(defaultTables)
}

// Load returns the embedded tables overlaid with the YAML file at path.
// An empty path yields the defaults. Top level keys missing from the file keep
// their default value; lists present in the file replace the default list.
func Load(path string) (Tables, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read reference data %s: %w", path, err)
	}

	t, err := decode(defaultTables, Tables{})
	if err != nil {
		return Tables{}, err
	}
	if t, err = decode(data, t); err != nil {
		return Tables{}, fmt.Errorf("parse reference data %s: %w", path, err)
	}

	if err = t.Validate(); err != nil {
		return Tables{}, err
	}
	return t, nil
}

// Parse decodes and validates a complete set of tables.
func Parse(data []byte) (Tables, error) {
	t, err := decode(data, Tables{})
	if err != nil {
		return Tables{}, err
	}
	if err = t.Validate(); err != nil {
		return Tables{}, err
	}
	return t, nil
}

func decode(data []byte, into Tables) (Tables, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&into); err != nil {
		return Tables{}, errs.NewValueIsInvalidErrorWithCause("reference data", err)
	}
	return into, nil
}

// Validate checks the tables are usable by the tracking number generator,
// the strategy table and the route synthesizer.
func (t Tables) Validate() error {
	var errList []error

	if strings.TrimSpace(t.DefaultTrackingPrefix) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("default_tracking_prefix"))
	}

	codes := make(map[string]bool, len(t.Couriers))
	for _, c := range t.Couriers {
		code := strings.ToLower(strings.TrimSpace(c.Code))
		if code == "" || strings.TrimSpace(c.Prefix) == "" {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"couriers", fmt.Errorf("courier %q needs both code and prefix", c.Code)))
			continue
		}
		if codes[code] {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"couriers", fmt.Errorf("courier %q is listed twice", c.Code)))
		}
		codes[code] = true
	}

	if len(t.Strategies) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("strategies"))
	}

	errList = append(errList, t.Synthetic.validate())
	return errors.Join(errList...)
}

// PrefixByCourier returns the lower-cased courier code to prefix lookup.
func (t Tables) PrefixByCourier() map[string]string {
	out := make(map[string]string, len(t.Couriers))
	for _, c := range t.Couriers {
		out[strings.ToLower(strings.TrimSpace(c.Code))] = strings.TrimSpace(c.Prefix)
	}
	return out
}

// City finds a city row by exact name.
func (s Synthetic) City(name string) (City, bool) {
	for _, c := range s.Cities {
		if c.Name == name {
			return c, true
		}
	}
	return City{}, false
}

func (s Synthetic) validate() error {
	var errList []error

	if s.BaseDistanceMeters <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError(
			"synthetic.base_distance_meters", s.BaseDistanceMeters, 1, "unbounded"))
	}
	if s.DistanceJitterMeters < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError(
			"synthetic.distance_jitter_meters", s.DistanceJitterMeters, 0, "unbounded"))
	}
	if s.AverageSpeedKmh <= 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError(
			"synthetic.average_speed_kmh", s.AverageSpeedKmh, "> 0", "unbounded"))
	}
	if _, ok := s.City(s.DefaultOrigin); !ok {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"synthetic.default_origin", fmt.Errorf("%q is not in the city table", s.DefaultOrigin)))
	}
	if _, ok := s.City(s.DefaultDestination); !ok {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"synthetic.default_destination", fmt.Errorf("%q is not in the city table", s.DefaultDestination)))
	}

	if len(s.Routes) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("synthetic.routes"))
	}
	for _, r := range s.Routes {
		if len(r.Waypoints) == 0 {
			errList = append(errList, errs.NewValueIsRequiredErrorWithCause(
				"synthetic.routes.waypoints", fmt.Errorf("strategy %d has no waypoints", r.Strategy)))
		}
		if r.DistanceFactor <= 0 || r.DurationFactor <= 0 {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"synthetic.routes", fmt.Errorf("strategy %d has a non-positive factor", r.Strategy)))
		}
	}

	return errors.Join(errList...)
}

package services

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"logistics/internal/pkg/errs"
)

const trackingTimeLayout = "20060102150405"

// TrackingNumberGenerator issues tracking numbers of the form
// prefix + yyyyMMddHHmmss + 4 random digits, e.g. SF202601011230450042.
//
// The prefix comes from the courier table; blank or unknown courier codes use the
// default prefix. Codes are matched case-insensitively.
type TrackingNumberGenerator struct {
	prefixes      map[string]string
	defaultPrefix string
	intN          func(n int) int
}

// TrackingNumberOption customises a TrackingNumberGenerator.
type TrackingNumberOption func(*TrackingNumberGenerator)

// WithRandomSuffix replaces the source of the 4 digit suffix. intN must return a
// value in [0, n).
func WithRandomSuffix(intN func(n int) int) TrackingNumberOption {
	return func(g *TrackingNumberGenerator) {
		g.intN = intN
	}
}

// NewTrackingNumberGenerator creates a generator from the courier prefix table.
//
// Parameters:
//   - prefixes: courier code to prefix lookup
//   - defaultPrefix: prefix for blank or unknown courier codes, must not be blank
func NewTrackingNumberGenerator(
	prefixes map[string]string,
	defaultPrefix string,
	opts ...TrackingNumberOption,
) (*TrackingNumberGenerator, error) {
	if strings.TrimSpace(defaultPrefix) == "" {
		return nil, errs.NewValueIsRequiredError("default tracking prefix")
	}

	table := make(map[string]string, len(prefixes))
	for code, prefix := range prefixes {
		table[strings.ToLower(strings.TrimSpace(code))] = prefix
	}

	g := &TrackingNumberGenerator{
		prefixes:      table,
		defaultPrefix: defaultPrefix,
		intN:          rand.IntN,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// Prefix returns the tracking prefix of a courier code.
func (g *TrackingNumberGenerator) Prefix(courierCode string) string {
	if prefix, ok := g.prefixes[strings.ToLower(strings.TrimSpace(courierCode))]; ok && prefix != "" {
		return prefix
	}
	return g.defaultPrefix
}

// Generate returns a new tracking number for the courier stamped with now.
func (g *TrackingNumberGenerator) Generate(courierCode string, now time.Time) string {
	return fmt.Sprintf("%s%s%04d", g.Prefix(courierCode), now.Format(trackingTimeLayout), g.intN(10000))
}

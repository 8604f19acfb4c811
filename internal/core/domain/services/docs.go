// Package services provides domain services of the logistics engine that do not
// belong to a single aggregate.
//
// The package includes:
//   - TrackingNumberGenerator: issues tracking numbers from the courier prefix table
//   - RouteSynthesizer: builds deterministic-looking route plans when no mapping
//     provider answer is available
//
// Both services are configured from injected reference data and hold no global state.
package services

// Package routing plans shipment routes through the external mapping provider.
//
// GeoRouter geocodes both endpoints (unless coordinates are supplied), asks the
// provider for one driving route per strategy concurrently, drops routes with the
// same coarse signature and names a handful of transit stations along each
// polyline by reverse geocoding. Throttled provider calls are retried with
// exponential backoff bounded by the caller's context.
//
// When the provider cannot help, the configured failure policy decides between
// synthetic plans and errs.RoutePlanningFailedError.
package routing

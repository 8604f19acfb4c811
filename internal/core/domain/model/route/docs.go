// Package route holds the value types of route planning: the strategy table,
// planning requests, provider directions and the candidate plans offered to
// the ship operation.
package route

// Package order provides the Order aggregate of the logistics tracking service.
//
// The package includes:
//   - Order: the aggregate root owning the lifecycle and the station sequence
//   - Status: the fixed state machine pending -> shipping -> completed, with
//     cancellation allowed from every status except cancelled itself
//   - Station: one ordered waypoint with its arrival state
//
// Key business rules:
//   - Shipping assigns the tracking number, stores the station sequence and marks
//     the origin station arrived
//   - A single station can be marked arrived only after its predecessor
//   - Bulk arrival (all stations, or up to an index) is idempotent
//   - Receiving requires the last station to have arrived
package order

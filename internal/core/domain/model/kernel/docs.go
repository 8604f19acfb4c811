// Package kernel provides the shared value objects of the logistics domain.
//
// The package includes:
//   - Coordinate: an immutable longitude/latitude pair used by stations and route plans
//   - UUID: a validated identifier wrapping github.com/google/uuid
//
// Both follow the constructor-guard pattern: the zero value is invalid and
// Validate reports whether an instance came from a constructor.
package kernel

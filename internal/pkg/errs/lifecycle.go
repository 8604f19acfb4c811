package errs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition   = errors.New("transition is invalid")
	ErrNotArrived          = errors.New("shipment has not arrived")
	ErrAlreadyArrived      = errors.New("station already arrived")
	ErrOutOfSequence       = errors.New("station is out of sequence")
	ErrGeocodeFailed       = errors.New("geocode failed")
	ErrRoutePlanningFailed = errors.New("route planning failed")
	ErrRateLimited         = errors.New("rate limited")
)

// InvalidTransitionError is returned when the order state machine rejects a move
// between two statuses.
type InvalidTransitionError struct {
	From string
	To   string
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{
		From: from,
		To:   to,
	}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// NotArrivedError blocks receiving an order whose final station is not reached.
type NotArrivedError struct {
	OrderNo string
}

func NewNotArrivedError(orderNo string) *NotArrivedError {
	return &NotArrivedError{OrderNo: orderNo}
}

func (e *NotArrivedError) Error() string {
	return fmt.Sprintf("%s: order %s has not reached its destination", ErrNotArrived, e.OrderNo)
}

func (e *NotArrivedError) Unwrap() error {
	return ErrNotArrived
}

type AlreadyArrivedError struct {
	Index int
}

func NewAlreadyArrivedError(index int) *AlreadyArrivedError {
	return &AlreadyArrivedError{Index: index}
}

func (e *AlreadyArrivedError) Error() string {
	return fmt.Sprintf("%s: station %d", ErrAlreadyArrived, e.Index)
}

func (e *AlreadyArrivedError) Unwrap() error {
	return ErrAlreadyArrived
}

// OutOfSequenceError is returned when a station is marked before its predecessor.
type OutOfSequenceError struct {
	Index int
}

func NewOutOfSequenceError(index int) *OutOfSequenceError {
	return &OutOfSequenceError{Index: index}
}

func (e *OutOfSequenceError) Error() string {
	return fmt.Sprintf("%s: station %d requires station %d to be arrived first",
		ErrOutOfSequence, e.Index, e.Index-1)
}

func (e *OutOfSequenceError) Unwrap() error {
	return ErrOutOfSequence
}

// GeocodeFailedError reports an address the mapping provider could not resolve
// after retries were exhausted.
type GeocodeFailedError struct {
	Address string
	Cause   error
}

func NewGeocodeFailedError(address string, cause error) *GeocodeFailedError {
	return &GeocodeFailedError{
		Address: address,
		Cause:   cause,
	}
}

func (e *GeocodeFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrGeocodeFailed, e.Address, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrGeocodeFailed, e.Address)
}

// Unwrap exposes both the sentinel and the underlying provider failure.
func (e *GeocodeFailedError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrGeocodeFailed}
	}
	return []error{ErrGeocodeFailed, e.Cause}
}

type RoutePlanningFailedError struct {
	Origin      string
	Destination string
	Cause       error
}

func NewRoutePlanningFailedError(origin, destination string, cause error) *RoutePlanningFailedError {
	return &RoutePlanningFailedError{
		Origin:      origin,
		Destination: destination,
		Cause:       cause,
	}
}

func (e *RoutePlanningFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s -> %s (cause: %v)", ErrRoutePlanningFailed, e.Origin, e.Destination, e.Cause)
	}
	return fmt.Sprintf("%s: %s -> %s", ErrRoutePlanningFailed, e.Origin, e.Destination)
}

func (e *RoutePlanningFailedError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrRoutePlanningFailed}
	}
	return []error{ErrRoutePlanningFailed, e.Cause}
}

// RateLimitedError marks a provider response that asked the caller to slow down.
// Only this class of failure is retried with backoff.
type RateLimitedError struct {
	Provider string
	Cause    error
}

func NewRateLimitedError(provider string, cause error) *RateLimitedError {
	return &RateLimitedError{
		Provider: provider,
		Cause:    cause,
	}
}

func (e *RateLimitedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrRateLimited, e.Provider, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrRateLimited, e.Provider)
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}

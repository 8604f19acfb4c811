package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

// ArrivalStatus tells whether a shipment has reached a station.
type ArrivalStatus int

const (
	ArrivalUnknown ArrivalStatus = iota
	ArrivalPending
	ArrivalArrived
)

func (a ArrivalStatus) String() string {
	switch a {
	case ArrivalPending:
		return "pending"
	case ArrivalArrived:
		return "arrived"
	case ArrivalUnknown:
	}
	return "unknown"
}

// ParseArrivalStatus reads the persisted name. Blank values are treated as pending,
// matching stations that were stored before any arrival was recorded.
func ParseArrivalStatus(s string) (ArrivalStatus, error) {
	switch s {
	case "", "pending":
		return ArrivalPending, nil
	case "arrived":
		return ArrivalArrived, nil
	}
	return ArrivalUnknown, errs.NewValueIsInvalidErrorWithCause(
		"arrival status is invalid", fmt.Errorf("%q is not a valid arrival status", s))
}

// StationDraft is the caller supplied description of one waypoint before it
// becomes part of an order's station sequence.
type StationDraft struct {
	Location   string
	Coordinate kernel.Coordinate
}

// Station is one ordered waypoint of a shipped order.
// Index and location never change once the sequence is created; only the
// arrival status and time move forward.
type Station struct {
	index         int
	location      string
	coordinate    kernel.Coordinate
	arrivalStatus ArrivalStatus
	arrivalTime   *time.Time
}

// RestoreStation rebuilds a station from persistence.
func RestoreStation(
	index int,
	location string,
	coordinate kernel.Coordinate,
	arrivalStatus ArrivalStatus,
	arrivalTime *time.Time,
) (Station, error) {
	s := Station{
		index:         index,
		location:      location,
		coordinate:    coordinate,
		arrivalStatus: arrivalStatus,
		arrivalTime:   arrivalTime,
	}

	var errList []error
	if index < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("station index", index, 0, "unbounded"))
	}
	if arrivalStatus != ArrivalPending && arrivalStatus != ArrivalArrived {
		errList = append(errList, errs.NewValueIsInvalidError("arrival status"))
	}
	if arrivalStatus == ArrivalArrived && arrivalTime == nil {
		errList = append(errList, errs.NewValueIsRequiredError("arrival time"))
	}
	if err := errors.Join(errList...); err != nil {
		return Station{}, err
	}

	return s, nil
}

func newStation(index int, draft StationDraft) (Station, error) {
	location := strings.TrimSpace(draft.Location)
	if location == "" {
		return Station{}, errs.NewValueIsRequiredErrorWithCause(
			"station location", fmt.Errorf("station %d has no location", index))
	}

	return Station{
		index:         index,
		location:      location,
		coordinate:    draft.Coordinate,
		arrivalStatus: ArrivalPending,
	}, nil
}

func (s Station) Index() int {
	return s.index
}

func (s Station) Location() string {
	return s.location
}

// Coordinate returns the station position; it may be the zero value when the
// caller shipped with names only.
func (s Station) Coordinate() kernel.Coordinate {
	return s.coordinate
}

func (s Station) ArrivalStatus() ArrivalStatus {
	return s.arrivalStatus
}

// ArrivalTime returns nil while the station is pending.
func (s Station) ArrivalTime() *time.Time {
	if s.arrivalTime == nil {
		return nil
	}
	t := *s.arrivalTime
	return &t
}

func (s Station) IsArrived() bool {
	return s.arrivalStatus == ArrivalArrived
}

func (s *Station) arrive(now time.Time) {
	s.arrivalStatus = ArrivalArrived
	s.arrivalTime = &now
}

package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Address is one end of a shipment: the human readable address and, when the
// caller knows it, its coordinate.
type Address struct {
	Text       string
	Coordinate kernel.Coordinate
}

// HasCoordinate reports whether the address carries a usable coordinate.
func (a Address) HasCoordinate() bool {
	return !a.Coordinate.IsZero()
}

// Order is the aggregate root of the shipment lifecycle. It owns the status
// state machine and the ordered station sequence that gates receipt.
//
// Order follows these invariants:
//   - orderNo is non-blank and never changes
//   - status only moves along the edges of the transition table
//   - trackingNo, shipTime, receiveTime and cancelTime are each set at most once
//   - the station sequence is created once at ship time; afterwards only arrival
//     state changes, and station i may be marked individually only after station i-1
//   - an order can be received only when its last station has arrived
//
// All fields are private; mutations go through the lifecycle methods so the
// invariants cannot be bypassed.
type Order struct {
	orderNo     string
	courierCode string
	origin      Address
	destination Address

	status     Status
	trackingNo string
	stations   []Station

	createTime              time.Time
	shipTime                *time.Time
	receiveTime             *time.Time
	cancelTime              *time.Time
	expectedDurationSeconds int

	// version is the optimistic concurrency counter maintained by the store
	version int

	isConstructed bool
}

// NewOrder creates a pending order. This is the entry point used by the order
// creation use case; lifecycle methods take it from there.
//
// Parameters:
//   - orderNo: unique business identifier, must not be blank
//   - courierCode: express company code, may be blank (default tracking prefix applies)
//   - origin, destination: addresses used for route planning, text must not be blank
//   - createTime: creation timestamp
//
// Example:
//
//	o, err := order.NewOrder("SO20260101001", "sf",
//	    order.Address{Text: "北京市朝阳区"},
//	    order.Address{Text: "上海市浦东新区"},
//	    time.Now())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(o.Status()) // pending
func NewOrder(orderNo, courierCode string, origin, destination Address, createTime time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		courierCode:   strings.TrimSpace(courierCode),
		createTime:    createTime,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setOrderNo(orderNo),
		o.setOrigin(origin),
		o.setDestination(destination),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot carries the complete persisted state of an order. It is used by
// store adapters to rebuild the aggregate through RestoreOrder.
type Snapshot struct {
	OrderNo                 string
	CourierCode             string
	Origin                  Address
	Destination             Address
	Status                  Status
	TrackingNo              string
	Stations                []Station
	CreateTime              time.Time
	ShipTime                *time.Time
	ReceiveTime             *time.Time
	CancelTime              *time.Time
	ExpectedDurationSeconds int
	Version                 int
}

// RestoreOrder rebuilds an order from persisted state, validating the
// cross-field invariants a stored order must satisfy.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		courierCode:             s.CourierCode,
		status:                  s.Status,
		trackingNo:              s.TrackingNo,
		stations:                append([]Station(nil), s.Stations...),
		createTime:              s.CreateTime,
		shipTime:                s.ShipTime,
		receiveTime:             s.ReceiveTime,
		cancelTime:              s.CancelTime,
		expectedDurationSeconds: s.ExpectedDurationSeconds,
		version:                 s.Version,
		isConstructed:           true,
	}

	if err := errors.Join(
		o.setOrderNo(s.OrderNo),
		o.setOrigin(s.Origin),
		o.setDestination(s.Destination),
		s.Status.Validate(),
		o.validateStations(),
		o.validateShipment(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot returns the persisted state of the order, the inverse of RestoreOrder.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		OrderNo:                 o.orderNo,
		CourierCode:             o.courierCode,
		Origin:                  o.origin,
		Destination:             o.destination,
		Status:                  o.status,
		TrackingNo:              o.trackingNo,
		Stations:                o.Stations(),
		CreateTime:              o.createTime,
		ShipTime:                o.shipTime,
		ReceiveTime:             o.receiveTime,
		CancelTime:              o.cancelTime,
		ExpectedDurationSeconds: o.expectedDurationSeconds,
		Version:                 o.version,
	}
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

func (o *Order) OrderNo() string {
	return o.orderNo
}

func (o *Order) CourierCode() string {
	return o.courierCode
}

func (o *Order) Origin() Address {
	return o.origin
}

func (o *Order) Destination() Address {
	return o.destination
}

func (o *Order) Status() Status {
	return o.status
}

// TrackingNo is empty until the order ships.
func (o *Order) TrackingNo() string {
	return o.trackingNo
}

// Stations returns a copy of the station sequence.
func (o *Order) Stations() []Station {
	return append([]Station(nil), o.stations...)
}

func (o *Order) CreateTime() time.Time {
	return o.createTime
}

func (o *Order) ShipTime() *time.Time {
	return o.shipTime
}

func (o *Order) ReceiveTime() *time.Time {
	return o.receiveTime
}

func (o *Order) CancelTime() *time.Time {
	return o.cancelTime
}

func (o *Order) ExpectedDurationSeconds() int {
	return o.expectedDurationSeconds
}

// Version is the store revision this instance was read at.
func (o *Order) Version() int {
	return o.version
}

// Ship dispatches a pending order.
//
// The origin station (index 0) is considered reached at dispatch and is marked
// arrived at now. The remaining stations start pending. An empty station list is
// accepted, but such an order can never be received.
//
// Returns:
//   - errs.InvalidTransitionError if the order is not pending
//   - a validation error for a blank tracking number, negative duration or a station without location
func (o *Order) Ship(trackingNo string, drafts []StationDraft, expectedDurationSeconds int, now time.Time) error {
	newStatus, err := o.status.Ship()
	if err != nil {
		return err
	}

	var errList []error
	if strings.TrimSpace(trackingNo) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("tracking number"))
	}
	if expectedDurationSeconds < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"expected duration", fmt.Errorf("%d is negative", expectedDurationSeconds)))
	}

	stations := make([]Station, 0, len(drafts))
	for i, draft := range drafts {
		station, stationErr := newStation(i, draft)
		if stationErr != nil {
			errList = append(errList, stationErr)
			continue
		}
		stations = append(stations, station)
	}
	if err = errors.Join(errList...); err != nil {
		return err
	}

	if len(stations) > 0 {
		stations[0].arrive(now)
	}

	o.status = newStatus
	o.trackingNo = trackingNo
	o.stations = stations
	o.expectedDurationSeconds = expectedDurationSeconds
	o.shipTime = &now
	return nil
}

// Receive completes a shipping order whose final station has arrived.
//
// Returns:
//   - errs.InvalidTransitionError if the order is not shipping
//   - errs.NotArrivedError if there are no stations or the last one is pending
func (o *Order) Receive(now time.Time) error {
	newStatus, err := o.status.Receive()
	if err != nil {
		return err
	}

	if !o.IsLastStationArrived() {
		return errs.NewNotArrivedError(o.orderNo)
	}

	o.status = newStatus
	o.receiveTime = &now
	return nil
}

// Cancel moves the order to Cancelled from any other status, including Completed.
func (o *Order) Cancel(now time.Time) error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.cancelTime = &now
	return nil
}

// IsLastStationArrived reports whether the station list is non-empty and its
// final entry has arrived.
func (o *Order) IsLastStationArrived() bool {
	if len(o.stations) == 0 {
		return false
	}
	return o.stations[len(o.stations)-1].IsArrived()
}

// MarkStationArrived records arrival at a single station, enforcing that
// stations are reached in order.
//
// Returns the updated station, or:
//   - errs.ObjectNotFoundError if the order has no stations
//   - errs.ValueIsOutOfRangeError if index is outside [0, len)
//   - errs.AlreadyArrivedError if the station already arrived (its time is kept)
//   - errs.OutOfSequenceError if the previous station has not arrived
func (o *Order) MarkStationArrived(index int, now time.Time) (Station, error) {
	if err := o.checkStationIndex(index); err != nil {
		return Station{}, err
	}

	station := &o.stations[index]
	if station.IsArrived() {
		return Station{}, errs.NewAlreadyArrivedError(index)
	}
	if index > 0 && !o.stations[index-1].IsArrived() {
		return Station{}, errs.NewOutOfSequenceError(index)
	}

	station.arrive(now)
	return *station, nil
}

// MarkAllStationsArrived marks every pending station as arrived with a single
// timestamp and returns how many changed. It is idempotent.
func (o *Order) MarkAllStationsArrived(now time.Time) (int, error) {
	if len(o.stations) == 0 {
		return 0, errs.NewObjectNotFoundError("stations", o.orderNo)
	}

	return o.arriveUpTo(len(o.stations)-1, now), nil
}

// MarkStationsArrivedUpTo marks pending stations with index <= targetIndex, in
// index order and with one timestamp, and returns how many changed. Stations
// already arrived keep their original time, so repeating the call changes nothing.
func (o *Order) MarkStationsArrivedUpTo(targetIndex int, now time.Time) (int, error) {
	if err := o.checkStationIndex(targetIndex); err != nil {
		return 0, err
	}

	return o.arriveUpTo(targetIndex, now), nil
}

func (o *Order) arriveUpTo(targetIndex int, now time.Time) int {
	changed := 0
	for i := 0; i <= targetIndex; i++ {
		if o.stations[i].IsArrived() {
			continue
		}
		o.stations[i].arrive(now)
		changed++
	}
	return changed
}

func (o *Order) checkStationIndex(index int) error {
	if len(o.stations) == 0 {
		return errs.NewObjectNotFoundError("stations", o.orderNo)
	}
	if index < 0 || index >= len(o.stations) {
		return errs.NewValueIsOutOfRangeError("station index", index, 0, len(o.stations)-1)
	}
	return nil
}

func (o *Order) setOrderNo(orderNo string) error {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return errs.NewValueIsRequiredError("orderNo")
	}
	o.orderNo = orderNo
	return nil
}

func (o *Order) setOrigin(origin Address) error {
	origin.Text = strings.TrimSpace(origin.Text)
	if origin.Text == "" {
		return errs.NewValueIsRequiredError("origin")
	}
	o.origin = origin
	return nil
}

func (o *Order) setDestination(destination Address) error {
	destination.Text = strings.TrimSpace(destination.Text)
	if destination.Text == "" {
		return errs.NewValueIsRequiredError("destination")
	}
	o.destination = destination
	return nil
}

func (o *Order) validateStations() error {
	for i, s := range o.stations {
		if s.index != i {
			return errs.NewValueIsInvalidErrorWithCause(
				"stations", fmt.Errorf("station at position %d has index %d", i, s.index))
		}
	}
	return nil
}

func (o *Order) validateShipment() error {
	if o.status == Pending {
		return nil
	}
	if o.status == Cancelled && o.shipTime == nil {
		// cancelled straight from pending
		return nil
	}
	if o.trackingNo == "" || o.shipTime == nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"shipment", fmt.Errorf("%s order has no tracking number or ship time", o.status))
	}
	return nil
}

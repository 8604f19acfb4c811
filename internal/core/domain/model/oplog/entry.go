// Package oplog models the append-only audit trail of order status changes.
package oplog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"
)

// SystemOperator is recorded when no user is attached to the change.
const SystemOperator = "system"

var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry constructor")

// Action names the lifecycle operation that produced a log entry.
type Action string

const (
	ActionCreate  Action = "create"
	ActionShip    Action = "ship"
	ActionReceive Action = "receive"
	ActionCancel  Action = "cancel"
)

func (a Action) Validate() error {
	switch a {
	case ActionCreate, ActionShip, ActionReceive, ActionCancel:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a valid action", string(a)))
}

// Entry records one successful status transition of an order.
// FromStatus is Unknown for the creation entry.
type Entry struct {
	id          kernel.UUID
	orderNo     string
	action      Action
	fromStatus  order.Status
	toStatus    order.Status
	operator    string
	operateTime time.Time
	remark      string

	isConstructed bool
}

// NewEntry creates a log entry for a transition performed by the system operator.
//
// Example:
//
//	entry, err := oplog.NewEntry("SO1", oplog.ActionShip, order.Pending, order.Shipping, time.Now())
func NewEntry(orderNo string, action Action, from, to order.Status, operateTime time.Time) (*Entry, error) {
	return RestoreEntry(kernel.NewUUID(), orderNo, action, from, to, SystemOperator, operateTime, "")
}

// RestoreEntry rebuilds an entry from persistence.
func RestoreEntry(
	id kernel.UUID,
	orderNo string,
	action Action,
	from, to order.Status,
	operator string,
	operateTime time.Time,
	remark string,
) (*Entry, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(orderNo) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("orderNo"))
	}
	if err := action.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := to.Validate(); err != nil {
		errList = append(errList, err)
	}
	if from != order.Unknown {
		if err := from.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	if operator == "" {
		operator = SystemOperator
	}

	return &Entry{
		id:            id,
		orderNo:       orderNo,
		action:        action,
		fromStatus:    from,
		toStatus:      to,
		operator:      operator,
		operateTime:   operateTime,
		remark:        remark,
		isConstructed: true,
	}, nil
}

// WithRemark returns a copy of the entry carrying a free-form remark.
func (e *Entry) WithRemark(remark string) *Entry {
	cp := *e
	cp.remark = remark
	return &cp
}

func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

func (e *Entry) ID() kernel.UUID          { return e.id }
func (e *Entry) OrderNo() string          { return e.orderNo }
func (e *Entry) Action() Action           { return e.action }
func (e *Entry) FromStatus() order.Status { return e.fromStatus }
func (e *Entry) ToStatus() order.Status   { return e.toStatus }
func (e *Entry) Operator() string         { return e.operator }
func (e *Entry) OperateTime() time.Time   { return e.operateTime }
func (e *Entry) Remark() string           { return e.remark }

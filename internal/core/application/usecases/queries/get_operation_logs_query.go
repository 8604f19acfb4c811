package queries

import (
	"errors"
	"time"

	"logistics/internal/core/domain/model/oplog"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/guard"
)

var (
	ErrGetOperationLogsQueryIsNotConstructed = errors.New(
		"GetOperationLogsQuery must be created via NewGetOperationLogsQuery constructor",
	)
)

// GetOperationLogsQuery lists the status history of an order, most recent first.
type GetOperationLogsQuery struct { //nolint:recvcheck //using for validation
	orderNo string

	guard guard.ConstructorGuard
}

func NewGetOperationLogsQuery(orderNo string) (GetOperationLogsQuery, error) {
	orderNo, err := parseOrderNo(orderNo)
	if err != nil {
		return GetOperationLogsQuery{}, err
	}

	return GetOperationLogsQuery{
		orderNo: orderNo,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOperationLogsQuery) Validate() error {
	return q.guard.Validate(ErrGetOperationLogsQueryIsNotConstructed)
}

func (q GetOperationLogsQuery) OrderNo() string {
	return q.orderNo
}

// OperationLogResponse is one history line. FromStatus is empty for the
// creation entry.
type OperationLogResponse struct {
	ID          string
	OrderNo     string
	Action      string
	FromStatus  string
	ToStatus    string
	Operator    string
	OperateTime time.Time
	Remark      string
}

func newOperationLogResponse(e *oplog.Entry) OperationLogResponse {
	from := ""
	if e.FromStatus() != order.Unknown {
		from = e.FromStatus().String()
	}

	return OperationLogResponse{
		ID:          e.ID().String(),
		OrderNo:     e.OrderNo(),
		Action:      string(e.Action()),
		FromStatus:  from,
		ToStatus:    e.ToStatus().String(),
		Operator:    e.Operator(),
		OperateTime: e.OperateTime(),
		Remark:      e.Remark(),
	}
}

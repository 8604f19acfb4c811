// Package oplogrepo persists the append-only operation log with GORM.
package oplogrepo

import (
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/oplog"
	"logistics/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OperationLogDTO is one row of the operation log. Seq breaks ties between
// entries written within the same instant.
type OperationLogDTO struct {
	Seq         int64     `gorm:"primaryKey;autoIncrement"`
	ID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	OrderNo     string    `gorm:"size:64;not null;index:idx_operation_logs_order_time,priority:1"`
	Action      string    `gorm:"size:16;not null"`
	FromStatus  string    `gorm:"size:16"`
	ToStatus    string    `gorm:"size:16;not null"`
	Operator    string    `gorm:"size:64;not null"`
	OperateTime time.Time `gorm:"not null;index:idx_operation_logs_order_time,priority:2"`
	Remark      string    `gorm:"size:255"`
}

func (OperationLogDTO) TableName() string {
	return "operation_logs"
}

func fromDomain(entry *oplog.Entry) OperationLogDTO {
	var from string
	if entry.FromStatus() != order.Unknown {
		from = entry.FromStatus().String()
	}

	return OperationLogDTO{
		ID:          entry.ID().Bytes(),
		OrderNo:     entry.OrderNo(),
		Action:      string(entry.Action()),
		FromStatus:  from,
		ToStatus:    entry.ToStatus().String(),
		Operator:    entry.Operator(),
		OperateTime: entry.OperateTime(),
		Remark:      entry.Remark(),
	}
}

func toDomain(dto OperationLogDTO) (*oplog.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	from := order.Unknown
	if dto.FromStatus != "" {
		if from, err = order.ParseStatus(dto.FromStatus); err != nil {
			return nil, err
		}
	}

	to, err := order.ParseStatus(dto.ToStatus)
	if err != nil {
		return nil, err
	}

	return oplog.RestoreEntry(id, dto.OrderNo, oplog.Action(dto.Action), from, to, dto.Operator, dto.OperateTime, dto.Remark)
}

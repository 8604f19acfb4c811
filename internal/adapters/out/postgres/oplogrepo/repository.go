package oplogrepo

import (
	"context"

	"logistics/internal/core/domain/model/oplog"

	"gorm.io/gorm"
)

// GormOperationLogRepository implements ports.OperationLogRepository using GORM.
type GormOperationLogRepository struct {
	db *gorm.DB
}

func NewGormOperationLogRepository(db *gorm.DB) *GormOperationLogRepository {
	return &GormOperationLogRepository{db: db}
}

// Append inserts one entry.
func (r *GormOperationLogRepository) Append(ctx context.Context, entry *oplog.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByOrder returns the entries of an order, most recent first.
func (r *GormOperationLogRepository) ListByOrder(ctx context.Context, orderNo string) ([]*oplog.Entry, error) {
	var dtos []OperationLogDTO
	if err := r.db.WithContext(ctx).
		Order("operate_time DESC").
		Order("seq DESC").
		Find(&dtos, "order_no = ?", orderNo).Error; err != nil {
		return nil, err
	}

	entries := make([]*oplog.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

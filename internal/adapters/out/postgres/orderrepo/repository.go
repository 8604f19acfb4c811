package orderrepo

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolation = "23505"

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(key string, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order. The stored version starts one above the aggregate's.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	dto.Version++

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return errs.NewValueIsInvalidErrorWithCause("orderNo", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.OrderNo(), aggregate)
	return nil
}

// Update writes the aggregate only if the stored version still matches and
// bumps it in the same statement.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("order_no = ? AND version = ?", dto.OrderNo, dto.Version).
		Updates(map[string]any{
			"courier_code":              dto.CourierCode,
			"origin_text":               dto.Origin.Text,
			"origin_lng":                dto.Origin.Lng,
			"origin_lat":                dto.Origin.Lat,
			"destination_text":          dto.Destination.Text,
			"destination_lng":           dto.Destination.Lng,
			"destination_lat":           dto.Destination.Lat,
			"status":                    dto.Status,
			"tracking_no":               dto.TrackingNo,
			"stations":                  dto.Stations,
			"ship_time":                 dto.ShipTime,
			"receive_time":              dto.ReceiveTime,
			"cancel_time":               dto.CancelTime,
			"expected_duration_seconds": dto.ExpectedDurationSeconds,
			"version":                   gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.conflictOrMissing(ctx, dto.OrderNo)
	}

	r.tracker.TrackAggregate(aggregate.OrderNo(), aggregate)
	return nil
}

// Get retrieves an order by its business number.
func (r *GormOrderRepository) Get(ctx context.Context, orderNo string) (*order.Order, error) {
	return r.first(r.db.WithContext(ctx), orderNo)
}

// GetForUpdate locks the order row until the surrounding transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, orderNo string) (*order.Order, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), orderNo)
}

// GetAllInStatus lists orders in a status, oldest first.
func (r *GormOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Order("create_time ASC").
		Order("order_no ASC").
		Find(&dtos, "status = ?", status.String()).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) first(db *gorm.DB, orderNo string) (*order.Order, error) {
	var dto OrderDTO
	if err := db.First(&dto, "order_no = ?", orderNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", orderNo)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) conflictOrMissing(ctx context.Context, orderNo string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("order_no = ?", orderNo).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", orderNo)
	}
	return errs.NewVersionIsInvalidError("order", nil)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

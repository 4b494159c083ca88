package repository

import (
	"context"
	"time"

	"lubricentro-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementFilter narrows ListMovements; zero fields are ignored.
type MovementFilter struct {
	Kind     model.MovementKind
	ItemType model.ItemType
	From     *time.Time
	To       *time.Time
}

// DailyMovement is one point of the dashboard chart.
type DailyMovement struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// MovementRepository has no update or delete: the movement log is append-only.
type MovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindAll(ctx context.Context, f MovementFilter) ([]model.StockMovement, error)
	FindByItem(ctx context.Context, ref model.ItemRef) ([]model.StockMovement, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]model.StockMovement, error)
	GetDailyMovement(ctx context.Context, startDate, endDate time.Time) ([]DailyMovement, error)
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *movementRepo) newest(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Order("occurred_at DESC")
}

func (r *movementRepo) FindAll(ctx context.Context, f MovementFilter) ([]model.StockMovement, error) {
	q := r.newest(ctx)
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.ItemType != "" {
		q = q.Where("item_type = ?", f.ItemType)
	}
	if f.From != nil {
		q = q.Where("occurred_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("occurred_at < ?", *f.To)
	}
	var movements []model.StockMovement
	err := q.Find(&movements).Error
	return movements, err
}

func (r *movementRepo) FindByItem(ctx context.Context, ref model.ItemRef) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.newest(ctx).Where("item_id = ? AND item_type = ?", ref.ID, ref.Type).Find(&movements).Error
	return movements, err
}

// FindByProduct also matches rows written with the flat legacy product column.
func (r *movementRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.newest(ctx).
		Where("(item_id = ? AND item_type = ?) OR legacy_product_id = ?", productID, model.ItemProduct, productID).
		Find(&movements).Error
	return movements, err
}

func (r *movementRepo) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("occurred_at ASC").Find(&movements).Error
	return movements, err
}

func (r *movementRepo) GetDailyMovement(ctx context.Context, startDate, endDate time.Time) ([]DailyMovement, error) {
	var results []DailyMovement

	rows, err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Select(`
			DATE(occurred_at) as date,
			COALESCE(SUM(CASE WHEN kind = ? THEN quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN kind = ? THEN quantity ELSE 0 END), 0) as outbound
		`, model.MovementIn, model.MovementOut).
		Where("occurred_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(occurred_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailyMovement
		var day interface{}
		if err := rows.Scan(&day, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		data.Date = formatDay(day)
		results = append(results, data)
	}
	return results, rows.Err()
}

// formatDay normalises DATE() output, which is a time in Postgres and text in SQLite.
func formatDay(v interface{}) string {
	switch d := v.(type) {
	case time.Time:
		return d.Format("2006-01-02")
	case []byte:
		return string(d)
	case string:
		return d
	}
	return ""
}

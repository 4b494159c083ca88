package repository

import (
	"context"

	"lubricentro-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	FindAll(ctx context.Context, brand string) ([]model.Vehicle, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	Update(ctx context.Context, vehicle *model.Vehicle) error
	Delete(ctx context.Context, id uuid.UUID, deletedBy string) error
}

type vehicleRepo struct {
	db *gorm.DB
}

func NewVehicleRepo(db *gorm.DB) VehicleRepository {
	return &vehicleRepo{db}
}

func (r *vehicleRepo) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *vehicleRepo) FindAll(ctx context.Context, brand string) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	q := r.db.WithContext(ctx).Order("brand ASC, model ASC, year DESC")
	if brand != "" {
		q = q.Where("LOWER(brand) = LOWER(?)", brand)
	}
	err := q.Find(&vehicles).Error
	return vehicles, err
}

func (r *vehicleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepo) Update(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

func (r *vehicleRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Vehicle{}).Where("id = ?", id).Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&model.Vehicle{}, "id = ?", id).Error
	})
}

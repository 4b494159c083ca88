package repository

import (
	"context"
	"errors"

	"lubricentro-ws/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll(ctx context.Context) ([]model.Role, error)
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindByCode(ctx context.Context, code string) (*model.Role, error)
	SeedDefaults(ctx context.Context, privileges []model.Privilege) error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Preload("Privileges").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Preload("Privileges").First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Preload("Privileges").Where("code = ?", code).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// SeedDefaults creates missing default roles and grants each one the
// privileges it is entitled to, if it has none yet.
func (r *roleRepo) SeedDefaults(ctx context.Context, privileges []model.Privilege) error {
	db := r.db.WithContext(ctx)
	for _, def := range model.DefaultRoles {
		var role model.Role
		err := db.Preload("Privileges").Where("code = ?", def.Code).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role = def
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if len(role.Privileges) > 0 {
			continue
		}
		var granted []model.Privilege
		for _, p := range privileges {
			if role.Grants(p) {
				granted = append(granted, p)
			}
		}
		if err := db.Model(&role).Association("Privileges").Replace(granted); err != nil {
			return err
		}
	}
	return nil
}

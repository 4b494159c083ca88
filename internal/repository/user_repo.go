package repository

import (
	"context"

	"lubricentro-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID, deletedBy string) error
	ReplacePrivileges(ctx context.Context, user *model.User, privileges []model.Privilege) error
	UpdateTokenVersion(ctx context.Context, userID uuid.UUID, version string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) withRole(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Role").Preload("Privileges")
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.withRole(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.withRole(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.withRole(ctx).Order("full_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update saves scalar columns; privileges change through ReplacePrivileges.
func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit("Privileges", "Role").Save(user).Error
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).Where("id = ?", id).Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&model.User{}, "id = ?", id).Error
	})
}

func (r *userRepo) ReplacePrivileges(ctx context.Context, user *model.User, privileges []model.Privilege) error {
	return r.db.WithContext(ctx).Model(user).Association("Privileges").Replace(privileges)
}

func (r *userRepo) UpdateTokenVersion(ctx context.Context, userID uuid.UUID, version string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("token_version", version).Error
}

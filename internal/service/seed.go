package service

import (
	"context"
	"errors"
	"fmt"

	"lubricentro-ws/internal/config"
	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// SeedAccess creates the default privileges and roles, then the first
// administrator when no account with the configured email exists.
// It is safe to run on every start.
func SeedAccess(ctx context.Context, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository, userRepo repository.UserRepository, admin config.AdminConfig, log zerolog.Logger) error {
	if err := privilegeRepo.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	privileges, err := privilegeRepo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load privileges: %w", err)
	}
	if err := roleRepo.SeedDefaults(ctx, privileges); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	_, err = userRepo.FindByEmail(ctx, admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}
	if admin.Password == "" {
		log.Warn().Str("email", admin.Email).Msg("ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}

	role, err := roleRepo.FindByCode(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("load admin role: %w", err)
	}
	user := &model.User{
		Email:      admin.Email,
		FullName:   admin.Name,
		RoleID:     &role.ID,
		IsActive:   true,
		Privileges: role.Privileges,
	}
	user.Stamp(model.SystemActor)
	if err := user.SetPassword(admin.Password); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info().Str("email", admin.Email).Msg("admin account created")
	return nil
}

package service

import (
	"context"
	"testing"

	"lubricentro-ws/internal/config"
	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"
	"lubricentro-ws/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAccessIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	privRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)
	admin := config.AdminConfig{Email: "jefe@lubricentro.test", Password: "cambiar123", Name: "Jefe"}

	for i := 0; i < 2; i++ {
		require.NoError(t, SeedAccess(ctx, privRepo, roleRepo, userRepo, admin, zerolog.Nop()))
	}

	users, err := userRepo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, model.RoleAdmin, users[0].RoleCode())
	assert.Len(t, users[0].Privileges, len(model.DefaultPrivileges))
	assert.True(t, users[0].CheckPassword("cambiar123"))

	staff, err := roleRepo.FindByCode(ctx, model.RoleStaff)
	require.NoError(t, err)
	codes := map[string]bool{}
	for _, p := range staff.Privileges {
		codes[p.Code] = true
	}
	assert.True(t, codes[model.PrivMovementCreate])
	assert.True(t, codes[model.PrivOrderDelete])
	assert.False(t, codes[model.PrivProductCreate])
	assert.False(t, codes[model.PrivUserView])
}

func TestSeedAccessWithoutAdminPassword(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	userRepo := repository.NewUserRepo(db)

	err := SeedAccess(ctx, repository.NewPrivilegeRepo(db), repository.NewRoleRepo(db), userRepo,
		config.AdminConfig{Email: "jefe@lubricentro.test"}, zerolog.Nop())
	require.NoError(t, err)

	users, err := userRepo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

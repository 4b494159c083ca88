package service

import (
	"context"
	"errors"
	"fmt"

	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest, creatorID string) (*model.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID, deleterID string) error
	UpdateUserPrivileges(ctx context.Context, userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	RoleID   uint   `json:"role_id" validate:"required"`
}

type UpdateUserRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	FullName string  `json:"full_name" validate:"required"`
	RoleID   uint    `json:"role_id" validate:"required"`
	IsActive *bool   `json:"is_active"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
	}
}

var errEmailExists = &ConflictError{Message: "email already exists"}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest, creatorID string) (*model.User, error) {
	if err := ValidateInput(req); err != nil {
		return nil, err
	}
	if existing, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, errEmailExists
	}
	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, notFound(err, "role")
	}

	user := &model.User{
		Email:      req.Email,
		FullName:   req.FullName,
		RoleID:     &role.ID,
		IsActive:   true,
		Privileges: role.Privileges,
	}
	user.Stamp(creatorID)
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errEmailExists
		}
		return nil, err
	}
	return s.userRepo.FindByID(ctx, user.ID)
}

// UpdateUser re-derives privileges from the role when the role changes.
func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error) {
	if err := ValidateInput(req); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if req.Email != user.Email {
		if existing, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
			return nil, errEmailExists
		}
	}
	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, notFound(err, "role")
	}

	roleChanged := user.RoleID == nil || *user.RoleID != role.ID
	user.Email = req.Email
	user.FullName = req.FullName
	user.RoleID = &role.ID
	user.Role = nil
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updaterID
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if roleChanged {
		if err := s.userRepo.ReplacePrivileges(ctx, user, role.Privileges); err != nil {
			return nil, err
		}
	}
	return s.userRepo.FindByID(ctx, userID)
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID, deleterID string) error {
	if userID.String() == deleterID {
		return &ConflictError{Message: "users cannot delete themselves"}
	}
	if err := s.userRepo.Delete(ctx, userID, deleterID); err != nil {
		return notFound(err, "user")
	}
	return nil
}

func (s *userService) UpdateUserPrivileges(ctx context.Context, userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	privileges, err := s.privilegeRepo.FindByCodes(ctx, privilegeCodes)
	if err != nil {
		return nil, err
	}
	if len(privileges) != len(privilegeCodes) {
		return nil, invalidField("privileges", "exists", "unknown privilege code")
	}
	if err := s.userRepo.ReplacePrivileges(ctx, user, privileges); err != nil {
		return nil, err
	}
	user.UpdatedBy = updaterID
	user.Privileges = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, userID)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	response := user.ToResponse()
	return &response, nil
}

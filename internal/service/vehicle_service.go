package service

import (
	"context"

	"lubricentro-ws/internal/model"
	"lubricentro-ws/internal/repository"

	"github.com/google/uuid"
)

type VehicleInput struct {
	Brand      string `json:"brand" validate:"required,max=100"`
	Model      string `json:"model" validate:"required,max=100"`
	Year       int    `json:"year" validate:"required,min=1900,max=2100"`
	AirFilter  string `json:"air_filter" validate:"max=100"`
	OilFilter  string `json:"oil_filter" validate:"max=100"`
	FuelFilter string `json:"fuel_filter" validate:"max=100"`
	Battery    string `json:"battery" validate:"max=100"`
	Position   string `json:"position" validate:"max=100"`
}

func (in *VehicleInput) apply(v *model.Vehicle) {
	v.Brand = in.Brand
	v.Model = in.Model
	v.Year = in.Year
	v.AirFilter = in.AirFilter
	v.OilFilter = in.OilFilter
	v.FuelFilter = in.FuelFilter
	v.Battery = in.Battery
	v.Position = in.Position
}

type VehicleService interface {
	Create(ctx context.Context, in *VehicleInput, userID string) (*model.Vehicle, error)
	Update(ctx context.Context, id uuid.UUID, in *VehicleInput, userID string) (*model.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	Get(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	List(ctx context.Context, brand string) ([]model.Vehicle, error)
}

type vehicleService struct {
	repo repository.VehicleRepository
}

func NewVehicleService(repo repository.VehicleRepository) VehicleService {
	return &vehicleService{repo: repo}
}

func (s *vehicleService) Create(ctx context.Context, in *VehicleInput, userID string) (*model.Vehicle, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	v := &model.Vehicle{}
	in.apply(v)
	v.Stamp(userID)
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *vehicleService) Update(ctx context.Context, id uuid.UUID, in *VehicleInput, userID string) (*model.Vehicle, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "vehicle")
	}
	in.apply(v)
	v.UpdatedBy = userID
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *vehicleService) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return notFound(err, "vehicle")
	}
	return nil
}

func (s *vehicleService) Get(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "vehicle")
	}
	return v, nil
}

func (s *vehicleService) List(ctx context.Context, brand string) ([]model.Vehicle, error) {
	return s.repo.FindAll(ctx, brand)
}

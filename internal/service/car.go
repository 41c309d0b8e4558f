package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/carnotes-app/carnotes/internal/domain"
	"github.com/carnotes-app/carnotes/internal/store"
	"github.com/carnotes-app/carnotes/pkg/idx"
)

// CarService owns the car-note CRUD. All per-user operations are scoped to
// the owner; the Admin* variants cross ownership and are only reachable
// behind the admin role gate.
type CarService struct {
	Store store.Store
}

// CarParams are the editable fields of a car note.
type CarParams struct {
	Brand string
	Model string
	Fuel  string
}

func (p CarParams) normalized() (CarParams, error) {
	p.Brand = strings.TrimSpace(p.Brand)
	p.Model = strings.TrimSpace(p.Model)
	p.Fuel = strings.TrimSpace(p.Fuel)
	if p.Brand == "" || p.Model == "" || p.Fuel == "" {
		return CarParams{}, fmt.Errorf("%w: brand, model and fuel are required", ErrValidation)
	}
	return p, nil
}

// CreateCar adds a car note for the user.
func (s *CarService) CreateCar(ctx context.Context, userID string, p CarParams) (domain.Car, error) {
	p, err := p.normalized()
	if err != nil {
		return domain.Car{}, err
	}

	c := domain.Car{
		ID:        idx.New().String(),
		UserID:    userID,
		Brand:     p.Brand,
		Model:     p.Model,
		Fuel:      p.Fuel,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.Cars().CreateCar(ctx, c); err != nil {
		return domain.Car{}, err
	}
	return c, nil
}

// GetCar returns the user's car, or store.ErrNotFound.
func (s *CarService) GetCar(ctx context.Context, userID, carID string) (domain.Car, error) {
	return s.Store.Cars().GetCar(ctx, userID, carID)
}

// ListCars returns the user's cars narrowed by filter, newest first.
func (s *CarService) ListCars(ctx context.Context, userID string, f domain.CarFilter) ([]domain.Car, error) {
	cars, err := s.Store.Cars().ListCarsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filterCars(cars, f), nil
}

// UpdateCar rewrites the user's car with the given fields.
func (s *CarService) UpdateCar(ctx context.Context, userID, carID string, p CarParams) error {
	p, err := p.normalized()
	if err != nil {
		return err
	}

	return s.Store.Cars().UpdateCar(ctx, domain.Car{
		ID:     carID,
		UserID: userID,
		Brand:  p.Brand,
		Model:  p.Model,
		Fuel:   p.Fuel,
	})
}

// DeleteCar removes the user's car. Deleting a car that does not exist or
// belongs to someone else is a silent no-op.
func (s *CarService) DeleteCar(ctx context.Context, userID, carID string) error {
	return s.Store.Cars().DeleteCar(ctx, userID, carID)
}

// AdminListCars returns every car regardless of owner, newest first.
func (s *CarService) AdminListCars(ctx context.Context, f domain.CarFilter) ([]domain.Car, error) {
	cars, err := s.Store.Cars().ListAllCars(ctx)
	if err != nil {
		return nil, err
	}
	return filterCars(cars, f), nil
}

// AdminDeleteCar removes a car regardless of owner.
func (s *CarService) AdminDeleteCar(ctx context.Context, carID string) error {
	return s.Store.Cars().DeleteCarAnyOwner(ctx, carID)
}

func filterCars(cars []domain.Car, f domain.CarFilter) []domain.Car {
	out := make([]domain.Car, 0, len(cars))
	for _, c := range cars {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

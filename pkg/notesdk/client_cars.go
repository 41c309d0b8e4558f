package notesdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// CarFilter narrows car listings. Each field holds alternative substrings of
// which at least one must match.
type CarFilter struct {
	Brands []string
	Fuels  []string
}

func (f CarFilter) query() string {
	q := url.Values{}
	if len(f.Brands) > 0 {
		q.Set("brand", strings.Join(f.Brands, "-"))
	}
	if len(f.Fuels) > 0 {
		q.Set("fuel", strings.Join(f.Fuels, "-"))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// CreateCar adds a car note and returns it.
func (s *Session) CreateCar(ctx context.Context, req CarRequest) (Car, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Car{}, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.do(ctx, http.MethodPost, "/api/cars", payload)
	if err != nil {
		return Car{}, err
	}

	var car Car
	if err := decodeJSON(resp, &car, http.StatusOK); err != nil {
		return Car{}, err
	}
	return car, nil
}

// ListCars returns the caller's cars, newest first, narrowed by filter.
func (s *Session) ListCars(ctx context.Context, filter CarFilter) ([]Car, error) {
	resp, err := s.do(ctx, http.MethodGet, "/api/cars"+filter.query(), nil)
	if err != nil {
		return nil, err
	}

	var cars []Car
	if err := decodeJSON(resp, &cars, http.StatusOK); err != nil {
		return nil, err
	}
	return cars, nil
}

// GetCar returns one of the caller's cars by id.
func (s *Session) GetCar(ctx context.Context, carID string) (Car, error) {
	resp, err := s.do(ctx, http.MethodGet, "/api/cars/"+carID, nil)
	if err != nil {
		return Car{}, err
	}

	var car Car
	if err := decodeJSON(resp, &car, http.StatusOK); err != nil {
		return Car{}, err
	}
	return car, nil
}

// UpdateCar rewrites one of the caller's cars.
func (s *Session) UpdateCar(ctx context.Context, carID string, req CarRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.do(ctx, http.MethodPut, "/api/cars/"+carID, payload)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// DeleteCar removes one of the caller's cars. Unknown ids are a no-op.
func (s *Session) DeleteCar(ctx context.Context, carID string) error {
	resp, err := s.do(ctx, http.MethodDelete, "/api/cars/"+carID, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// AdminListCars returns every car regardless of owner. Requires the admin
// role.
func (s *Session) AdminListCars(ctx context.Context, filter CarFilter) ([]Car, error) {
	resp, err := s.do(ctx, http.MethodGet, "/api/cars/admin"+filter.query(), nil)
	if err != nil {
		return nil, err
	}

	var cars []Car
	if err := decodeJSON(resp, &cars, http.StatusOK); err != nil {
		return nil, err
	}
	return cars, nil
}

// AdminDeleteCar removes any user's car. Requires the admin role.
func (s *Session) AdminDeleteCar(ctx context.Context, carID string) error {
	resp, err := s.do(ctx, http.MethodDelete, "/api/cars/admin/"+carID, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

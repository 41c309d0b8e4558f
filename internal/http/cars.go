package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/carnotes-app/carnotes/internal/domain"
	"github.com/carnotes-app/carnotes/internal/service"
	"github.com/carnotes-app/carnotes/internal/store"
	"github.com/carnotes-app/carnotes/pkg/httpx"
	"github.com/carnotes-app/carnotes/pkg/idx"
	"github.com/carnotes-app/carnotes/pkg/notesdk"
	"github.com/carnotes-app/carnotes/pkg/slogx"
)

type CarsHandler struct {
	CarService *service.CarService
}

func (h *CarsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromCtx(ctx)

	var req notesdk.CarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	car, err := h.CarService.CreateCar(ctx, userID, service.CarParams{
		Brand: req.Brand,
		Model: req.Model,
		Fuel:  req.Fuel,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			log.Error("failed to create car", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, car)
}

func (h *CarsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromCtx(ctx)

	cars, err := h.CarService.ListCars(ctx, userID, filterFromQuery(r))
	if err != nil {
		log.Error("failed to list cars", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, cars)
}

func (h *CarsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromCtx(ctx)

	carID, ok := carIDFromPath(w, r)
	if !ok {
		return
	}

	car, err := h.CarService.GetCar(ctx, userID, carID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "car not found")
		default:
			log.Error("failed to get car", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, car)
}

func (h *CarsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromCtx(ctx)

	carID, ok := carIDFromPath(w, r)
	if !ok {
		return
	}

	var req notesdk.CarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.CarService.UpdateCar(ctx, userID, carID, service.CarParams{
		Brand: req.Brand,
		Model: req.Model,
		Fuel:  req.Fuel,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "car not found")
		default:
			log.Error("failed to update car", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CarsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := httpx.UserIDFromCtx(ctx)

	carID, ok := carIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.CarService.DeleteCar(ctx, userID, carID); err != nil {
		log.Error("failed to delete car", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CarsHandler) HandleAdminList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	cars, err := h.CarService.AdminListCars(ctx, filterFromQuery(r))
	if err != nil {
		log.Error("failed to list all cars", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, cars)
}

func (h *CarsHandler) HandleAdminDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	carID, ok := carIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.CarService.AdminDeleteCar(ctx, carID); err != nil {
		log.Error("failed to delete car", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// carIDFromPath extracts and validates the {carId} path segment. On failure
// the 400 is already written.
func carIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	carID := r.PathValue("carId")
	if _, err := idx.Parse(carID); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid car id")
		return "", false
	}
	return carID, true
}

// filterFromQuery parses ?brand= and ?fuel=. Each value holds alternatives
// separated by "-"; e.g. brand=toyota-mazda matches either substring.
func filterFromQuery(r *http.Request) domain.CarFilter {
	var f domain.CarFilter
	if brand := r.URL.Query().Get("brand"); brand != "" {
		f.Brands = strings.Split(brand, "-")
	}
	if fuel := r.URL.Query().Get("fuel"); fuel != "" {
		f.Fuels = strings.Split(fuel, "-")
	}
	return f
}

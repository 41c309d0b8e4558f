package service

import (
	"context"
	"testing"

	"github.com/carnotes-app/carnotes/internal/domain"
	"github.com/carnotes-app/carnotes/internal/store"

	"github.com/stretchr/testify/require"
)

func TestCarLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &CarService{Store: st}
	u := createUser(t, st, "alice@example.com", "Sup3r-secret-pass!")

	car, err := svc.CreateCar(ctx, u.ID, CarParams{Brand: "Toyota", Model: "Corolla", Fuel: "petrol"})
	require.NoError(t, err)
	require.NotEmpty(t, car.ID)
	require.Equal(t, u.ID, car.UserID)

	got, err := svc.GetCar(ctx, u.ID, car.ID)
	require.NoError(t, err)
	require.Equal(t, "Toyota", got.Brand)

	require.NoError(t, svc.UpdateCar(ctx, u.ID, car.ID, CarParams{Brand: "Toyota", Model: "Camry", Fuel: "hybrid"}))
	got, err = svc.GetCar(ctx, u.ID, car.ID)
	require.NoError(t, err)
	require.Equal(t, "Camry", got.Model)

	require.NoError(t, svc.DeleteCar(ctx, u.ID, car.ID))
	_, err = svc.GetCar(ctx, u.ID, car.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Deleting again stays silent.
	require.NoError(t, svc.DeleteCar(ctx, u.ID, car.ID))
}

func TestCarValidation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &CarService{Store: st}
	u := createUser(t, st, "alice@example.com", "Sup3r-secret-pass!")

	_, err := svc.CreateCar(ctx, u.ID, CarParams{Brand: "", Model: "Corolla", Fuel: "petrol"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateCar(ctx, u.ID, CarParams{Brand: "Toyota", Model: "  ", Fuel: "petrol"})
	require.ErrorIs(t, err, ErrValidation)

	car, err := svc.CreateCar(ctx, u.ID, CarParams{Brand: "Toyota", Model: "Corolla", Fuel: "petrol"})
	require.NoError(t, err)

	err = svc.UpdateCar(ctx, u.ID, car.ID, CarParams{Brand: "Toyota", Model: "Corolla", Fuel: ""})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCarOwnershipScoping(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &CarService{Store: st}
	alice := createUser(t, st, "alice@example.com", "Sup3r-secret-pass!")
	bob := createUser(t, st, "bob@example.com", "Sup3r-secret-pass!")

	car, err := svc.CreateCar(ctx, alice.ID, CarParams{Brand: "Toyota", Model: "Corolla", Fuel: "petrol"})
	require.NoError(t, err)

	_, err = svc.GetCar(ctx, bob.ID, car.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = svc.UpdateCar(ctx, bob.ID, car.ID, CarParams{Brand: "Ford", Model: "Focus", Fuel: "diesel"})
	require.ErrorIs(t, err, store.ErrNotFound)

	// Bob's delete is a no-op against Alice's car.
	require.NoError(t, svc.DeleteCar(ctx, bob.ID, car.ID))
	got, err := svc.GetCar(ctx, alice.ID, car.ID)
	require.NoError(t, err)
	require.Equal(t, "Toyota", got.Brand)
}

func TestCarListFilters(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &CarService{Store: st}
	u := createUser(t, st, "alice@example.com", "Sup3r-secret-pass!")

	for _, p := range []CarParams{
		{Brand: "Toyota", Model: "Corolla", Fuel: "petrol"},
		{Brand: "Toyota", Model: "Prius", Fuel: "hybrid"},
		{Brand: "Volkswagen", Model: "Golf", Fuel: "diesel"},
	} {
		_, err := svc.CreateCar(ctx, u.ID, p)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter domain.CarFilter
		want   int
	}{
		{"no filter", domain.CarFilter{}, 3},
		{"brand exact", domain.CarFilter{Brands: []string{"Toyota"}}, 2},
		{"brand substring", domain.CarFilter{Brands: []string{"Volks"}}, 1},
		{"brand alternatives", domain.CarFilter{Brands: []string{"Toyota", "Volkswagen"}}, 3},
		{"fuel", domain.CarFilter{Fuels: []string{"diesel"}}, 1},
		{"brand and fuel must both match", domain.CarFilter{Brands: []string{"Toyota"}, Fuels: []string{"hybrid"}}, 1},
		{"no overlap", domain.CarFilter{Brands: []string{"Toyota"}, Fuels: []string{"diesel"}}, 0},
		{"unknown brand", domain.CarFilter{Brands: []string{"Tesla"}}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.ListCars(ctx, u.ID, tc.filter)
			require.NoError(t, err)
			require.Len(t, got, tc.want)
		})
	}
}

func TestCarAdminOperations(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &CarService{Store: st}
	alice := createUser(t, st, "alice@example.com", "Sup3r-secret-pass!")
	bob := createUser(t, st, "bob@example.com", "Sup3r-secret-pass!")

	a, err := svc.CreateCar(ctx, alice.ID, CarParams{Brand: "Toyota", Model: "Corolla", Fuel: "petrol"})
	require.NoError(t, err)
	_, err = svc.CreateCar(ctx, bob.ID, CarParams{Brand: "Ford", Model: "Focus", Fuel: "diesel"})
	require.NoError(t, err)

	all, err := svc.AdminListCars(ctx, domain.CarFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, svc.AdminDeleteCar(ctx, a.ID))
	all, err = svc.AdminListCars(ctx, domain.CarFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, bob.ID, all[0].UserID)
}

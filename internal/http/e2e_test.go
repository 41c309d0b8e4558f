package http

import (
	"net/http/httptest"
	"testing"

	"github.com/carnotes-app/carnotes/internal/domain"
	"github.com/carnotes-app/carnotes/pkg/notesdk"

	"github.com/stretchr/testify/require"
)

// newSDKClient spins the router up as a real server and points the SDK at it.
func newSDKClient(t *testing.T, env *testEnv) *notesdk.Client {
	t.Helper()

	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	client, err := notesdk.NewClient(srv.URL)
	require.NoError(t, err)
	return client
}

func TestEndToEndUserFlow(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)
	client := newSDKClient(t, env)

	require.NoError(t, client.Register(ctx, notesdk.RegisterRequest{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "Sup3r-secret-pass!",
		ConfirmPassword: "Sup3r-secret-pass!",
	}))

	sess, err := client.Login(ctx, "alice@example.com", "Sup3r-secret-pass!")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", sess.User().Email)
	require.NotEmpty(t, sess.AccessToken())

	car, err := sess.CreateCar(ctx, notesdk.CarRequest{
		Brand: "Toyota", Model: "Corolla", Fuel: "petrol",
	})
	require.NoError(t, err)
	require.Equal(t, sess.User().ID, car.UserID)

	_, err = sess.CreateCar(ctx, notesdk.CarRequest{
		Brand: "Volkswagen", Model: "Golf", Fuel: "diesel",
	})
	require.NoError(t, err)

	cars, err := sess.ListCars(ctx, notesdk.CarFilter{})
	require.NoError(t, err)
	require.Len(t, cars, 2)

	filtered, err := sess.ListCars(ctx, notesdk.CarFilter{Brands: []string{"Toyota"}})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, car.ID, filtered[0].ID)

	require.NoError(t, sess.UpdateCar(ctx, car.ID, notesdk.CarRequest{
		Brand: "Toyota", Model: "Camry", Fuel: "hybrid",
	}))
	got, err := sess.GetCar(ctx, car.ID)
	require.NoError(t, err)
	require.Equal(t, "Camry", got.Model)

	require.NoError(t, sess.DeleteCar(ctx, car.ID))
	cars, err = sess.ListCars(ctx, notesdk.CarFilter{})
	require.NoError(t, err)
	require.Len(t, cars, 1)

	// Logout kills the session locally and server-side.
	require.NoError(t, sess.Logout(ctx))
	require.True(t, sess.LoggedOut())
	_, err = sess.ListCars(ctx, notesdk.CarFilter{})
	require.ErrorIs(t, err, notesdk.ErrSessionExpired)
}

func TestEndToEndAdminFlow(t *testing.T) {
	ctx := t.Context()
	env := newTestEnv(t)
	env.createUser(t, "root@example.com", "Sup3r-secret-pass!", domain.RoleUser, domain.RoleAdmin)

	userClient := newSDKClient(t, env)
	require.NoError(t, userClient.Register(ctx, notesdk.RegisterRequest{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "Sup3r-secret-pass!",
		ConfirmPassword: "Sup3r-secret-pass!",
	}))
	userSess, err := userClient.Login(ctx, "alice@example.com", "Sup3r-secret-pass!")
	require.NoError(t, err)

	car, err := userSess.CreateCar(ctx, notesdk.CarRequest{
		Brand: "Toyota", Model: "Corolla", Fuel: "petrol",
	})
	require.NoError(t, err)

	// The plain user cannot reach the admin surface.
	_, err = userSess.AdminListCars(ctx, notesdk.CarFilter{})
	var apiErr *notesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 403, apiErr.StatusCode)

	adminClient := newSDKClient(t, env)
	adminSess, err := adminClient.Login(ctx, "root@example.com", "Sup3r-secret-pass!")
	require.NoError(t, err)

	all, err := adminSess.AdminListCars(ctx, notesdk.CarFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, adminSess.AdminDeleteCar(ctx, car.ID))
	all, err = adminSess.AdminListCars(ctx, notesdk.CarFilter{})
	require.NoError(t, err)
	require.Empty(t, all)
}

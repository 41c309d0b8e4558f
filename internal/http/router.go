package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/carnotes-app/carnotes/internal/service"
	"github.com/carnotes-app/carnotes/internal/store"
	"github.com/carnotes-app/carnotes/pkg/httpx"
	"github.com/carnotes-app/carnotes/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     httpx.TokenVerifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// CookieSecure marks the refresh cookie Secure; enable outside local dev.
	CookieSecure bool

	// RefreshTTL bounds the refresh cookie's Max-Age.
	RefreshTTL time.Duration

	SessionService *service.SessionService
	UserService    *service.UserService
	CarService     *service.CarService
}

func NewRouter(
	verifier httpx.TokenVerifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerCars()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		SessionService: r.SessionService,
		UserService:    r.UserService,
		CookieSecure:   r.CookieSecure,
		RefreshTTL:     r.RefreshTTL,
	}

	// Credential endpoints get the strict profile to slow brute force.
	r.Mux.Handle("POST /api/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /api/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerCars() {
	h := &CarsHandler{CarService: r.CarService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.LenientLimit),
		)
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole("admin"),
			httpx.RateLimitByIP(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("POST /api/cars", secured(h.HandleCreate))
	r.Mux.Handle("GET /api/cars", secured(h.HandleList))
	r.Mux.Handle("GET /api/cars/{carId}", secured(h.HandleGet))
	r.Mux.Handle("PUT /api/cars/{carId}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/cars/{carId}", secured(h.HandleDelete))

	// Literal /api/cars/admin beats the {carId} pattern on specificity.
	r.Mux.Handle("GET /api/cars/admin", admin(h.HandleAdminList))
	r.Mux.Handle("DELETE /api/cars/admin/{carId}", admin(h.HandleAdminDelete))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

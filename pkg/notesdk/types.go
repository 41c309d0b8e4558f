package notesdk

import "time"

// User is the API's public user representation.
type User struct {
	ID        string    `json:"userId"`
	Email     string    `json:"email"`
	Username  string    `json:"userName"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

// Car is a single car note.
type Car struct {
	ID        string    `json:"carId"`
	UserID    string    `json:"userId"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Fuel      string    `json:"fuel"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email           string `json:"email"`
	Username        string `json:"userName"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body of a successful login. The refresh token is not
// part of it; that travels only in the HTTP-only cookie.
type LoginResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

// RefreshResponse is the body of a successful refresh.
type RefreshResponse struct {
	User           User   `json:"user"`
	NewAccessToken string `json:"newAccessToken"`
}

// CarRequest is the body of car create and update calls.
type CarRequest struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Fuel  string `json:"fuel"`
}

// ErrorResponse is the API's error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency health on the readiness endpoint.
type HealthChecks struct {
	Database string `json:"database"`
}

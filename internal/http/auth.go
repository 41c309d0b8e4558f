package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/carnotes-app/carnotes/internal/domain"
	"github.com/carnotes-app/carnotes/internal/service"
	"github.com/carnotes-app/carnotes/pkg/httpx"
	"github.com/carnotes-app/carnotes/pkg/notesdk"
	"github.com/carnotes-app/carnotes/pkg/slogx"
)

// RefreshCookieName is the cookie carrying the refresh token. The token never
// appears in a response body.
const RefreshCookieName = "refreshToken"

type AuthHandler struct {
	SessionService *service.SessionService
	UserService    *service.UserService

	CookieSecure bool
	RefreshTTL   time.Duration
}

// HandleRegister creates a new account.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req notesdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err := h.UserService.Register(ctx, service.RegisterParams{
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusBadRequest, "email already in use")
		default:
			log.Error("failed to register user", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLogin verifies credentials and opens a session. A refresh cookie that
// rides along on the request is handed to the service so the prior session is
// closed first.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req notesdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var priorRefresh string
	if c, err := r.Cookie(RefreshCookieName); err == nil {
		priorRefresh = c.Value
	}

	sess, err := h.SessionService.Login(ctx, req.Email, req.Password, priorRefresh)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.setRefreshCookie(w, sess.RefreshToken)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, notesdk.LoginResponse{
		User:        sdkUser(sess.User),
		AccessToken: sess.AccessToken,
	})
}

// HandleRefresh rotates the session. The cookie is cleared before the token
// is even looked at, so each presented value gets at most one attempt; a
// successful rotation sets the replacement cookie afterwards.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	c, err := r.Cookie(RefreshCookieName)
	if err != nil || c.Value == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "missing refresh token")
		return
	}

	h.clearRefreshCookie(w)

	sess, err := h.SessionService.Refresh(ctx, c.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid refresh token")
		default:
			log.Error("refresh failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.setRefreshCookie(w, sess.RefreshToken)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, notesdk.RefreshResponse{
		User:           sdkUser(sess.User),
		NewAccessToken: sess.AccessToken,
	})
}

// HandleLogout closes the session. It responds 204 whatever the token state;
// only the cookie clearing matters to the caller.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var refreshToken string
	if c, err := r.Cookie(RefreshCookieName); err == nil {
		refreshToken = c.Value
	}

	h.clearRefreshCookie(w)

	if err := h.SessionService.Logout(ctx, refreshToken); err != nil {
		log.Error("logout failed", "err", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func sdkUser(u domain.User) notesdk.User {
	return notesdk.User{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Roles:     u.Roles,
		CreatedAt: u.CreatedAt,
	}
}

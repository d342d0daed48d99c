package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"blogapi/internal/delivery/http/helpers"
	"blogapi/internal/delivery/http/middleware"
	"blogapi/internal/domain"
)

// LoginRequest is the request body for POST /api/session.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is the data of a successful login.
type SessionResponse struct {
	User      *domain.UserWithRole `json:"user"`
	ExpiresAt time.Time            `json:"expires_at"`
}

// SessionController issues and clears the session cookie.
type SessionController struct {
	Logger  *slog.Logger
	Service domain.AuthService
	// SecureCookie marks the cookie Secure. Off only for plain HTTP development.
	SecureCookie bool
}

// NewSessionController creates a SessionController with the given logger and service.
func NewSessionController(logger *slog.Logger, svc domain.AuthService, secureCookie bool) *SessionController {
	return &SessionController{
		Logger:       logger,
		Service:      svc,
		SecureCookie: secureCookie,
	}
}

// Login godoc
// @Summary Log in
// @Description Checks the credentials and sets an http-only jwt cookie holding the session token.
// @Tags session
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} helpers.APIResponse "data contains the user and expires_at"
// @Failure 401 {object} helpers.APIResponse "code: UNAUTHORIZED"
// @Failure 422 {object} helpers.APIResponse "code: INVALID_INPUT"
// @Router /session [post]
func (c *SessionController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	session, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c.Logger, w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   c.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	helpers.WriteJSONSuccess(w, http.StatusOK, SessionResponse{User: session.User, ExpiresAt: session.ExpiresAt})
}

// Logout godoc
// @Summary Log out
// @Description Clears the jwt cookie.
// @Tags session
// @Success 204
// @Router /session [delete]
func (c *SessionController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

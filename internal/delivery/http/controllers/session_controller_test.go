package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogapi/internal/delivery/http/helpers"
	"blogapi/internal/delivery/http/middleware"
	"blogapi/internal/domain"
)

func TestSessionController_Login(t *testing.T) {
	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := &fakeAuthService{session: &domain.Session{
		Token:     "signed.token.value",
		ExpiresAt: expires,
		User:      &domain.UserWithRole{User: domain.User{ID: 3, Email: "a@b.com", RoleID: domain.RoleAdmin}, RoleName: "admin"},
	}}
	ctrl := NewSessionController(testLogger, svc, true)
	rr := httptest.NewRecorder()

	ctrl.Login(rr, newRequest(http.MethodPost, "/api/session", `{"email":"a@b.com","password":"secret123"}`))

	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, middleware.CookieName, c.Name)
	assert.Equal(t, "signed.token.value", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.True(t, c.Expires.Equal(expires))

	var data SessionResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &data))
	assert.Equal(t, "admin", data.User.RoleName)
	assert.True(t, data.ExpiresAt.Equal(expires))
}

func TestSessionController_LoginFailures(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "bad credentials", body: `{"email":"a@b.com","password":"x"}`, err: domain.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
		{name: "invalid email", body: `{"email":"nope","password":"x"}`, wantStatus: http.StatusUnprocessableEntity, wantCode: helpers.ErrCodeInvalidInput},
		{name: "malformed json", body: `{"email":`, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewSessionController(testLogger, &fakeAuthService{err: tt.err}, false)
			rr := httptest.NewRecorder()

			ctrl.Login(rr, newRequest(http.MethodPost, "/api/session", tt.body))

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Empty(t, rr.Result().Cookies())
			assert.Equal(t, tt.wantCode, decodeEnvelope(t, rr).Code)
		})
	}
}

func TestSessionController_Logout(t *testing.T) {
	ctrl := NewSessionController(testLogger, &fakeAuthService{}, false)
	rr := httptest.NewRecorder()

	ctrl.Logout(rr, newRequest(http.MethodDelete, "/api/session", ""))

	require.Equal(t, http.StatusNoContent, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

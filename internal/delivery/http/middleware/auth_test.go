package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogapi/internal/delivery/http/helpers"
	"blogapi/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	claims *domain.Claims
	err    error
	got    string
}

func (f *fakeTokenVerifier) Verify(token string) (*domain.Claims, error) {
	f.got = token
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func claimsFor(roleID int64) *domain.Claims {
	return &domain.Claims{Principal: domain.Principal{UserID: 5, Email: "u@example.com", RoleID: roleID}}
}

func TestRequireRole(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name         string
		cookie       string
		authHeader   string
		verifier     *fakeTokenVerifier
		level        domain.AccessLevel
		wantStatus   int
		wantBodyCode string
		nextCalled   bool
	}{
		{
			name:       "admin passes admin guard",
			cookie:     "tok",
			verifier:   &fakeTokenVerifier{claims: claimsFor(domain.RoleAdmin)},
			level:      domain.LevelAdmin,
			wantStatus: http.StatusOK,
			nextCalled: true,
		},
		{
			name:         "standard user is forbidden on admin guard",
			cookie:       "tok",
			verifier:     &fakeTokenVerifier{claims: claimsFor(domain.RoleStandard)},
			level:        domain.LevelAdmin,
			wantStatus:   http.StatusForbidden,
			wantBodyCode: helpers.ErrCodeForbidden,
		},
		{
			name:       "any role passes session guard",
			cookie:     "tok",
			verifier:   &fakeTokenVerifier{claims: claimsFor(3)},
			level:      domain.LevelSession,
			wantStatus: http.StatusOK,
			nextCalled: true,
		},
		{
			name:         "no credential",
			verifier:     &fakeTokenVerifier{claims: claimsFor(domain.RoleAdmin)},
			level:        domain.LevelSession,
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "invalid or expired token",
			cookie:       "tok",
			verifier:     &fakeTokenVerifier{err: errors.Join(domain.ErrUnauthorized, errors.New("token is expired"))},
			level:        domain.LevelSession,
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:       "bearer header fallback",
			authHeader: "Bearer tok",
			verifier:   &fakeTokenVerifier{claims: claimsFor(domain.RoleStandard)},
			level:      domain.LevelStandard,
			wantStatus: http.StatusOK,
			nextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			var gotPrincipal domain.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotPrincipal, _ = PrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			RequireRole(tt.verifier, tt.level, logger)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.nextCalled, called)
			if tt.nextCalled {
				assert.Equal(t, tt.verifier.claims.Principal, gotPrincipal)
				assert.Equal(t, "tok", tt.verifier.got)
			}
			if tt.wantBodyCode != "" {
				var body helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
				assert.Equal(t, helpers.StatusError, body.Status)
				assert.Equal(t, tt.wantBodyCode, body.Code)
			}
		})
	}
}

func TestPrincipalFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := PrincipalFromContext(req.Context())
	assert.False(t, ok)
}

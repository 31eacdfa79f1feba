package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"userhub/internal/model"
)

func protectedApp(svc *JWTService) *echo.Echo {
	e := echo.New()
	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	e.GET("/me", handler, svc.Middleware())
	e.GET("/admin", handler, svc.Middleware(), RequireRole(model.RoleAdmin))
	return e
}

func tokenFor(t *testing.T, svc *JWTService, role string) string {
	t.Helper()
	token, err := svc.IssueToken(&model.User{ID: uuid.New(), Email: "u@example.com", Role: role})
	assert.NoError(t, err)
	return token
}

func TestMiddleware_Authentication(t *testing.T) {
	svc := NewJWTService("test-secret")
	e := protectedApp(svc)

	tests := []struct {
		name         string
		header       string
		expectedCode int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed token", "Bearer garbage", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + tokenFor(t, NewJWTService("other-secret"), model.RoleUser), http.StatusUnauthorized},
		{"valid token", "Bearer " + tokenFor(t, svc, model.RoleUser), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	svc := NewJWTService("test-secret")
	e := protectedApp(svc)

	tests := []struct {
		name         string
		header       string
		expectedCode int
	}{
		// An authenticated non-admin is a 403, never a 401.
		{"authenticated non-admin", "Bearer " + tokenFor(t, svc, model.RoleUser), http.StatusForbidden},
		{"admin", "Bearer " + tokenFor(t, svc, model.RoleAdmin), http.StatusOK},
		{"no token at all", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestClaimsFrom_MissingToken(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Nil(t, ClaimsFrom(c))
}

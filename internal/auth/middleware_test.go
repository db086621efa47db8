package auth

import (
	"brandlink/internal/observability"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "admin-account",
		"exp": time.Now().Add(expiresIn).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func runMiddleware(t *testing.T, authorization string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/admin/brand-analytics", nil)
	if authorization != "" {
		c.Request.Header.Set("Authorization", authorization)
	}

	guard := NewGuard(testSecret, observability.NewLogger())
	guard.Middleware(c)
	return recorder, c
}

func TestMiddleware_ValidToken(t *testing.T) {
	recorder, c := runMiddleware(t, "Bearer "+signedToken(t, testSecret, time.Hour))

	if c.IsAborted() {
		t.Fatalf("request aborted with status %d", recorder.Code)
	}
	accountID, ok := c.Get("Account-ID")
	if !ok || accountID != "admin-account" {
		t.Errorf("Account-ID = %v, want admin-account", accountID)
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	recorder, c := runMiddleware(t, "")

	if !c.IsAborted() {
		t.Error("expected request to be aborted")
	}
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", recorder.Code)
	}
}

func TestMiddleware_WrongScheme(t *testing.T) {
	_, c := runMiddleware(t, "Basic dXNlcjpwYXNz")

	if !c.IsAborted() {
		t.Error("expected request to be aborted")
	}
}

func TestMiddleware_WrongSecret(t *testing.T) {
	recorder, c := runMiddleware(t, "Bearer "+signedToken(t, "other-secret", time.Hour))

	if !c.IsAborted() {
		t.Error("expected request to be aborted")
	}
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", recorder.Code)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	recorder, c := runMiddleware(t, "Bearer "+signedToken(t, testSecret, -time.Hour))

	if !c.IsAborted() {
		t.Error("expected request to be aborted")
	}
	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", recorder.Code)
	}
}

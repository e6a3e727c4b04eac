package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crewledger/internal/auth"
)

const testSecret = "test-signing-secret"

func protectedHandler(t *testing.T) http.Handler {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			t.Fatal("claims missing inside protected handler")
		}
		w.Header().Set("X-Actor", claims.Email)
		w.WriteHeader(http.StatusOK)
	})
	return Auth(testSecret)(RequireUser(inner))
}

func TestAuthAttachesClaims(t *testing.T) {
	token, err := auth.GenerateToken(testSecret, auth.Claims{Email: "foreman@example.com", Role: "foreman"}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protectedHandler(t).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Actor") != "foreman@example.com" {
		t.Fatalf("unexpected actor header %q", rec.Header().Get("X-Actor"))
	}
}

func TestRequireUserRejectsMissingToken(t *testing.T) {
	rec := httptest.NewRecorder()
	protectedHandler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireUserRejectsBadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	protectedHandler(t).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

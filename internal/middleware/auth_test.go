package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tastella/tastella-backend/internal/services"
)

func newGuardedHandler(t *testing.T, verifier services.TokenVerifier) (http.Handler, *string) {
	t.Helper()
	var seenUserID string
	handler := RequireAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserID(r)
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seenUserID
}

func TestRequireAuthMissingToken(t *testing.T) {
	t.Parallel()

	handler, seen := newGuardedHandler(t, services.NewTokenService("secret", 0))

	req := httptest.NewRequest(http.MethodGet, "/recipes/my-recipes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing token, got %d", rec.Code)
	}
	if *seen != "" {
		t.Fatalf("handler must not run without identity, saw %q", *seen)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	t.Parallel()

	handler, seen := newGuardedHandler(t, services.NewTokenService("secret", 0))

	req := httptest.NewRequest(http.MethodGet, "/recipes/my-recipes", nil)
	req.Header.Set("Authorization", "definitely-not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for invalid token, got %d", rec.Code)
	}
	if *seen != "" {
		t.Fatalf("handler must not run without identity, saw %q", *seen)
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	t.Parallel()

	ts := services.NewTokenService("secret", 0)
	tok, err := ts.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	handler, seen := newGuardedHandler(t, ts)

	req := httptest.NewRequest(http.MethodGet, "/recipes/my-recipes", nil)
	req.Header.Set("Authorization", tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid token, got %d", rec.Code)
	}
	if *seen != "user-42" {
		t.Fatalf("expected resolved user id in context, got %q", *seen)
	}
}

func TestRequireAuthBearerPrefix(t *testing.T) {
	t.Parallel()

	ts := services.NewTokenService("secret", 0)
	tok, err := ts.Issue("user-7")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	handler, seen := newGuardedHandler(t, ts)

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for Bearer token, got %d", rec.Code)
	}
	if *seen != "user-7" {
		t.Fatalf("expected resolved user id, got %q", *seen)
	}
}

func TestRequireAuthTokenFromOtherSecret(t *testing.T) {
	t.Parallel()

	other := services.NewTokenService("other-secret", 0)
	tok, err := other.Issue("user-9")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	handler, _ := newGuardedHandler(t, services.NewTokenService("secret", 0))

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set("Authorization", tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign-secret token, got %d", rec.Code)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sentinel-mod/sentinel-api/internal/pkg/jwt"
)

func okHandler(t *testing.T, wantUserID uuid.UUID, wantRole string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetUserID(r.Context()); got != wantUserID {
			t.Errorf("expected user ID %s in context, got %s", wantUserID, got)
		}
		if got := GetRole(r.Context()); got != wantRole {
			t.Errorf("expected role %q in context, got %q", wantRole, got)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthAcceptsValidToken(t *testing.T) {
	jwtService := jwt.NewService("secret", time.Minute)
	userID := uuid.New()
	token, err := jwtService.GenerateAccessToken(userID, "reviewer")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Auth(jwtService)(okHandler(t, userID, "reviewer")).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	jwtService := jwt.NewService("secret", time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	Auth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	jwtService := jwt.NewService("secret", time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	Auth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid token")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsTokenSignedWithOtherSecret(t *testing.T) {
	issuer := jwt.NewService("other-secret", time.Minute)
	token, err := issuer.GenerateAccessToken(uuid.New(), "admin")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	jwtService := jwt.NewService("secret", time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	Auth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a forged token")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func withRole(jwtService *jwt.Service, role string, mw func(http.Handler) http.Handler) *httptest.ResponseRecorder {
	token, _ := jwtService.GenerateAccessToken(uuid.New(), role)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler := Auth(jwtService)(mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireReviewerAllowsReviewerAndAdmin(t *testing.T) {
	jwtService := jwt.NewService("secret", time.Minute)

	for _, role := range []string{"reviewer", "admin"} {
		if rec := withRole(jwtService, role, RequireReviewer()); rec.Code != http.StatusOK {
			t.Errorf("expected %s to pass, got %d", role, rec.Code)
		}
	}
	for _, role := range []string{"member", "restricted"} {
		if rec := withRole(jwtService, role, RequireReviewer()); rec.Code != http.StatusForbidden {
			t.Errorf("expected %s to be forbidden, got %d", role, rec.Code)
		}
	}
}

func TestRequireUnrestrictedBlocksRestricted(t *testing.T) {
	jwtService := jwt.NewService("secret", time.Minute)

	if rec := withRole(jwtService, "restricted", RequireUnrestricted()); rec.Code != http.StatusForbidden {
		t.Errorf("expected restricted to be forbidden, got %d", rec.Code)
	}
	if rec := withRole(jwtService, "member", RequireUnrestricted()); rec.Code != http.StatusOK {
		t.Errorf("expected member to pass, got %d", rec.Code)
	}
}

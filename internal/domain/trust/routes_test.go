package trust

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sentinel-mod/sentinel-api/internal/content"
	"github.com/sentinel-mod/sentinel-api/internal/middleware"
)

// Mounts the report routes the way the API server does and submits a
// report at the documented path.
func TestSubmitReportReachableAtMountedPath(t *testing.T) {
	reporterID := uuid.New()
	svc := NewService(newFakeTrustRepo(), newFakeUserRepo(), content.NewRegistry(), &fakeLimiter{allowed: true}, nil, 3)
	handler := NewHandler(svc)

	identity := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserIDKey, reporterID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
	passthrough := func(next http.Handler) http.Handler { return next }

	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		r.Mount("/moderation/reports", handler.Routes(identity, passthrough))
	})

	body, err := json.Marshal(SubmitReportRequest{
		ContentType: "post",
		ContentID:   "p1",
		AuthorID:    uuid.New(),
		Reason:      "spam",
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/moderation/reports", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 at /api/v1/moderation/reports, got %d: %s", rec.Code, rec.Body.String())
	}
}

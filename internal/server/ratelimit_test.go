package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"bookvault/internal/app"
	"bookvault/internal/ratelimit"
	"bookvault/internal/session"
	"bookvault/internal/store"
)

func TestLoginRateLimited(t *testing.T) {
	redisSrv := miniredis.RunT(t)
	limiter, err := ratelimit.NewRedisFixedWindowLimiter(redisSrv.Addr(), "", "test:ratelimit", 2, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}

	a, err := app.New(app.Config{
		Store:    store.NewMemoryStore(),
		Sessions: session.NewManager("test-secret", time.Hour),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	ts := &testServer{handler: New(Config{App: a, LoginLimiter: limiter}).Router()}

	var rec *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		rec = ts.login(t, "a@b.com", "secret1")
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt status = %d, want 429", rec.Code)
	}
	if decodeBody(t, rec)["message"] != msgTooManyLogins {
		t.Fatalf("body %s", rec.Body.String())
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	// a different client IP is a separate bucket
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	rec = ts.do(t, req)
	if rec.Code == http.StatusTooManyRequests {
		t.Fatalf("other client should not share the quota")
	}
}

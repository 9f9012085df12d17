package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiter_AllowPerClient(t *testing.T) {
	l := NewRateLimiter(1, 2)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("burst of 2 should pass")
	}
	if l.Allow("a") {
		t.Fatal("third request within the same instant should be limited")
	}
	if !l.Allow("b") {
		t.Fatal("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !l.Allow("a") {
		t.Fatal("bucket should refill after one second")
	}
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	l := NewRateLimiter(1, 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(l.ttl + time.Second)
	l.Allow("b")

	if _, ok := l.clients["a"]; ok {
		t.Error("idle client was not evicted")
	}
	if _, ok := l.clients["b"]; !ok {
		t.Error("active client missing")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	l := NewRateLimiter(0.5, 1)
	r := gin.New()
	r.Use(l.Middleware())
	r.GET("/posts", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/posts/1/like", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, nil)
		req.RemoteAddr = "203.0.113.7:1234"
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(http.MethodPost, "/posts/1/like"); w.Code != http.StatusOK {
		t.Fatalf("first write: %d", w.Code)
	}
	w := do(http.MethodPost, "/posts/1/like")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second write: %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") != "3" {
		t.Errorf("Retry-After = %q, want %q", w.Header().Get("Retry-After"), "3")
	}
	if resp := decodeEnvelope(t, w); resp.Code != http.StatusTooManyRequests {
		t.Errorf("envelope code = %d", resp.Code)
	}
	for range 5 {
		if w := do(http.MethodGet, "/posts"); w.Code != http.StatusOK {
			t.Fatalf("reads must not be limited, got %d", w.Code)
		}
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestLimiterStoreAllow(t *testing.T) {
	s := NewLimiterStore(60, 2, time.Minute)
	defer s.Stop()

	if !s.Allow("a@example.com") {
		t.Fatal("first event should be allowed")
	}
	if !s.Allow("a@example.com") {
		t.Fatal("second event within burst should be allowed")
	}
	if s.Allow("a@example.com") {
		t.Fatal("third immediate event should be limited")
	}
	// other keys are unaffected
	if !s.Allow("b@example.com") {
		t.Fatal("unrelated key should be allowed")
	}
}

func TestLimiterStoreRefill(t *testing.T) {
	// 6000/min refills roughly every 10ms
	s := NewLimiterStore(6000, 1, time.Minute)
	defer s.Stop()

	if !s.Allow("k") {
		t.Fatal("first event should be allowed")
	}
	if s.Allow("k") {
		t.Fatal("burst exhausted, should be limited")
	}
	time.Sleep(30 * time.Millisecond)
	if !s.Allow("k") {
		t.Fatal("limiter should have refilled")
	}
}

func postForm(target string, form url.Values, remoteAddr string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if remoteAddr != "" {
		r.RemoteAddr = remoteAddr
	}
	return r
}

func TestRateLimit_KeyedByEmail(t *testing.T) {
	s := NewLimiterStore(1, 1, time.Minute)
	defer s.Stop()

	var hits int
	h := RateLimit(s, "email", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))

	form := url.Values{"email": {"a@example.com"}}

	// same email from different addresses shares one limiter
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postForm("/login", form, "10.0.0.1:1111"))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, postForm("/login", form, "10.0.0.2:2222"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request for same email: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Too many attempts") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	// a different email is a different key
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, postForm("/login", url.Values{"email": {"b@example.com"}}, "10.0.0.1:1111"))
	if rec.Code != http.StatusOK {
		t.Fatalf("different email: got %d", rec.Code)
	}

	if hits != 2 {
		t.Fatalf("expected 2 handler hits, got %d", hits)
	}
}

func TestRateLimit_FallsBackToIP(t *testing.T) {
	s := NewLimiterStore(1, 1, time.Minute)
	defer s.Stop()

	h := RateLimit(s, "email", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, postForm("/login", url.Values{}, "10.0.0.9:1111"))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, postForm("/login", url.Values{}, "10.0.0.9:2222"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request from same IP: got %d", rec.Code)
	}
}

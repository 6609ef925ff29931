package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowUpToLimit(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("request over limit should be denied")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("different key should have its own window")
	}
}

func TestLimiter_Remaining(t *testing.T) {
	l := New(5, time.Minute)

	if got := l.Remaining("k"); got != 5 {
		t.Errorf("Remaining before any request = %d, want 5", got)
	}
	l.Allow("k")
	l.Allow("k")
	if got := l.Remaining("k"); got != 3 {
		t.Errorf("Remaining after two requests = %d, want 3", got)
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)

	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("second request should be denied")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("request after reset should be allowed")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"remote addr with port", "192.0.2.10:5123", "", "", "192.0.2.10"},
		{"remote addr without port", "192.0.2.10", "", "", "192.0.2.10"},
		{"x-forwarded-for single", "10.0.0.1:80", "203.0.113.7", "", "203.0.113.7"},
		{"x-forwarded-for list", "10.0.0.1:80", "203.0.113.7, 10.0.0.2", "", "203.0.113.7"},
		{"x-real-ip", "10.0.0.1:80", "", "203.0.113.9", "203.0.113.9"},
		{"xff wins over xri", "10.0.0.1:80", "203.0.113.7", "203.0.113.9", "203.0.113.7"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/assignments/x/submit", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xri != "" {
				r.Header.Set("X-Real-IP", tc.xri)
			}
			if got := ClientIP(r); got != tc.want {
				t.Errorf("ClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSubmitLimiter_StudentLimit(t *testing.T) {
	sl := NewSubmitLimiterWithConfig(100, time.Minute, 2, time.Minute)

	r := httptest.NewRequest("POST", "/api/assignments/x/submit", nil)
	r.RemoteAddr = "192.0.2.10:5123"

	for i := 0; i < 2; i++ {
		if ok, _, reason := sl.Check(r, "student-1"); !ok {
			t.Fatalf("attempt %d should be allowed, got %q", i+1, reason)
		}
	}
	ok, limitType, reason := sl.Check(r, "student-1")
	if ok {
		t.Error("third attempt for same student should be denied")
	}
	if limitType != LimitStudent {
		t.Errorf("limit type: got %q, want %q", limitType, LimitStudent)
	}
	if reason == "" {
		t.Error("expected a reason when denied")
	}

	if ok, _, _ := sl.Check(r, "student-2"); !ok {
		t.Error("other student should not be affected")
	}
}

func TestSubmitLimiter_IPLimit(t *testing.T) {
	sl := NewSubmitLimiterWithConfig(2, time.Minute, 100, time.Minute)

	r := httptest.NewRequest("POST", "/api/assignments/x/submit", nil)
	r.RemoteAddr = "192.0.2.10:5123"

	sl.Check(r, "student-1")
	sl.Check(r, "student-2")
	ok, limitType, _ := sl.Check(r, "student-3")
	if ok {
		t.Error("third attempt from same IP should be denied")
	}
	if limitType != LimitIP {
		t.Errorf("limit type: got %q, want %q", limitType, LimitIP)
	}
}

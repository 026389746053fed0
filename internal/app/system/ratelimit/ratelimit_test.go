package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	l := New(3, time.Minute)
	l.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("4th call within the window should be limited")
	}
	if !l.Allow("other") {
		t.Error("keys must be limited independently")
	}

	// One token refills every 20s.
	clock = clock.Add(21 * time.Second)
	if !l.Allow("k") {
		t.Error("expected a refilled token")
	}
	if l.Allow("k") {
		t.Error("only one token should have refilled")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Hour)
	if !l.Allow("k") {
		t.Fatal("first call should be allowed")
	}
	if l.Allow("k") {
		t.Fatal("second call should be limited")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("expected allowance restored after Reset")
	}
}

func TestLimiter_SweepsIdleKeys(t *testing.T) {
	clock := time.Unix(1700000000, 0)
	l := New(5, time.Minute)
	l.now = func() time.Time { return clock }

	l.Allow("a")
	l.Allow("b")
	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}

	clock = clock.Add(3 * time.Minute)
	l.Allow("c")
	if l.Len() != 1 {
		t.Errorf("Len = %d after idle period, want 1", l.Len())
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"203.0.113.7:4711", "203.0.113.7"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"203.0.113.7", "203.0.113.7"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("POST", "/admin/login", nil)
		r.RemoteAddr = tt.remote
		if got := ClientIP(r); got != tt.want {
			t.Errorf("ClientIP(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}

func TestLoginLimiter(t *testing.T) {
	ll := NewLoginLimiter(2, time.Hour)
	r := httptest.NewRequest("POST", "/admin/login", nil)
	r.RemoteAddr = "198.51.100.1:1234"

	if !ll.Check(r, "a@b.com") || !ll.Check(r, "c@d.com") {
		t.Fatal("first two attempts should pass")
	}
	if ll.Check(r, "e@f.com") {
		t.Error("third attempt from the same IP should be limited")
	}

	other := httptest.NewRequest("POST", "/admin/login", nil)
	other.RemoteAddr = "198.51.100.2:1234"
	if !ll.Check(other, " A@B.com") {
		t.Fatal("second attempt for the email should pass")
	}
	if ll.Check(other, "a@b.com") {
		t.Error("third attempt for the same email should be limited")
	}

	ll.ResetEmail("A@b.com")
	third := httptest.NewRequest("POST", "/admin/login", nil)
	third.RemoteAddr = "198.51.100.3:1234"
	if !ll.Check(third, "a@b.com") {
		t.Error("expected email allowance restored")
	}
}

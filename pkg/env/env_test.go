package env

import "testing"

func TestGetFallsBackOnBlank(t *testing.T) {
	t.Setenv("LUNCH_TEST_VALUE", "   ")
	if got := Get("LUNCH_TEST_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("LUNCH_TEST_VALUE", "set")
	if got := Get("LUNCH_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("expected set, got %q", got)
	}
}

func TestInstanceIDPrefersDyno(t *testing.T) {
	t.Setenv("DYNO", "web.1")
	t.Setenv("HOSTNAME", "box")
	if got := InstanceID(); got != "web.1" {
		t.Fatalf("expected dyno id, got %q", got)
	}
	t.Setenv("DYNO", "")
	if got := InstanceID(); got != "box" {
		t.Fatalf("expected hostname, got %q", got)
	}
}

package utils

import (
	"os"
	"testing"
)

func TestEnvOrDefault(t *testing.T) {
	const key = "SOLIDITY_IR_TEST_STRING"
	_ = os.Unsetenv(key)
	clearKnobCache(key)
	if got := EnvOrDefault(key, "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	_ = os.Setenv(key, "value")
	if got := EnvOrDefault(key, "fallback"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
}

func TestEnvOrDefault_CachesNonEmptyValue(t *testing.T) {
	const key = "SOLIDITY_IR_TEST_CACHE"
	clearKnobCache(key)
	_ = os.Setenv(key, "first")
	if got := EnvOrDefault(key, "fallback"); got != "first" {
		t.Fatalf("expected first, got %q", got)
	}
	// Changing the environment after the first lookup must not affect a
	// cached hit: the cache exists precisely so repeat config reloads
	// don't pay a syscall per knob.
	_ = os.Setenv(key, "second")
	if got := EnvOrDefault(key, "fallback"); got != "first" {
		t.Fatalf("expected cached first, got %q", got)
	}
	clearKnobCache(key)
	if got := EnvOrDefault(key, "fallback"); got != "second" {
		t.Fatalf("expected second after cache clear, got %q", got)
	}
}

func TestEnvOrDefaultInt(t *testing.T) {
	const key = "SOLIDITY_IR_TEST_INT"
	_ = os.Unsetenv(key)
	clearKnobCache(key)
	if got := EnvOrDefaultInt(key, 10); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	_ = os.Setenv(key, "5")
	clearKnobCache(key)
	if got := EnvOrDefaultInt(key, 10); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	_ = os.Setenv(key, "bad")
	clearKnobCache(key)
	if got := EnvOrDefaultInt(key, 7); got != 7 {
		t.Fatalf("expected fallback on parse error, got %d", got)
	}
}

func TestEnvOrDefaultUint64(t *testing.T) {
	const key = "SOLIDITY_IR_TEST_UINT64"
	_ = os.Unsetenv(key)
	clearKnobCache(key)
	if got := EnvOrDefaultUint64(key, 99); got != 99 {
		t.Fatalf("expected 99, got %d", got)
	}
	_ = os.Setenv(key, "42")
	clearKnobCache(key)
	if got := EnvOrDefaultUint64(key, 99); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	_ = os.Setenv(key, "bad")
	clearKnobCache(key)
	if got := EnvOrDefaultUint64(key, 77); got != 77 {
		t.Fatalf("expected fallback on parse error, got %d", got)
	}
}

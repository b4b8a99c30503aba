package utils

import (
	"os"
	"strconv"
	"sync"
)

// knobCache holds previously fetched non-empty engine-knob environment
// values, since pkg/config.LoadFromEnv re-reads the same handful of
// SOLIDITY_IR_* variables on every CLI invocation. Only non-empty values
// are cached; an unset variable is cheap to re-check and must not be
// pinned to "still unset" forever (a test or a long-lived `serve`
// process may export it later).
var knobCache sync.Map // map[string]string

// lookupKnob retrieves key from the cache, falling back to the
// environment and populating the cache on a non-empty hit.
func lookupKnob(key string) (string, bool) {
	if v, ok := knobCache.Load(key); ok {
		return v.(string), true
	}
	if v := os.Getenv(key); v != "" {
		knobCache.Store(key, v)
		return v, true
	}
	return "", false
}

// clearKnobCache removes any cached value for key. Used by tests that
// flip an environment variable between assertions.
func clearKnobCache(key string) {
	knobCache.Delete(key)
}

// EnvOrDefault returns the value of the environment variable identified by key
// or the provided fallback if the variable is unset or empty.
func EnvOrDefault(key, fallback string) string {
	if v, ok := lookupKnob(key); ok {
		return v
	}
	return fallback
}

// EnvOrDefaultInt returns the integer value of the environment variable
// identified by key or the provided fallback if the variable is unset,
// empty, or cannot be parsed as an integer.
func EnvOrDefaultInt(key string, fallback int) int {
	if v, ok := lookupKnob(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// EnvOrDefaultUint64 returns the uint64 value of the environment variable
// identified by key or the provided fallback if the variable is unset,
// empty, or cannot be parsed as a uint64.
func EnvOrDefaultUint64(key string, fallback uint64) uint64 {
	if v, ok := lookupKnob(key); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

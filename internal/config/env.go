package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// envReader reads typed environment values. After the first failure every read returns its
// fallback and err keeps that first failure.
type envReader struct {
	err error
}

func (r *envReader) lookup(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != "" && r.err == nil
}

func (r *envReader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("parse %s: %w", key, err)
	}
}

func (r *envReader) str(key, fallback string) string {
	if value, ok := r.lookup(key); ok {
		return value
	}
	return fallback
}

func (r *envReader) boolean(key string, fallback bool) bool {
	raw, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail(key, err)
		return fallback
	}
	return value
}

func (r *envReader) integer(key string, fallback int) int {
	raw, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(key, err)
		return fallback
	}
	return value
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	raw, ok := r.lookup(key)
	if !ok {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		r.fail(key, err)
		return fallback
	}
	return value
}

func (r *envReader) positiveDuration(key string, fallback time.Duration) time.Duration {
	value := r.duration(key, fallback)
	if value <= 0 {
		r.fail(key, fmt.Errorf("must be > 0, got %s", value))
		return fallback
	}
	return value
}

// oneOf lower-cases the value and rejects anything outside allowed.
func (r *envReader) oneOf(key, fallback string, allowed ...string) string {
	value := strings.ToLower(r.str(key, fallback))
	if !slices.Contains(allowed, value) {
		r.fail(key, fmt.Errorf("invalid value %q: valid values are %s", value, strings.Join(allowed, ", ")))
		return fallback
	}
	return value
}

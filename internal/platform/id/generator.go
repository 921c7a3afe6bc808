package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// Generator creates opaque IDs prefixed by the kind of record, e.g. "event-3f9a...".
type Generator interface {
	NewID(kind string) (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID(kind string) (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return join(kind, hex.EncodeToString(buf)), nil
}

// SequenceGenerator hands out kind-1, kind-2, ... and is meant for local runs and tests.
type SequenceGenerator struct {
	next atomic.Int64
}

func (g *SequenceGenerator) NewID(kind string) (string, error) {
	return join(kind, strconv.FormatInt(g.next.Add(1), 10)), nil
}

func join(kind, suffix string) string {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return suffix
	}
	return kind + "-" + suffix
}

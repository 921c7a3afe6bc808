package pattern

import (
	"math/rand/v2"

	crerr "github.com/cockroachdb/errors"
)

const MaxRotationSize = 6

var ErrInvalidRotation = crerr.New("invalid pattern rotation")

// familyCaps limits near-duplicate shapes inside one rotation.
var familyCaps = map[Family]int{
	FamilyLine:          1,
	FamilyMultipleLines: 1,
}

type rotationCounter struct {
	families  map[Family]int
	redundant int
}

func newRotationCounter() *rotationCounter {
	return &rotationCounter{families: make(map[Family]int)}
}

func (c *rotationCounter) allows(def Definition) bool {
	if limit, ok := familyCaps[def.Family]; ok && c.families[def.Family] >= limit {
		return false
	}
	if InRedundantGroup(def.Key) && c.redundant >= 1 {
		return false
	}
	return true
}

func (c *rotationCounter) add(def Definition) {
	c.families[def.Family]++
	if InRedundantGroup(def.Key) {
		c.redundant++
	}
}

// SelectRotation picks the active patterns for a new event. full_board always leads; patterns
// missing from previous are preferred and previous ones only fill the remaining slots.
func SelectRotation(catalog Catalog, previous []string, rng *rand.Rand) ([]string, error) {
	full, ok := catalog.Lookup(KeyFullBoard)
	if !ok {
		return nil, crerr.Wrap(ErrUnknownPattern, KeyFullBoard)
	}

	used := make(map[string]struct{}, len(previous))
	for _, key := range previous {
		used[key] = struct{}{}
	}

	candidates := make([]Definition, 0, catalog.Len())
	for _, def := range catalog.All() {
		if def.Key != full.Key {
			candidates = append(candidates, def)
		}
	}
	if rng != nil {
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
	}

	fresh := make([]Definition, 0, len(candidates))
	stale := make([]Definition, 0, len(candidates))
	for _, def := range candidates {
		if _, seen := used[def.Key]; seen {
			stale = append(stale, def)
		} else {
			fresh = append(fresh, def)
		}
	}

	keys := []string{full.Key}
	counter := newRotationCounter()
	counter.add(full)
	for _, pool := range [][]Definition{fresh, stale} {
		for _, def := range pool {
			if len(keys) >= MaxRotationSize {
				return keys, nil
			}
			if !counter.allows(def) {
				continue
			}
			counter.add(def)
			keys = append(keys, def.Key)
		}
	}
	return keys, nil
}

func ValidateRotation(catalog Catalog, keys []string) error {
	if len(keys) == 0 {
		return crerr.Wrap(ErrInvalidRotation, "rotation is empty")
	}
	if len(keys) > MaxRotationSize {
		return crerr.Wrapf(ErrInvalidRotation, "rotation has %d entries, max %d", len(keys), MaxRotationSize)
	}

	seen := make(map[string]struct{}, len(keys))
	counter := newRotationCounter()
	fullBoards := 0
	for _, key := range keys {
		def, ok := catalog.Lookup(key)
		if !ok {
			return crerr.Wrapf(ErrInvalidRotation, "unknown pattern %s", key)
		}
		if _, dup := seen[key]; dup {
			return crerr.Wrapf(ErrInvalidRotation, "duplicate pattern %s", key)
		}
		seen[key] = struct{}{}
		if key == KeyFullBoard {
			fullBoards++
		}
		if !counter.allows(def) {
			return crerr.Wrapf(ErrInvalidRotation, "too many %s patterns", def.Family)
		}
		counter.add(def)
	}
	if fullBoards != 1 {
		return crerr.Wrap(ErrInvalidRotation, "rotation must contain full_board exactly once")
	}
	return nil
}

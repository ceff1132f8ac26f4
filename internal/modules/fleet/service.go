// README: Aircraft catalogue with exact, substring and fuzzy type resolution.
package fleet

import (
	"errors"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

var ErrNotFound = errors.New("aircraft type not found")

// maxEditDistance bounds fuzzy matches ("G560" resolves, "G999" does not).
const maxEditDistance = 2

type Catalogue struct {
	specs []Specs
}

func NewCatalogue(specs ...Specs) *Catalogue {
	c := &Catalogue{specs: append([]Specs(nil), specs...)}
	sort.Slice(c.specs, func(i, j int) bool { return c.specs[i].Type < c.specs[j].Type })
	return c
}

func (c *Catalogue) All() []Specs {
	return append([]Specs(nil), c.specs...)
}

// Resolve finds specs for a free-form type name: exact match first, then
// substring in either direction, then the closest name within
// maxEditDistance of the full type or its model part.
func (c *Catalogue) Resolve(name string) (Specs, error) {
	q := normalise(name)
	if q == "" {
		return Specs{}, ErrNotFound
	}
	for _, s := range c.specs {
		if normalise(s.Type) == q {
			return s, nil
		}
	}
	for _, s := range c.specs {
		t := normalise(s.Type)
		if strings.Contains(t, q) || strings.Contains(q, t) {
			return s, nil
		}
	}
	best, bestDist := -1, maxEditDistance+1
	for i, s := range c.specs {
		for _, candidate := range []string{normalise(s.Type), normalise(model(s))} {
			if d := levenshtein.ComputeDistance(q, candidate); d < bestDist {
				best, bestDist = i, d
			}
		}
	}
	if best < 0 {
		return Specs{}, ErrNotFound
	}
	return c.specs[best], nil
}

// model strips the manufacturer prefix: "Gulfstream G650" -> "G650".
func model(s Specs) string {
	return strings.TrimSpace(strings.TrimPrefix(s.Type, s.Manufacturer))
}

func normalise(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

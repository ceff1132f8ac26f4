// README: Availability search; type filter, reposition radius and block time.
package availability

import (
	"context"
	"fmt"
	"math"
	"strings"

	"charterdesk/internal/modules/airport"
	"charterdesk/internal/modules/fleet"
)

type SpecResolver interface {
	Resolve(name string) (fleet.Specs, error)
}

type Service struct {
	source          Source
	specs           SpecResolver
	maxRepositionNm float64
}

func NewService(source Source, specs SpecResolver, maxRepositionNm float64) *Service {
	if maxRepositionNm <= 0 {
		maxRepositionNm = DefaultMaxRepositionNm
	}
	return &Service{source: source, specs: specs, maxRepositionNm: maxRepositionNm}
}

// Search returns listings whose type contains q.AircraftType and whose base
// is the origin or within the reposition radius of it, nearest first. An
// empty or unknown origin skips the proximity filter.
func (s *Service) Search(ctx context.Context, q Query) ([]Item, error) {
	candidates, err := s.candidates(ctx, strings.ToUpper(strings.TrimSpace(q.Origin)))
	if err != nil {
		return nil, fmt.Errorf("availability source: %w", err)
	}
	want := strings.ToLower(strings.TrimSpace(q.AircraftType))
	routeNm, _ := airport.DistanceBetweenNm(q.Origin, q.Destination)

	items := make([]Item, 0, len(candidates))
	for _, c := range candidates {
		if want != "" && !strings.Contains(strings.ToLower(c.AircraftType), want) {
			continue
		}
		items = append(items, s.item(c, q, routeNm))
	}
	return items, nil
}

func (s *Service) candidates(ctx context.Context, origin string) ([]Nearby, error) {
	if base, ok := airport.Lookup(origin); ok {
		near, err := s.source.Near(ctx, base.Position, s.maxRepositionNm)
		if err != nil {
			return nil, err
		}
		for i := range near {
			if strings.EqualFold(near[i].BaseICAO, origin) {
				near[i].DistanceNm = 0
			}
		}
		return near, nil
	}
	all, err := s.source.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Nearby, 0, len(all))
	for _, l := range all {
		if origin != "" && !strings.EqualFold(l.BaseICAO, origin) {
			continue
		}
		out = append(out, Nearby{Listing: l})
	}
	return out, nil
}

func (s *Service) item(c Nearby, q Query, routeNm float64) Item {
	it := Item{
		OperatorID:   c.OperatorID,
		OperatorName: c.OperatorName,
		AircraftType: c.AircraftType,
		Tail:         c.Tail,
		BaseICAO:     c.BaseICAO,
		RepositionNm: round1(c.DistanceNm),
	}
	cruise := defaultCruiseKts
	var notes []string
	if spec, err := s.specs.Resolve(c.AircraftType); err == nil {
		if spec.CruiseKts > 0 {
			cruise = spec.CruiseKts
		}
		if q.Pax > spec.MaxPax && spec.MaxPax > 0 {
			notes = append(notes, fmt.Sprintf("Seats %d, fewer than the %d requested", spec.MaxPax, q.Pax))
		}
		if routeNm > float64(spec.RangeNm) && spec.RangeNm > 0 {
			notes = append(notes, "Fuel stop likely")
		}
	}
	if routeNm > 0 {
		it.BlockTimeHours = round1(routeNm/float64(cruise) + taxiAllowanceHours)
	}
	if it.RepositionNm == 0 {
		notes = append([]string{"Based at origin"}, notes...)
	} else {
		notes = append([]string{fmt.Sprintf("Repositions %.0f nm from %s", it.RepositionNm, c.BaseICAO)}, notes...)
	}
	it.Notes = strings.Join(notes, "; ")
	return it
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

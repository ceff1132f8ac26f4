// README: Listing sources; in-memory fixtures or Redis GEO over operator bases.
package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"charterdesk/internal/modules/airport"
	"charterdesk/internal/types"
)

const (
	listingGeoKey  = "availability:bases"
	listingHashKey = "availability:listings"
)

type Source interface {
	// All returns every listing, in a stable order.
	All(ctx context.Context) ([]Listing, error)
	// Near returns listings based within radiusNm of p, nearest first.
	Near(ctx context.Context, p types.Point, radiusNm float64) ([]Nearby, error)
}

type MemorySource struct {
	listings []Listing
}

func NewMemorySource(listings ...Listing) *MemorySource {
	return &MemorySource{listings: append([]Listing(nil), listings...)}
}

func (s *MemorySource) All(_ context.Context) ([]Listing, error) {
	return append([]Listing(nil), s.listings...), nil
}

func (s *MemorySource) Near(_ context.Context, p types.Point, radiusNm float64) ([]Nearby, error) {
	var out []Nearby
	for _, l := range s.listings {
		base, ok := airport.Lookup(l.BaseICAO)
		if !ok {
			continue
		}
		d := airport.DistanceNm(p, base.Position)
		if d <= radiusNm {
			out = append(out, Nearby{Listing: l, DistanceNm: d})
		}
	}
	airport.SortByDistance(out, func(n Nearby) float64 { return n.DistanceNm })
	return out, nil
}

// RedisSource keeps base positions in a GEO set and listing bodies in a hash.
type RedisSource struct {
	redis *redis.Client
}

func NewRedisSource(redis *redis.Client) *RedisSource {
	return &RedisSource{redis: redis}
}

// Add stores a listing at its base airport's position.
func (s *RedisSource) Add(ctx context.Context, l Listing) error {
	base, ok := airport.Lookup(l.BaseICAO)
	if !ok {
		return fmt.Errorf("listing %s: unknown base %s", l.ID, l.BaseICAO)
	}
	body, err := json.Marshal(l)
	if err != nil {
		return err
	}
	pipe := s.redis.TxPipeline()
	pipe.GeoAdd(ctx, listingGeoKey, &redis.GeoLocation{
		Name:      string(l.ID),
		Longitude: base.Position.Lng,
		Latitude:  base.Position.Lat,
	})
	pipe.HSet(ctx, listingHashKey, string(l.ID), body)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisSource) Remove(ctx context.Context, id types.ID) error {
	pipe := s.redis.TxPipeline()
	pipe.ZRem(ctx, listingGeoKey, string(id))
	pipe.HDel(ctx, listingHashKey, string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSource) All(ctx context.Context) ([]Listing, error) {
	raw, err := s.redis.HGetAll(ctx, listingHashKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Listing, 0, len(raw))
	for id, body := range raw {
		var l Listing
		if err := json.Unmarshal([]byte(body), &l); err != nil {
			return nil, fmt.Errorf("decode listing %s: %w", id, err)
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *RedisSource) Near(ctx context.Context, p types.Point, radiusNm float64) ([]Nearby, error) {
	locs, err := s.redis.GeoSearchLocation(ctx, listingGeoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  p.Lng,
			Latitude:   p.Lat,
			Radius:     airport.NmToKm(radiusNm),
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithDist: true,
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return nil, nil
	}
	ids := make([]string, len(locs))
	for i, l := range locs {
		ids[i] = l.Name
	}
	bodies, err := s.redis.HMGet(ctx, listingHashKey, ids...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Nearby, 0, len(locs))
	for i, b := range bodies {
		body, ok := b.(string)
		if !ok {
			continue
		}
		var l Listing
		if err := json.Unmarshal([]byte(body), &l); err != nil {
			return nil, fmt.Errorf("decode listing %s: %w", ids[i], err)
		}
		out = append(out, Nearby{Listing: l, DistanceNm: airport.KmToNm(locs[i].Dist)})
	}
	return out, nil
}

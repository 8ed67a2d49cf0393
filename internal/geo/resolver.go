// Package geo resolves free-text location queries into candidate city
// records with coordinates and the provider area code needed for weather
// lookups.
package geo

import (
	"context"
	"log"

	"github.com/weatherdash/weatherdash/internal/amap"
)

// CityCandidate is one resolved city. Candidates are immutable and may
// repeat by name across provider sub-queries; de-duplication by name is
// the consumer's concern.
type CityCandidate struct {
	Name     string  `json:"name"`
	Country  string  `json:"country"`
	State    string  `json:"state"`
	AreaCode string  `json:"areaCode"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// Provider is the slice of the upstream client the resolver uses.
type Provider interface {
	SearchDistricts(ctx context.Context, keywords string) (*amap.DistrictResponse, error)
	SearchPlaces(ctx context.Context, keywords string) (*amap.POIResponse, error)
}

// Resolver turns free-text queries into city candidates using a strictly
// ordered two-tier fallback: administrative-district lookup first, POI
// search only when that yields nothing.
type Resolver struct {
	provider Provider
}

// NewResolver creates a Resolver.
func NewResolver(provider Provider) *Resolver {
	return &Resolver{provider: provider}
}

// Resolve returns zero or more candidates for the query. It never returns
// an error: a search box must not block on transient provider hiccups, so
// every failure degrades to the next tier or to an empty slice.
func (r *Resolver) Resolve(ctx context.Context, query string) []CityCandidate {
	if candidates := r.fromDistricts(ctx, query); len(candidates) > 0 {
		return candidates
	}
	return r.fromPlaces(ctx, query)
}

// fromDistricts walks matching divisions and their immediate children.
// Deeper nesting is discarded to bound result size.
func (r *Resolver) fromDistricts(ctx context.Context, query string) []CityCandidate {
	resp, err := r.provider.SearchDistricts(ctx, query)
	if err != nil {
		log.Printf("geo: district search failed for %q: %v", query, err)
		return nil
	}

	var out []CityCandidate
	var walk func(districts []amap.District, depth int)
	walk = func(districts []amap.District, depth int) {
		for _, d := range districts {
			// A division without a parseable center is skipped, not errored.
			if lon, lat, ok := amap.ParseCenter(d.Center); ok {
				country := d.Province
				if country == "" {
					country = d.Name
				}
				out = append(out, CityCandidate{
					Name:     d.Name,
					Country:  country,
					State:    d.Name,
					AreaCode: d.Adcode,
					Lat:      lat,
					Lon:      lon,
				})
			}
			if depth < 1 && len(d.Districts) > 0 {
				walk(d.Districts, depth+1)
			}
		}
	}
	walk(resp.Districts, 0)

	return out
}

// fromPlaces collapses city-facility POIs to one candidate per distinct
// city (or province) name, taking the coordinates of the first POI
// observed for that name. When no POI carries a usable city name, every
// raw POI becomes its own candidate.
func (r *Resolver) fromPlaces(ctx context.Context, query string) []CityCandidate {
	resp, err := r.provider.SearchPlaces(ctx, query)
	if err != nil {
		log.Printf("geo: place search failed for %q: %v", query, err)
		return nil
	}

	var grouped []CityCandidate
	seen := make(map[string]bool)

	for _, poi := range resp.POIs {
		name := poi.CityName
		if name == "" {
			name = poi.PName
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		for _, p := range resp.POIs {
			if p.CityName != name && p.PName != name {
				continue
			}
			if lon, lat, ok := amap.ParseCenter(p.Location); ok {
				grouped = append(grouped, CityCandidate{
					Name:     name,
					Country:  poi.PName,
					State:    name,
					AreaCode: poi.Adcode,
					Lat:      lat,
					Lon:      lon,
				})
			}
			break
		}
	}

	if len(grouped) > 0 {
		return grouped
	}

	var out []CityCandidate
	for _, poi := range resp.POIs {
		lon, lat, ok := amap.ParseCenter(poi.Location)
		if !ok {
			continue
		}
		name := poi.CityName
		if name == "" {
			name = poi.Name
		}
		state := poi.CityName
		if state == "" {
			state = poi.PName
		}
		out = append(out, CityCandidate{
			Name:     name,
			Country:  poi.PName,
			State:    state,
			AreaCode: poi.Adcode,
			Lat:      lat,
			Lon:      lon,
		})
	}
	return out
}

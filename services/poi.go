package services

import (
	"context"

	"apartment-hunter/config"
	"apartment-hunter/geocode"
	"apartment-hunter/models"
	"apartment-hunter/utils"
)

// maxNearbyResults caps how many nearby places a category definition is
// checked against.
const maxNearbyResults = 4

// POIResolver resolves the configured POI definitions against a listing's
// coordinate using the geocoding provider.
type POIResolver struct {
	provider geocode.Provider
	defs     []config.POIDefinition
	logger   *utils.Logger
}

// NewPOIResolver creates a resolver over the configured definitions.
func NewPOIResolver(provider geocode.Provider, defs []config.POIDefinition, logger *utils.Logger) *POIResolver {
	return &POIResolver{provider: provider, defs: defs, logger: logger}
}

// Total returns the number of configured definitions, so the admission gate
// can compare satisfied == total.
func (r *POIResolver) Total() int { return len(r.defs) }

// Resolve evaluates every definition for the listing at origin. A provider
// failure on one definition counts that definition as unsatisfied and is
// logged with the listing id; remaining definitions are still evaluated.
func (r *POIResolver) Resolve(ctx context.Context, clID int64, origin models.Coordinate) (pois []models.ResolvedPOI, satisfied int) {
	for i := range r.defs {
		def := &r.defs[i]

		matches, err := r.resolveOne(ctx, origin, def)
		if err != nil {
			r.logger.Error("[poi] listing %d: definition %q: %v", clID, def.Label(), err)
			continue
		}

		pois = append(pois, matches...)
		if len(matches) > 0 {
			satisfied++
		}
	}
	return pois, satisfied
}

func (r *POIResolver) resolveOne(ctx context.Context, origin models.Coordinate, def *config.POIDefinition) ([]models.ResolvedPOI, error) {
	if def.IsCategory() {
		return r.resolveCategory(ctx, origin, def)
	}
	return r.resolveFixed(ctx, origin, def)
}

// resolveCategory finds the nearest places of the category, measures each,
// and keeps those passing the threshold.
func (r *POIResolver) resolveCategory(ctx context.Context, origin models.Coordinate, def *config.POIDefinition) ([]models.ResolvedPOI, error) {
	places, err := r.provider.NearestPlaces(ctx, origin, def.Category, maxNearbyResults)
	if err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, nil
	}

	dests := make([]models.Coordinate, 0, len(places))
	for _, p := range places {
		dests = append(dests, p.Location)
	}

	metrics, err := r.provider.DistanceMatrix(ctx, origin, dests)
	if err != nil {
		return nil, err
	}

	var matches []models.ResolvedPOI
	for i, p := range places {
		if !passesThreshold(metrics[i], def) {
			continue
		}
		matches = append(matches, models.ResolvedPOI{
			Name:     p.Name,
			Distance: metrics[i].Distance,
			Duration: metrics[i].Duration,
			Location: p.Location,
		})
	}
	return matches, nil
}

// resolveFixed measures the route to the fixed location and keeps it when
// the threshold passes.
func (r *POIResolver) resolveFixed(ctx context.Context, origin models.Coordinate, def *config.POIDefinition) ([]models.ResolvedPOI, error) {
	loc := models.Coordinate{Lat: def.Location[0], Lon: def.Location[1]}

	metrics, err := r.provider.DistanceMatrix(ctx, origin, []models.Coordinate{loc})
	if err != nil {
		return nil, err
	}
	if !passesThreshold(metrics[0], def) {
		return nil, nil
	}

	return []models.ResolvedPOI{{
		Name:     def.Name,
		Distance: metrics[0].Distance,
		Duration: metrics[0].Duration,
		Location: loc,
	}}, nil
}

// passesThreshold applies the definition's distance-or-duration limit.
// Exactly one of the two limits may be set; with neither set any measurable
// route passes. A value of exactly 0 is the provider's "could not route"
// sentinel and always fails, whatever the limit.
func passesThreshold(m geocode.RouteMetrics, def *config.POIDefinition) bool {
	value := m.Distance.Value
	limit := def.MaxDistance
	if def.MaxDistance == nil && def.MaxDuration != nil {
		value = m.Duration.Value
		limit = def.MaxDuration
	}

	if value == 0 {
		return false
	}
	if limit == nil {
		return true
	}
	return value <= *limit
}

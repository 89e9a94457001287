package services

import (
	"context"
	"errors"
	"testing"

	"apartment-hunter/config"
	"apartment-hunter/geocode"
	"apartment-hunter/models"
	"apartment-hunter/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLoggerAt(utils.LevelError) }

// fakeProvider serves canned nearby-search and distance-matrix responses.
type fakeProvider struct {
	places  map[string][]geocode.Place
	metrics []geocode.RouteMetrics
	err     error
}

func (f *fakeProvider) NearestPlaces(_ context.Context, _ models.Coordinate, category string, limit int) ([]geocode.Place, error) {
	if f.err != nil {
		return nil, f.err
	}
	places := f.places[category]
	if len(places) > limit {
		places = places[:limit]
	}
	return places, nil
}

func (f *fakeProvider) DistanceMatrix(_ context.Context, _ models.Coordinate, dests []models.Coordinate) ([]geocode.RouteMetrics, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.metrics[:len(dests)], nil
}

func fptr(v float64) *float64 { return &v }

func metrics(distance, duration float64) geocode.RouteMetrics {
	return geocode.RouteMetrics{
		Distance: models.Measurement{Text: "0.6 mi", Value: distance},
		Duration: models.Measurement{Text: "12 min", Value: duration},
	}
}

var origin = models.Coordinate{Lat: 47.61, Lon: -122.32}

func TestResolveCategoryWithinDistance(t *testing.T) {
	provider := &fakeProvider{
		places: map[string][]geocode.Place{
			"grocery_or_supermarket": {
				{Name: "QFC", Location: models.Coordinate{Lat: 47.612, Lon: -122.321}},
				{Name: "Safeway", Location: models.Coordinate{Lat: 47.62, Lon: -122.33}},
			},
		},
		metrics: []geocode.RouteMetrics{metrics(800, 600), metrics(2500, 1800)},
	}
	defs := []config.POIDefinition{
		{Category: "grocery_or_supermarket", MaxDistance: fptr(1000)},
	}

	r := NewPOIResolver(provider, defs, newTestLogger())
	pois, satisfied := r.Resolve(context.Background(), 1, origin)

	if satisfied != 1 {
		t.Errorf("satisfied = %d; want 1", satisfied)
	}
	if len(pois) != 1 || pois[0].Name != "QFC" {
		t.Errorf("pois = %+v; want only QFC", pois)
	}
}

func TestResolveFixedWithinDuration(t *testing.T) {
	provider := &fakeProvider{metrics: []geocode.RouteMetrics{metrics(1800, 1200)}}
	defs := []config.POIDefinition{
		{Name: "office", Location: []float64{47.624, -122.338}, MaxDuration: fptr(2700)},
	}

	r := NewPOIResolver(provider, defs, newTestLogger())
	pois, satisfied := r.Resolve(context.Background(), 1, origin)

	if satisfied != 1 {
		t.Errorf("satisfied = %d; want 1", satisfied)
	}
	if len(pois) != 1 || pois[0].Name != "office" {
		t.Errorf("pois = %+v; want office", pois)
	}
}

func TestResolveZeroValueIsUnmeasurable(t *testing.T) {
	tests := []struct {
		name string
		def  config.POIDefinition
	}{
		{"distance limit", config.POIDefinition{Name: "a", Location: []float64{1, 2}, MaxDistance: fptr(100000)}},
		{"duration limit", config.POIDefinition{Name: "b", Location: []float64{1, 2}, MaxDuration: fptr(100000)}},
		{"no limit", config.POIDefinition{Name: "c", Location: []float64{1, 2}}},
	}

	for _, tt := range tests {
		provider := &fakeProvider{metrics: []geocode.RouteMetrics{{}}}
		r := NewPOIResolver(provider, []config.POIDefinition{tt.def}, newTestLogger())

		pois, satisfied := r.Resolve(context.Background(), 1, origin)
		if satisfied != 0 || len(pois) != 0 {
			t.Errorf("%s: zero measurement passed the filter: pois=%v satisfied=%d", tt.name, pois, satisfied)
		}
	}
}

func TestResolveNoLimitPassesAnyMeasurableRoute(t *testing.T) {
	provider := &fakeProvider{metrics: []geocode.RouteMetrics{metrics(99999, 99999)}}
	defs := []config.POIDefinition{{Name: "far office", Location: []float64{40, -120}}}

	r := NewPOIResolver(provider, defs, newTestLogger())
	_, satisfied := r.Resolve(context.Background(), 1, origin)
	if satisfied != 1 {
		t.Errorf("satisfied = %d; want 1 (no limit configured)", satisfied)
	}
}

func TestResolveProviderErrorCountsUnsatisfied(t *testing.T) {
	provider := &fakeProvider{err: &geocode.ProviderError{Op: "nearby search", Err: errors.New("quota")}}
	defs := []config.POIDefinition{
		{Category: "grocery_or_supermarket", MaxDistance: fptr(1000)},
	}

	r := NewPOIResolver(provider, defs, newTestLogger())
	pois, satisfied := r.Resolve(context.Background(), 1, origin)

	if satisfied != 0 || len(pois) != 0 {
		t.Errorf("provider error should leave the definition unsatisfied: pois=%v satisfied=%d", pois, satisfied)
	}
	if r.Total() != 1 {
		t.Errorf("Total = %d; want 1", r.Total())
	}
}

func TestResolveOverThresholdExcluded(t *testing.T) {
	provider := &fakeProvider{metrics: []geocode.RouteMetrics{metrics(5000, 3600)}}
	defs := []config.POIDefinition{
		{Name: "office", Location: []float64{47.62, -122.33}, MaxDuration: fptr(2700)},
	}

	r := NewPOIResolver(provider, defs, newTestLogger())
	_, satisfied := r.Resolve(context.Background(), 1, origin)
	if satisfied != 0 {
		t.Errorf("satisfied = %d; want 0 (duration 3600 over limit 2700)", satisfied)
	}
}

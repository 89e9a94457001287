package geocode

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"apartment-hunter/models"
)

// GoogleClient implements Provider on top of the Google Maps Places and
// Distance Matrix APIs.
type GoogleClient struct {
	client *maps.Client
}

// NewGoogleClient creates a GoogleClient with the given API key.
func NewGoogleClient(apiKey string) (*GoogleClient, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("geocode: new client: %w", err)
	}
	return &GoogleClient{client: c}, nil
}

// NearestPlaces runs a rank-by-distance nearby search for the category and
// truncates the results to limit.
func (g *GoogleClient) NearestPlaces(ctx context.Context, origin models.Coordinate, category string, limit int) ([]Place, error) {
	resp, err := g.client.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: origin.Lat, Lng: origin.Lon},
		RankBy:   maps.RankByDistance,
		Type:     maps.PlaceType(category),
	})
	if err != nil {
		return nil, &ProviderError{Op: "nearby search " + category, Err: err}
	}

	results := resp.Results
	if len(results) > limit {
		results = results[:limit]
	}

	places := make([]Place, 0, len(results))
	for _, r := range results {
		places = append(places, Place{
			Name:   r.Name,
			Rating: float64(r.Rating),
			Location: models.Coordinate{
				Lat: r.Geometry.Location.Lat,
				Lon: r.Geometry.Location.Lng,
			},
		})
	}
	return places, nil
}

// DistanceMatrix measures walking routes from origin to each destination.
// Unroutable destinations come back with zero-valued measurements, which
// downstream code treats as the unmeasurable sentinel.
func (g *GoogleClient) DistanceMatrix(ctx context.Context, origin models.Coordinate, destinations []models.Coordinate) ([]RouteMetrics, error) {
	dests := make([]string, 0, len(destinations))
	for _, d := range destinations {
		dests = append(dests, fmt.Sprintf("%f,%f", d.Lat, d.Lon))
	}

	resp, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{fmt.Sprintf("%f,%f", origin.Lat, origin.Lon)},
		Destinations: dests,
		Mode:         maps.TravelModeWalking,
		Units:        maps.UnitsImperial,
	})
	if err != nil {
		return nil, &ProviderError{Op: "distance matrix", Err: err}
	}
	if len(resp.Rows) != 1 || len(resp.Rows[0].Elements) != len(destinations) {
		return nil, &ProviderError{
			Op:  "distance matrix",
			Err: fmt.Errorf("unexpected shape: %d rows for %d destinations", len(resp.Rows), len(destinations)),
		}
	}

	metrics := make([]RouteMetrics, 0, len(destinations))
	for _, el := range resp.Rows[0].Elements {
		if el.Status != "OK" {
			// Leave the zero sentinel in place for this destination.
			metrics = append(metrics, RouteMetrics{})
			continue
		}
		metrics = append(metrics, RouteMetrics{
			Distance: models.Measurement{
				Text:  el.Distance.HumanReadable,
				Value: float64(el.Distance.Meters),
			},
			Duration: models.Measurement{
				Text:  formatDuration(el.Duration),
				Value: el.Duration.Seconds(),
			},
		})
	}
	return metrics, nil
}

func formatDuration(d time.Duration) string {
	mins := int(d.Round(time.Minute) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	return fmt.Sprintf("%d min", mins)
}

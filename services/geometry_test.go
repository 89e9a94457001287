package services

import (
	"math"
	"testing"

	"apartment-hunter/config"
	"apartment-hunter/models"
)

func TestCoordDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
	}{
		{"same point", 47.61, -122.33, 47.61, -122.33, 0},
		// One degree of latitude on a 6367 km sphere is pi*6367/180.
		{"one degree latitude", 0, 0, 1, 0, math.Pi * 6367 / 180},
		{"capitol hill to fremont", 47.6205, -122.3212, 47.6517, -122.3493, 4.06},
	}

	for _, tt := range tests {
		got := CoordDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
		if math.Abs(got-tt.wantKm) > 0.05 {
			t.Errorf("%s: CoordDistance = %.3f km; want %.3f km", tt.name, got, tt.wantKm)
		}
	}
}

func TestInBox(t *testing.T) {
	box := config.Box{
		Name: "Capitol Hill",
		SW:   []float64{47.60, -122.34},
		NE:   []float64{47.63, -122.30},
	}

	tests := []struct {
		name  string
		point models.Coordinate
		want  bool
	}{
		{"inside", models.Coordinate{Lat: 47.61, Lon: -122.32}, true},
		{"on southwest corner", models.Coordinate{Lat: 47.60, Lon: -122.34}, false},
		{"on northeast corner", models.Coordinate{Lat: 47.63, Lon: -122.30}, false},
		{"on latitude boundary", models.Coordinate{Lat: 47.60, Lon: -122.32}, false},
		{"north of box", models.Coordinate{Lat: 47.65, Lon: -122.32}, false},
		{"west of box", models.Coordinate{Lat: 47.61, Lon: -122.40}, false},
		{"east of box", models.Coordinate{Lat: 47.61, Lon: -122.25}, false},
	}

	for _, tt := range tests {
		if got := InBox(tt.point, box); got != tt.want {
			t.Errorf("%s: InBox(%v) = %v; want %v", tt.name, tt.point, got, tt.want)
		}
	}
}

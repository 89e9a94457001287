package services

import (
	"strings"

	"apartment-hunter/config"
	"apartment-hunter/models"
)

// Geofence assigns human-readable area names to listings, either by
// bounding-box containment or by matching configured names against the
// free-text neighborhood string.
type Geofence struct {
	boxes         []config.Box
	fallbackNames []string
}

// NewGeofence creates a Geofence from the configured boxes plus any extra
// fallback neighborhood names. Order is preserved from configuration; the
// fallback path takes the first match.
func NewGeofence(boxes []config.Box, neighborhoods []string) *Geofence {
	names := make([]string, 0, len(boxes)+len(neighborhoods))
	for _, b := range boxes {
		names = append(names, b.Name)
	}
	names = append(names, neighborhoods...)

	return &Geofence{boxes: boxes, fallbackNames: names}
}

// Classify returns the area names for a listing. When a coordinate is
// present it is tested against every box and all containing boxes are
// collected. When no box matches (or no coordinate exists) the neighborhood
// string is scanned for configured names and only the first match, in
// configuration order, is taken.
func (g *Geofence) Classify(coord *models.Coordinate, hood string) []string {
	var areas []string

	if coord != nil {
		for _, box := range g.boxes {
			if InBox(*coord, box) {
				areas = append(areas, box.Name)
			}
		}
	}

	if len(areas) == 0 {
		lowered := strings.ToLower(hood)
		for _, name := range g.fallbackNames {
			if strings.Contains(lowered, strings.ToLower(name)) {
				areas = append(areas, name)
				break
			}
		}
	}

	return areas
}

package services

import (
	"math"

	"apartment-hunter/config"
	"apartment-hunter/models"
)

const earthRadiusKm = 6367

// CoordDistance returns the great-circle distance in kilometers between two
// latitude/longitude pairs, using the haversine formula.
func CoordDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1 = toRadians(lat1)
	lon1 = toRadians(lon1)
	lat2 = toRadians(lat2)
	lon2 = toRadians(lon2)

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// InBox reports whether point lies strictly inside the box; points exactly
// on a boundary are excluded. Corners follow the southwest/northeast
// convention of the criteria file; boxes straddling the antimeridian are
// not supported.
func InBox(point models.Coordinate, box config.Box) bool {
	swLat, swLon := box.SW[0], box.SW[1]
	neLat, neLon := box.NE[0], box.NE[1]
	return swLat < point.Lat && point.Lat < neLat &&
		swLon < point.Lon && point.Lon < neLon
}

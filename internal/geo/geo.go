// Package geo provides great-circle distance math and bounding-box helpers
// for proximity search. All functions are pure and safe for concurrent use.
package geo

import "math"

const (
	earthRadiusKM    = 6371.0
	earthRadiusMiles = 3956.0

	// metersPerDegreeLat is the approximate length of one degree of
	// latitude, used for the axial bounding-box prefilter.
	metersPerDegreeLat = 111320.0
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

// DistanceKM returns the great-circle distance in kilometers between two
// lat/lng points (Haversine, Earth radius 6371 km).
func DistanceKM(lat1, lng1, lat2, lng2 float64) float64 {
	return haversine(lat1, lng1, lat2, lng2) * earthRadiusKM
}

// DistanceMiles returns the great-circle distance in miles between two
// lat/lng points (Haversine, Earth radius 3956 mi). Display-oriented
// callers use this variant; internal matching always works in kilometers.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	return haversine(lat1, lng1, lat2, lng2) * earthRadiusMiles
}

// DistanceMeters returns the great-circle distance in meters.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	return DistanceKM(lat1, lng1, lat2, lng2) * 1000.0
}

// haversine returns the central angle in radians between two points.
func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLng := (lng2 - lng1) * math.Pi / 180.0
	lat1R := lat1 * math.Pi / 180.0
	lat2R := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1R)*math.Cos(lat2R)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// BoundingBox is an axial lat/lng window around a center point. It
// over-approximates a radius circle and is only a prefilter: candidates
// inside the box still need an exact Haversine check.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// BoxAround returns the bounding box for a circle of radiusMeters around
// the center. Longitude degrees shrink with cos(latitude); near the poles
// the longitude window collapses to the full range.
func BoxAround(center Point, radiusMeters float64) BoundingBox {
	latDelta := radiusMeters / metersPerDegreeLat

	cosLat := math.Cos(center.Lat * math.Pi / 180.0)
	var lngDelta float64
	if cosLat > 1e-6 {
		lngDelta = radiusMeters / (metersPerDegreeLat * cosLat)
	} else {
		lngDelta = 180.0
	}

	return BoundingBox{
		MinLat: center.Lat - latDelta,
		MaxLat: center.Lat + latDelta,
		MinLng: center.Lng - lngDelta,
		MaxLng: center.Lng + lngDelta,
	}
}

// Contains reports whether the point falls inside the box.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// ValidCoordinates reports whether the pair is a plausible WGS84 coordinate.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

package geo

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/landuse-microservice/internal/domain"
)

// metersPerDegree is the length of one degree of latitude in meters.
const metersPerDegree = 111320.0

// MetersToDegrees converts a distance in meters to degree offsets at the
// given latitude. Degenerates near the poles; callers must not pass
// |lat| close to 90.
func MetersToDegrees(lat, meters float64) (dLat, dLng float64) {
	dLat = meters / metersPerDegree
	dLng = meters / (metersPerDegree * math.Cos(lat*math.Pi/180))
	return dLat, dLng
}

// BBoxAroundPoint returns a symmetric box of half-width meters centered
// on the point.
func BBoxAroundPoint(lng, lat, meters float64) domain.BoundingBox {
	dLat, dLng := MetersToDegrees(lat, meters)
	return domain.BoundingBox{
		MinLng: lng - dLng,
		MinLat: lat - dLat,
		MaxLng: lng + dLng,
		MaxLat: lat + dLat,
	}
}

// BBoxOfRing returns the vertex extrema of a ring.
func BBoxOfRing(ring []domain.Coordinate) domain.BoundingBox {
	box := domain.BoundingBox{
		MinLng: math.Inf(1), MinLat: math.Inf(1),
		MaxLng: math.Inf(-1), MaxLat: math.Inf(-1),
	}
	for _, c := range ring {
		box.MinLng = math.Min(box.MinLng, c.Lng)
		box.MinLat = math.Min(box.MinLat, c.Lat)
		box.MaxLng = math.Max(box.MaxLng, c.Lng)
		box.MaxLat = math.Max(box.MaxLat, c.Lat)
	}
	if len(ring) == 0 {
		return domain.BoundingBox{}
	}
	return box
}

// Centroid returns the arithmetic mean of the ring's vertices, excluding
// the closing duplicate. This is a vertex average, not an area-weighted
// centroid: for non-convex parcels it can land outside the ring, which is
// an accepted approximation for the small parcels this service handles.
// Malformed rings yield a best-effort value, never an error.
func Centroid(ring []domain.Coordinate) domain.Coordinate {
	verts := openRing(ring)
	if len(verts) == 0 {
		return domain.Coordinate{}
	}
	var sumLat, sumLng float64
	for _, c := range verts {
		sumLat += c.Lat
		sumLng += c.Lng
	}
	n := float64(len(verts))
	return domain.Coordinate{Lat: sumLat / n, Lng: sumLng / n}
}

// AreaM2 computes the ring's planar area via the Shoelace formula in
// degree space, scaled to square meters at centerLat. Valid only for
// parcels small enough that curvature is negligible (tens of hectares).
func AreaM2(ring []domain.Coordinate, centerLat float64) float64 {
	verts := openRing(ring)
	if len(verts) < 3 {
		return 0
	}
	var sum float64
	for i := range verts {
		j := (i + 1) % len(verts)
		sum += verts[i].Lng*verts[j].Lat - verts[j].Lng*verts[i].Lat
	}
	areaDeg := math.Abs(sum) / 2
	scale := metersPerDegree * metersPerDegree * math.Cos(centerLat*math.Pi/180)
	return areaDeg * scale
}

// RingContains reports whether the point lies inside the ring. It never
// panics: malformed rings (fewer than 3 distinct vertices, degenerate
// geometry) count as "does not contain".
func RingContains(ring []domain.Coordinate, lng, lat float64) (contained bool) {
	defer func() {
		if recover() != nil {
			contained = false
		}
	}()

	verts := openRing(ring)
	if len(verts) < 3 {
		return false
	}

	flat := make([]float64, 0, (len(verts)+1)*2)
	for _, c := range verts {
		flat = append(flat, c.Lng, c.Lat)
	}
	// Close the ring.
	flat = append(flat, verts[0].Lng, verts[0].Lat)

	return xy.IsPointInRing(geom.XY, geom.Coord{lng, lat}, flat)
}

// openRing strips the closing duplicate vertex and drops non-finite
// coordinates.
func openRing(ring []domain.Coordinate) []domain.Coordinate {
	if len(ring) > 1 {
		first, last := ring[0], ring[len(ring)-1]
		if first.Lat == last.Lat && first.Lng == last.Lng {
			ring = ring[:len(ring)-1]
		}
	}
	verts := make([]domain.Coordinate, 0, len(ring))
	for _, c := range ring {
		if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
			continue
		}
		verts = append(verts, c)
	}
	return verts
}

// DistinctVertices counts the distinct vertices of a ring, closing
// duplicate excluded. Used by request validation.
func DistinctVertices(ring []domain.Coordinate) int {
	seen := make(map[domain.Coordinate]struct{})
	for _, c := range openRing(ring) {
		seen[c] = struct{}{}
	}
	return len(seen)
}

// earthRadiusM is the mean Earth radius in meters.
const earthRadiusM = 6371000.0

// Haversine returns the great-circle distance in meters between two
// WGS84 points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(a))
}

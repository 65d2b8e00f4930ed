package domain

import (
	"math"
	"strconv"
	"strings"
)

const (
	metersPerNauticalMile = 1852

	// earthRadiusNM is the mean Earth radius expressed in nautical miles.
	earthRadiusNM = 3440.065
)

// Point is a WGS-84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Coordinate3D extends a Point with a depth in meters below the surface.
type Coordinate3D struct {
	Lat    float64
	Lng    float64
	DepthM float64
}

// DistanceFunc returns the great-circle distance between two points in
// nautical miles. The pipeline normally uses NauticalMiles, but the survey
// platform may supply its own implementation.
type DistanceFunc func(a, b Point) float64

// NauticalMiles is the default great-circle distance, computed with the
// haversine formula on a spherical Earth.
func NauticalMiles(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusNM * math.Asin(math.Sqrt(h))
}

// Midpoint returns the arithmetic midpoint of two points. Survey bounding
// boxes and set tracks are small enough that the planar approximation holds.
func Midpoint(a, b Point) Point {
	return Point{
		Lat: (a.Lat + b.Lat) / 2,
		Lng: (a.Lng + b.Lng) / 2,
	}
}

// UncertaintyRadiusMeters derives dwc:coordinateUncertaintyInMeters for a
// location reported as the midpoint of two corner points: half the
// great-circle distance between the corners, converted to meters and rounded
// to millimeter resolution.
func UncertaintyRadiusMeters(a, b Point, dist DistanceFunc) float64 {
	if dist == nil {
		dist = NauticalMiles
	}
	radius := dist(a, b) / 2 * metersPerNauticalMile
	return math.Round(radius*1000) / 1000
}

// LineStringZ serializes a two-vertex 3D line to Well-Known Text, vertices
// ordered (longitude, latitude, depth) per the WKT axis convention.
func LineStringZ(start, end Coordinate3D) string {
	var sb strings.Builder
	sb.WriteString("LINESTRING Z (")
	writeCoordinate(&sb, start)
	sb.WriteString(", ")
	writeCoordinate(&sb, end)
	sb.WriteString(")")
	return sb.String()
}

func writeCoordinate(sb *strings.Builder, c Coordinate3D) {
	sb.WriteString(strconv.FormatFloat(c.Lng, 'f', -1, 64))
	sb.WriteString(" ")
	sb.WriteString(strconv.FormatFloat(c.Lat, 'f', -1, 64))
	sb.WriteString(" ")
	sb.WriteString(strconv.FormatFloat(c.DepthM, 'f', -1, 64))
}

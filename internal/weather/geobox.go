package weather

import (
	"errors"
	"math"
)

// kmPerDegree is the length of one degree of latitude.
const kmPerDegree = 111.0

var (
	// ErrInvalidRadius is returned for a radius that is not a positive finite number.
	ErrInvalidRadius = errors.New("radius must be greater than zero")
	// ErrGeometryUndefined is returned when no box can be built around the point,
	// e.g. at the poles where the longitude scale diverges.
	ErrGeometryUndefined = errors.New("bounding box undefined at this latitude")
)

// ComputeBox converts a center point and a radius in kilometers into a bounding box.
//
// Latitude degrees are a constant 111 km; longitude degrees shrink with cos(lat).
// Edges are rounded to 2 decimals. When rounding would collapse an axis the edges
// of that axis are rounded outward instead, so the box is never empty.
func ComputeBox(c Coordinates, radiusKm float64) (BoundingBox, error) {
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm <= 0 {
		return BoundingBox{}, ErrInvalidRadius
	}
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.Abs(c.Lat) >= 90 {
		return BoundingBox{}, ErrGeometryUndefined
	}

	latDelta := radiusKm / kmPerDegree
	lonDelta := radiusKm / (kmPerDegree * math.Cos(c.Lat*math.Pi/180))
	if math.IsNaN(lonDelta) || math.IsInf(lonDelta, 0) || lonDelta <= 0 {
		return BoundingBox{}, ErrGeometryUndefined
	}

	left, right := roundSpan(c.Lon-lonDelta, c.Lon+lonDelta)
	bottom, top := roundSpan(c.Lat-latDelta, c.Lat+latDelta)
	if left >= right || bottom >= top {
		// radius below float resolution at this magnitude
		return BoundingBox{}, ErrInvalidRadius
	}

	return BoundingBox{
		LonLeft:   left,
		LatBottom: bottom,
		LonRight:  right,
		LatTop:    top,
	}, nil
}

func roundSpan(lo, hi float64) (float64, float64) {
	rlo, rhi := round2(lo), round2(hi)
	if rlo < rhi {
		return rlo, rhi
	}
	return math.Floor(lo*100) / 100, math.Ceil(hi*100) / 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

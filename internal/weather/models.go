package weather

import (
	"errors"
	"strconv"
	"strings"
)

// Location is one requested place together with the radius used to build its area.
type Location struct {
	Name     string  `json:"name" validate:"required,excludes=:"`
	RadiusKm float64 `json:"radiusKm" validate:"gt=0"`
}

// Key returns a canonical string key for this location.
func (l Location) Key() string {
	return strings.ToLower(strings.TrimSpace(l.Name))
}

// Coordinates are expressed in degrees.
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// BoundingBox is a rectangular area in degrees, edges rounded to 2 decimals.
type BoundingBox struct {
	LonLeft   float64 `json:"lonLeft"`
	LatBottom float64 `json:"latBottom"`
	LonRight  float64 `json:"lonRight"`
	LatTop    float64 `json:"latTop"`
}

// String renders the box in the provider's "left,bottom,right,top" order.
func (b BoundingBox) String() string {
	edges := []float64{b.LonLeft, b.LatBottom, b.LonRight, b.LatTop}
	parts := make([]string, len(edges))
	for i, v := range edges {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

// PointReading is the weather observation for one named location.
type PointReading struct {
	TemperatureC int
	Coordinates  Coordinates
}

// StationReading is the observation of one station inside a bounding box.
type StationReading struct {
	TemperatureC int
}

// LocationResult is the outcome of one pipeline run. A nil TemperatureC means the
// location was not resolved; a nil AverageTempC means no area average could be
// computed. Err carries the cause whenever a field is nil.
type LocationResult struct {
	Name         string   `json:"name"`
	TemperatureC *int     `json:"temperatureC"`
	AverageTempC *float64 `json:"averageTempC"`
	Err          error    `json:"-"`

	// Index is the position of the location in the submitted batch.
	Index int `json:"-"`
}

// Failed reports whether either value is missing.
func (r LocationResult) Failed() bool {
	return r.TemperatureC == nil || r.AverageTempC == nil
}

// Reason is a short human readable explanation of a failed result.
func (r LocationResult) Reason() string {
	switch {
	case !r.Failed():
		return ""
	case errors.Is(r.Err, ErrNotFound):
		return "not found"
	case errors.Is(r.Err, ErrEmpty), errors.Is(r.Err, ErrInvalidRadius):
		return "increase radius"
	case errors.Is(r.Err, ErrGeometryUndefined):
		return "area undefined near the poles"
	case r.Err != nil:
		return r.Err.Error()
	case r.TemperatureC == nil:
		return "not found"
	default:
		return "increase radius"
	}
}

// BatchResult splits a batch into sorted successes and failures.
// Results are ordered ascending by AverageTempC; Failures keep input order.
type BatchResult struct {
	ID       string           `json:"batchId"`
	Results  []LocationResult `json:"results"`
	Failures []LocationResult `json:"failures"`
}

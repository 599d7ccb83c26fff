package weather

import (
	"context"
	"errors"
	"fmt"
)

// StationLimit caps the number of stations returned by a box query.
const StationLimit = 10

var (
	// ErrNotFound is returned when a point lookup cannot resolve the location name.
	ErrNotFound = errors.New("location not found")
	// ErrEmpty is returned when a box query has no stations.
	ErrEmpty = errors.New("no stations in area")
	// ErrProviderFailure is matched by every *ProviderError.
	ErrProviderFailure = errors.New("provider failure")
)

// ProviderClient abstracts the weather data source used by the pipeline.
// Implementations make a single attempt per call.
type ProviderClient interface {
	// FetchPoint returns the current reading for a named location or ErrNotFound.
	FetchPoint(ctx context.Context, name string) (PointReading, error)
	// FetchBox returns at most StationLimit readings inside box or ErrEmpty.
	FetchBox(ctx context.Context, box BoundingBox) ([]StationReading, error)
}

// ProviderError is a transport or decoding failure talking to a provider.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderFailure
}

// KelvinToCelsius converts a point reading temperature, truncating toward zero.
func KelvinToCelsius(kelvin float64) int {
	return int(kelvin - 273.15)
}

// StationCelsius converts a box reading temperature. The box endpoint value is
// truncated as-is, without the Kelvin offset applied to point readings.
// TODO: confirm the unit the box endpoint reports and apply the offset here if it is Kelvin.
func StationCelsius(raw float64) int {
	return int(raw)
}

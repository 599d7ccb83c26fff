package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dhconnelly/rtreego"

	"github.com/i474232898/area-weather/internal/weather"
)

const (
	tolerance   = 0.0001
	minChildren = 25
	maxChildren = 50
	dimensions  = 2
)

// Station is one entry of an offline station fixture.
type Station struct {
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	TempK float64 `json:"tempK"`
}

// spatialStation wraps a Station for R-tree indexing on (lon, lat).
type spatialStation struct {
	Station
	rect *rtreego.Rect
}

func (s *spatialStation) Bounds() *rtreego.Rect {
	return s.rect
}

// StationIndexProvider answers point and box queries from an in-memory R-tree of
// stations. Box readings are served in Celsius, as the box endpoint reports them.
// The index is read-only after construction.
type StationIndexProvider struct {
	tree   *rtreego.Rtree
	byName map[string]Station
}

// NewStationIndexProvider indexes stations. Later duplicates of a name replace earlier ones
// for point lookups but all of them stay in the spatial index.
func NewStationIndexProvider(stations []Station) *StationIndexProvider {
	p := &StationIndexProvider{
		tree:   rtreego.NewTree(dimensions, minChildren, maxChildren),
		byName: make(map[string]Station, len(stations)),
	}
	for _, st := range stations {
		pt := rtreego.Point{st.Lon, st.Lat}
		p.tree.Insert(&spatialStation{Station: st, rect: pt.ToRect(tolerance)})
		p.byName[stationKey(st.Name)] = st
	}
	return p
}

// LoadStationIndex reads a JSON array of stations from filename.
func LoadStationIndex(filename string) (*StationIndexProvider, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read stations file: %w", err)
	}

	var stations []Station
	if err := json.Unmarshal(data, &stations); err != nil {
		return nil, fmt.Errorf("failed to decode stations file: %w", err)
	}
	return NewStationIndexProvider(stations), nil
}

func (p *StationIndexProvider) Name() string {
	return "stationindex"
}

func (p *StationIndexProvider) FetchPoint(ctx context.Context, name string) (weather.PointReading, error) {
	if err := ctx.Err(); err != nil {
		return weather.PointReading{}, &weather.ProviderError{Provider: p.Name(), Op: "point", Err: err}
	}

	st, ok := p.byName[stationKey(name)]
	if !ok {
		return weather.PointReading{}, weather.ErrNotFound
	}

	return weather.PointReading{
		TemperatureC: weather.KelvinToCelsius(st.TempK),
		Coordinates:  weather.Coordinates{Lon: st.Lon, Lat: st.Lat},
	}, nil
}

func (p *StationIndexProvider) FetchBox(ctx context.Context, box weather.BoundingBox) ([]weather.StationReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, &weather.ProviderError{Provider: p.Name(), Op: "box", Err: err}
	}

	bounds, err := rtreego.NewRect(
		rtreego.Point{box.LonLeft, box.LatBottom},
		[]float64{box.LonRight - box.LonLeft, box.LatTop - box.LatBottom},
	)
	if err != nil {
		return nil, &weather.ProviderError{Provider: p.Name(), Op: "box", Err: fmt.Errorf("invalid bounding box: %w", err)}
	}

	hits := p.tree.SearchIntersect(bounds)

	found := make([]Station, 0, len(hits))
	for _, hit := range hits {
		item, ok := hit.(*spatialStation)
		if !ok {
			continue
		}
		if item.Lon >= box.LonLeft && item.Lon <= box.LonRight &&
			item.Lat >= box.LatBottom && item.Lat <= box.LatTop {
			found = append(found, item.Station)
		}
	}
	if len(found) == 0 {
		return nil, weather.ErrEmpty
	}

	// Deterministic subset when the cap applies.
	sort.Slice(found, func(i, j int) bool { return found[i].Name < found[j].Name })
	if len(found) > weather.StationLimit {
		found = found[:weather.StationLimit]
	}

	readings := make([]weather.StationReading, len(found))
	for i, st := range found {
		readings[i] = weather.StationReading{TemperatureC: weather.StationCelsius(st.TempK - 273.15)}
	}
	return readings, nil
}

func stationKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

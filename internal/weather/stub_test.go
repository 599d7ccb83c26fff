package weather

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type stubStation struct {
	Coordinates
	TemperatureC int
}

// stubProvider resolves points from a map and boxes by scanning its stations.
type stubProvider struct {
	points   map[string]PointReading
	stations []stubStation
	pointErr map[string]error
	boxErr   error
	delay    time.Duration
	panicOn  string

	mu          sync.Mutex
	boxQueries  []BoundingBox
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (s *stubProvider) FetchPoint(ctx context.Context, name string) (PointReading, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		cur := s.maxInFlight.Load()
		if n <= cur || s.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	if name == s.panicOn {
		panic("stub exploded")
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return PointReading{}, &ProviderError{Provider: "stub", Op: "point", Err: ctx.Err()}
		}
	}
	if err, ok := s.pointErr[name]; ok {
		return PointReading{}, err
	}
	p, ok := s.points[name]
	if !ok {
		return PointReading{}, ErrNotFound
	}
	return p, nil
}

func (s *stubProvider) FetchBox(ctx context.Context, box BoundingBox) ([]StationReading, error) {
	s.mu.Lock()
	s.boxQueries = append(s.boxQueries, box)
	s.mu.Unlock()

	if s.boxErr != nil {
		return nil, s.boxErr
	}
	var out []StationReading
	for _, st := range s.stations {
		if st.Lon >= box.LonLeft && st.Lon <= box.LonRight && st.Lat >= box.LatBottom && st.Lat <= box.LatTop {
			out = append(out, StationReading{TemperatureC: st.TemperatureC})
		}
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

// cityAt registers a point named name at (lon, lat) and stations around it with temps.
func (s *stubProvider) cityAt(name string, lon, lat float64, temp int, stationTemps ...int) {
	if s.points == nil {
		s.points = make(map[string]PointReading)
	}
	s.points[name] = PointReading{TemperatureC: temp, Coordinates: Coordinates{Lon: lon, Lat: lat}}
	for i, t := range stationTemps {
		off := 0.05 * float64(i+1)
		s.stations = append(s.stations, stubStation{
			Coordinates:  Coordinates{Lon: lon + off, Lat: lat - off},
			TemperatureC: t,
		})
	}
}

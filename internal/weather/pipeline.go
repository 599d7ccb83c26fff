package weather

import (
	"context"
	"log/slog"
	"time"
)

// Pipeline resolves one location: point reading, bounding box, station readings
// and their average. Each step runs sequentially and stops at the first missing
// value, returning whatever was already known.
type Pipeline struct {
	client      ProviderClient
	logger      *slog.Logger
	taskTimeout time.Duration
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the logger used for per-location diagnostics.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTaskTimeout bounds the provider calls of a single location. Zero disables it.
func WithTaskTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.taskTimeout = d
	}
}

// NewPipeline creates a Pipeline using client for all provider calls.
func NewPipeline(client ProviderClient, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pipeline for loc. It never returns an error: failures are
// reported through the nil fields and Err of the result.
func (p *Pipeline) Run(ctx context.Context, loc Location) LocationResult {
	if p.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.taskTimeout)
		defer cancel()
	}

	result := LocationResult{Name: loc.Name}
	log := p.logger.With("location", loc.Name, "radius_km", loc.RadiusKm)

	point, err := p.client.FetchPoint(ctx, loc.Name)
	if err != nil {
		log.Warn("point lookup failed", "error", err)
		result.Err = err
		return result
	}
	temp := point.TemperatureC
	result.TemperatureC = &temp

	box, err := ComputeBox(point.Coordinates, loc.RadiusKm)
	if err != nil {
		log.Warn("cannot build area", "lat", point.Coordinates.Lat, "lon", point.Coordinates.Lon, "error", err)
		result.Err = err
		return result
	}

	stations, err := p.client.FetchBox(ctx, box)
	if err == nil && len(stations) == 0 {
		err = ErrEmpty
	}
	if err != nil {
		log.Warn("area lookup failed", "bbox", box.String(), "error", err)
		result.Err = err
		return result
	}

	avg := averageTemperature(stations)
	result.AverageTempC = &avg

	log.Debug("location resolved", "temperature_c", temp, "average_c", avg, "stations", len(stations))
	return result
}

// averageTemperature is the arithmetic mean of the station temperatures.
func averageTemperature(readings []StationReading) float64 {
	var sum float64
	for _, r := range readings {
		sum += float64(r.TemperatureC)
	}
	return sum / float64(len(readings))
}

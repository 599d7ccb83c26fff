package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineRun(t *testing.T) {
	stub := &stubProvider{}
	stub.cityAt("Moscow", 37.62, 55.75, -3, -4, -1, 0)

	res := NewPipeline(stub).Run(context.Background(), Location{Name: "Moscow", RadiusKm: 100})

	require.False(t, res.Failed(), "unexpected failure: %v", res.Err)
	assert.Equal(t, "Moscow", res.Name)
	assert.Equal(t, -3, *res.TemperatureC)
	assert.InDelta(t, -5.0/3.0, *res.AverageTempC, 1e-12)
	assert.NoError(t, res.Err)
	require.Len(t, stub.boxQueries, 1)
	assert.Less(t, stub.boxQueries[0].LonLeft, 37.62)
	assert.Greater(t, stub.boxQueries[0].LatTop, 55.75)
}

func TestPipelineNotFound(t *testing.T) {
	stub := &stubProvider{}

	res := NewPipeline(stub).Run(context.Background(), Location{Name: "Atlantis", RadiusKm: 100})

	assert.Nil(t, res.TemperatureC)
	assert.Nil(t, res.AverageTempC)
	assert.ErrorIs(t, res.Err, ErrNotFound)
	assert.Equal(t, "not found", res.Reason())
	assert.Empty(t, stub.boxQueries)
}

func TestPipelineNoStations(t *testing.T) {
	stub := &stubProvider{}
	stub.cityAt("Lonely", 10, 10, 21)

	res := NewPipeline(stub).Run(context.Background(), Location{Name: "Lonely", RadiusKm: 5})

	require.NotNil(t, res.TemperatureC)
	assert.Equal(t, 21, *res.TemperatureC)
	assert.Nil(t, res.AverageTempC)
	assert.ErrorIs(t, res.Err, ErrEmpty)
	assert.Equal(t, "increase radius", res.Reason())
}

func TestPipelineEmptySliceIsEmpty(t *testing.T) {
	res := NewPipeline(emptyBoxProvider{}).Run(context.Background(), Location{Name: "X", RadiusKm: 50})

	require.NotNil(t, res.TemperatureC)
	assert.Nil(t, res.AverageTempC)
	assert.ErrorIs(t, res.Err, ErrEmpty)
}

func TestPipelineProviderErrors(t *testing.T) {
	outage := &ProviderError{Provider: "stub", Op: "point", Err: errors.New("503")}

	t.Run("point", func(t *testing.T) {
		stub := &stubProvider{pointErr: map[string]error{"Paris": outage}}
		res := NewPipeline(stub).Run(context.Background(), Location{Name: "Paris", RadiusKm: 100})

		assert.Nil(t, res.TemperatureC)
		assert.Nil(t, res.AverageTempC)
		assert.ErrorIs(t, res.Err, ErrProviderFailure)
		assert.NotErrorIs(t, res.Err, ErrNotFound)
	})

	t.Run("box", func(t *testing.T) {
		stub := &stubProvider{boxErr: &ProviderError{Provider: "stub", Op: "box", Err: errors.New("timeout")}}
		stub.cityAt("Paris", 2.35, 48.85, 15, 14)
		res := NewPipeline(stub).Run(context.Background(), Location{Name: "Paris", RadiusKm: 100})

		require.NotNil(t, res.TemperatureC)
		assert.Equal(t, 15, *res.TemperatureC)
		assert.Nil(t, res.AverageTempC)
		assert.ErrorIs(t, res.Err, ErrProviderFailure)
		assert.NotErrorIs(t, res.Err, ErrEmpty)
	})
}

func TestPipelineGeometryFailures(t *testing.T) {
	stub := &stubProvider{}
	stub.cityAt("Pole", 0, 90, -30, -31)
	stub.cityAt("Oslo", 10.75, 59.91, 4, 5)

	p := NewPipeline(stub)

	res := p.Run(context.Background(), Location{Name: "Pole", RadiusKm: 100})
	require.NotNil(t, res.TemperatureC)
	assert.Nil(t, res.AverageTempC)
	assert.ErrorIs(t, res.Err, ErrGeometryUndefined)

	res = p.Run(context.Background(), Location{Name: "Oslo", RadiusKm: 0})
	require.NotNil(t, res.TemperatureC)
	assert.Nil(t, res.AverageTempC)
	assert.ErrorIs(t, res.Err, ErrInvalidRadius)
	assert.Len(t, stub.boxQueries, 0)
}

func TestPipelineTaskTimeout(t *testing.T) {
	stub := &stubProvider{delay: time.Second}
	stub.cityAt("Slow", 10, 10, 1, 1)

	p := NewPipeline(stub, WithTaskTimeout(20*time.Millisecond))

	start := time.Now()
	res := p.Run(context.Background(), Location{Name: "Slow", RadiusKm: 100})

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Nil(t, res.TemperatureC)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
}

type emptyBoxProvider struct{}

func (emptyBoxProvider) FetchPoint(context.Context, string) (PointReading, error) {
	return PointReading{TemperatureC: 3, Coordinates: Coordinates{Lon: 1, Lat: 1}}, nil
}

func (emptyBoxProvider) FetchBox(context.Context, BoundingBox) ([]StationReading, error) {
	return []StationReading{}, nil
}

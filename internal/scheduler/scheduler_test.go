package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/area-weather/internal/weather"
	"github.com/i474232898/area-weather/internal/weather/providers"
)

func newAggregator() *weather.Aggregator {
	client := providers.NewStationIndexProvider([]providers.Station{
		{Name: "Oslo", Lat: 59.91, Lon: 10.75, TempK: 278.15},
		{Name: "Drammen", Lat: 59.74, Lon: 10.2, TempK: 279.65},
	})
	return weather.NewAggregator(weather.NewPipeline(client), 2, nil)
}

func TestSchedulerRunsImmediately(t *testing.T) {
	batches := make(chan weather.BatchResult, 1)
	locs := []weather.Location{{Name: "Oslo", RadiusKm: 100}, {Name: "Atlantis", RadiusKm: 100}}

	s := New(locs, time.Hour, newAggregator(), func(b weather.BatchResult) error {
		select {
		case batches <- b:
		default:
		}
		return nil
	}, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case b := <-batches:
		require.Len(t, b.Results, 1)
		assert.Equal(t, "Oslo", b.Results[0].Name)
		require.Len(t, b.Failures, 1)
		assert.Equal(t, "Atlantis", b.Failures[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled batch did not run")
	}
}

func TestSchedulerWithoutLocations(t *testing.T) {
	called := false
	s := New(nil, 0, newAggregator(), func(weather.BatchResult) error {
		called = true
		return nil
	}, nil)

	require.NoError(t, s.Start())
	s.Stop()

	assert.False(t, called)
	assert.Equal(t, defaultInterval, s.interval)
}

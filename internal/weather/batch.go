package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of locations processed in parallel.
const DefaultConcurrency = 5

// ErrTaskPanic marks a result whose pipeline panicked.
var ErrTaskPanic = errors.New("location task panicked")

// Aggregator runs a Pipeline over many locations with a fixed number of workers
// and orders the successful results by area average.
type Aggregator struct {
	pipeline    *Pipeline
	concurrency int
	logger      *slog.Logger
}

// NewAggregator creates an Aggregator. A concurrency below 1 uses DefaultConcurrency.
func NewAggregator(pipeline *Pipeline, concurrency int, logger *slog.Logger) *Aggregator {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		pipeline:    pipeline,
		concurrency: concurrency,
		logger:      logger,
	}
}

type task struct {
	index int
	loc   Location
}

// RunBatch processes every location and returns once all of them completed.
// Successful results are sorted ascending by AverageTempC, ties keeping input
// order; failed results are returned separately in input order.
func (a *Aggregator) RunBatch(ctx context.Context, locs []Location) BatchResult {
	batch := BatchResult{
		ID:       uuid.NewString(),
		Results:  []LocationResult{},
		Failures: []LocationResult{},
	}
	log := a.logger.With("batch_id", batch.ID)
	if len(locs) == 0 {
		log.Info("empty batch")
		return batch
	}

	workers := min(a.concurrency, len(locs))
	log.Info("batch started", "locations", len(locs), "workers", workers)
	start := time.Now()

	tasks := make(chan task)
	results := make(chan LocationResult, workers)

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			for t := range tasks {
				results <- a.runTask(ctx, t.index, t.loc)
			}
			return nil
		})
	}

	go func() {
		defer close(tasks)
		for i, loc := range locs {
			tasks <- task{index: i, loc: loc}
		}
	}()

	go func() {
		// workers never return an error
		_ = g.Wait()
		close(results)
	}()

	// Collected in completion order.
	for r := range results {
		if r.Failed() {
			batch.Failures = append(batch.Failures, r)
			continue
		}
		batch.Results = append(batch.Results, r)
	}

	sort.Slice(batch.Results, func(i, j int) bool {
		ai, aj := *batch.Results[i].AverageTempC, *batch.Results[j].AverageTempC
		if ai != aj {
			return ai < aj
		}
		return batch.Results[i].Index < batch.Results[j].Index
	})
	sort.Slice(batch.Failures, func(i, j int) bool {
		return batch.Failures[i].Index < batch.Failures[j].Index
	})

	log.Info("batch completed",
		"succeeded", len(batch.Results),
		"failed", len(batch.Failures),
		"duration", time.Since(start),
	)
	return batch
}

// RunSingle resolves one location. Unlike RunBatch, a missing temperature or
// average is returned as an error.
func (a *Aggregator) RunSingle(ctx context.Context, loc Location) (LocationResult, error) {
	res := a.runTask(ctx, 0, loc)
	if res.Failed() {
		return res, fmt.Errorf("%s: %s: %w", loc.Name, res.Reason(), res.Err)
	}
	return res, nil
}

// runTask runs the pipeline for one location and converts a panic into a failed result.
func (a *Aggregator) runTask(ctx context.Context, index int, loc Location) (res LocationResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("location task panicked", "location", loc.Name, "panic", r)
			res = LocationResult{
				Name:  loc.Name,
				Index: index,
				Err:   fmt.Errorf("%w: %v", ErrTaskPanic, r),
			}
		}
	}()

	if err := ctx.Err(); err != nil {
		return LocationResult{Name: loc.Name, Index: index, Err: err}
	}

	res = a.pipeline.Run(ctx, loc)
	res.Index = index
	return res
}

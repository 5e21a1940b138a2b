// Package forecaster assembles the historical series of a climate target and the predictions of
// its trained models into one monthly forecast table, computed once per target and cached for the
// life of the process.
package forecaster

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aouyang1/go-climate-forecaster/adapter"
	"github.com/aouyang1/go-climate-forecaster/horizon"
	"github.com/aouyang1/go-climate-forecaster/target"
	"github.com/aouyang1/go-climate-forecaster/timedataset"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// SeriesLoader loads the cleaned monthly history of a target
type SeriesLoader interface {
	LoadSeries(ctx context.Context, tgt target.Target) (*timedataset.TimeDataset, error)
}

// PredictorLoader loads the trained predictors of a target. Every predictor becomes one table
// column named by Predictor.Name.
type PredictorLoader interface {
	LoadPredictors(ctx context.Context, tgt target.Target) ([]adapter.Predictor, error)
}

// Forecaster owns the per target table cache. Concurrent callers for the same uncached target
// share a single computation while different targets never wait on each other. Failed
// computations are not cached.
type Forecaster struct {
	opt        *Options
	series     SeriesLoader
	predictors PredictorLoader

	mu     sync.RWMutex
	tables map[target.Target]*Table
	flight singleflight.Group

	// generation is bumped by every invalidation. A computation only stores its table when the
	// generation it started under is still current.
	generation map[target.Target]uint64
}

// New creates a Forecaster reading from the given loaders. If no options are provided, a default
// is used.
func New(series SeriesLoader, predictors PredictorLoader, opt *Options) (*Forecaster, error) {
	if series == nil {
		return nil, ErrNoSeriesLoader
	}
	if predictors == nil {
		return nil, ErrNoModelLoader
	}
	return &Forecaster{
		opt:        opt.validate(),
		series:     series,
		predictors: predictors,
		tables:     make(map[target.Target]*Table),
		generation: make(map[target.Target]uint64),
	}, nil
}

func (f *Forecaster) cached(tgt target.Target) (*Table, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	tbl, exists := f.tables[tgt]
	return tbl, exists
}

// cachedGeneration returns the cached table of tgt, if any, along with the current generation
func (f *Forecaster) cachedGeneration(tgt target.Target) (*Table, uint64, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	tbl, exists := f.tables[tgt]
	return tbl, f.generation[tgt], exists
}

// GetForecast returns the forecast table of tgt, assembling it on first use. Later calls return
// the same *Table. The assembly is detached from ctx cancellation since other callers may be
// waiting on it, but a canceled caller stops waiting and returns ctx.Err().
func (f *Forecaster) GetForecast(ctx context.Context, tgt target.Target) (*Table, error) {
	if !tgt.Valid() {
		return nil, &LoadError{Target: tgt, Err: target.ErrUnknownTarget}
	}
	if tbl, exists := f.cached(tgt); exists {
		cacheHits.WithLabelValues(string(tgt)).Inc()
		return tbl, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cacheMisses.WithLabelValues(string(tgt)).Inc()

	detached := context.WithoutCancel(ctx)
	ch := f.flight.DoChan(string(tgt), func() (any, error) {
		// another flight may have finished between the cache check and this call
		tbl, gen, exists := f.cachedGeneration(tgt)
		if exists {
			return tbl, nil
		}

		tbl, err := f.compute(detached, tgt)
		if err != nil {
			return nil, err
		}

		f.mu.Lock()
		if f.generation[tgt] == gen {
			f.tables[tgt] = tbl
		} else {
			slog.Info("discarding forecast invalidated during assembly", "target", tgt)
		}
		f.mu.Unlock()
		return tbl, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Table), nil
	}
}

// Invalidate drops the cached table of tgt so the next GetForecast recomputes it. A computation
// of tgt already in flight still answers its waiting callers but is not cached.
func (f *Forecaster) Invalidate(tgt target.Target) {
	f.mu.Lock()
	f.invalidate(tgt)
	f.mu.Unlock()
}

// InvalidateAll drops every cached table
func (f *Forecaster) InvalidateAll() {
	f.mu.Lock()
	for _, tgt := range target.All() {
		f.invalidate(tgt)
	}
	f.mu.Unlock()
}

// invalidate must be called with f.mu held
func (f *Forecaster) invalidate(tgt target.Target) {
	f.generation[tgt]++
	delete(f.tables, tgt)
	f.flight.Forget(string(tgt))
}

// Cached lists the targets with a cached table
func (f *Forecaster) Cached() []target.Target {
	f.mu.RLock()
	defer f.mu.RUnlock()

	res := make([]target.Target, 0, len(f.tables))
	for _, tgt := range target.All() {
		if _, exists := f.tables[tgt]; exists {
			res = append(res, tgt)
		}
	}
	return res
}

func (f *Forecaster) compute(ctx context.Context, tgt target.Target) (*Table, error) {
	start := time.Now()
	status := "success"
	defer func() {
		computeDuration.WithLabelValues(string(tgt), status).Observe(time.Since(start).Seconds())
	}()

	slog.Info("assembling forecast", "target", tgt)

	history, err := f.series.LoadSeries(ctx, tgt)
	if err == nil && history.Len() == 0 {
		err = timedataset.ErrNoTrainingData
	}
	if err != nil {
		status = "load_error"
		return nil, &LoadError{Target: tgt, Err: err}
	}

	last := history.T[len(history.T)-1]
	hz := horizon.Generate(last, f.opt.TerminalDate)

	predictors, err := f.predictors.LoadPredictors(ctx, tgt)
	if err != nil {
		status = "load_error"
		return nil, &LoadError{Target: tgt, Err: err}
	}

	preds, err := f.predict(ctx, tgt, predictors, history, hz)
	if err != nil {
		status = "prediction_error"
		return nil, err
	}

	names := make([]string, 0, len(predictors))
	for _, p := range predictors {
		names = append(names, p.Name())
	}
	tbl := newTable(tgt, history, hz, names, preds, f.opt.LookupDefault)

	slog.Info("assembled forecast",
		"target", tgt,
		"history_end", last.Format(time.DateOnly),
		"horizon", len(hz),
		"rows", tbl.Len(),
		"duration", time.Since(start),
	)
	return tbl, nil
}

// predict runs every predictor over the horizon, in parallel when configured
func (f *Forecaster) predict(ctx context.Context, tgt target.Target, predictors []adapter.Predictor, history *timedataset.TimeDataset, hz []time.Time) ([][]float64, error) {
	preds := make([][]float64, len(predictors))

	run := func(ctx context.Context, i int) error {
		p := predictors[i]
		if p == nil {
			return &PredictionError{Target: tgt, Model: fmt.Sprintf("predictor %d", i), Err: adapter.ErrMalformedPredictor}
		}
		res, err := p.Predict(ctx, history, hz)
		if err == nil && len(res) != len(hz) {
			err = fmt.Errorf("got %d values for %d months, %w", len(res), len(hz), adapter.ErrPredictionLenMismatch)
		}
		if err != nil {
			return &PredictionError{Target: tgt, Model: p.Name(), Err: err}
		}
		preds[i] = res
		return nil
	}

	if !f.opt.Concurrent {
		for i := range predictors {
			if err := run(ctx, i); err != nil {
				return nil, err
			}
		}
		return preds, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range predictors {
		g.Go(func() error {
			return run(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return preds, nil
}

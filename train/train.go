// Package train cleans the raw source observations of a target and fits the three forecast models
// on the cleaned monthly series
package train

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aouyang1/go-climate-forecaster/additive"
	"github.com/aouyang1/go-climate-forecaster/regression"
	"github.com/aouyang1/go-climate-forecaster/seasonal"
	"github.com/aouyang1/go-climate-forecaster/store"
	"github.com/aouyang1/go-climate-forecaster/target"
	"github.com/aouyang1/go-climate-forecaster/timedataset"
	"golang.org/x/sync/errgroup"
)

var ErrNoTargets = errors.New("no targets to train")

// RawReader reads the uncleaned source observations of a target
type RawReader interface {
	ReadRaw(ctx context.Context, tgt target.Target) ([]time.Time, []float64, error)
}

// Saver persists the cleaned series and trained models of a target
type Saver interface {
	SaveSeries(ctx context.Context, tgt target.Target, td *timedataset.TimeDataset) error
	SaveBundle(ctx context.Context, b *store.Bundle) error
}

// Options configures the SARIMA and additive models. Nil fields use each model's defaults.
type Options struct {
	SARIMA  *seasonal.Options `json:"sarima" mapstructure:"sarima"`
	Prophet *additive.Options `json:"prophet" mapstructure:"prophet"`
}

func NewDefaultOptions() *Options {
	return &Options{
		SARIMA:  seasonal.NewDefaultOptions(),
		Prophet: additive.NewDefaultOptions(),
	}
}

// Clean drops missing observations, averages them into calendar months, interpolates the months
// left empty in time and truncates everything before start when start is non-zero
func Clean(t []time.Time, y []float64, start time.Time) (*timedataset.TimeDataset, error) {
	td, err := timedataset.ResampleMonthlyMean(t, y)
	if err != nil {
		return nil, fmt.Errorf("unable to resample, %w", err)
	}
	td = td.Interpolate()
	if !start.IsZero() {
		td = td.Since(start)
	}
	if td.Len() == 0 {
		return nil, timedataset.ErrNoTrainingData
	}
	return td, nil
}

// Fit trains the three models on the cleaned series in parallel
func Fit(ctx context.Context, tgt target.Target, td *timedataset.TimeDataset, opt *Options) (*store.Bundle, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if td.Len() == 0 {
		return nil, timedataset.ErrNoTrainingData
	}

	b := &store.Bundle{
		Target:    tgt,
		TrainedAt: time.Now().UTC().Truncate(time.Second),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		reg := regression.New()
		if err := reg.Fit(td.T, td.Y); err != nil {
			return fmt.Errorf("unable to fit regression, %w", err)
		}
		m, err := reg.Model()
		if err != nil {
			return err
		}
		b.Regression = m
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		sarima, err := seasonal.New(opt.SARIMA)
		if err != nil {
			return err
		}
		if err := sarima.Fit(td.T, td.Y); err != nil {
			return fmt.Errorf("unable to fit sarima, %w", err)
		}
		m, err := sarima.Model()
		if err != nil {
			return err
		}
		b.SARIMA = m
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		prophet, err := additive.New(opt.Prophet)
		if err != nil {
			return err
		}
		if err := prophet.Fit(td.T, td.Y); err != nil {
			return fmt.Errorf("unable to fit prophet, %w", err)
		}
		m, err := prophet.Model()
		if err != nil {
			return err
		}
		b.Prophet = m
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("unable to train %s, %w", tgt, err)
	}
	return b, nil
}

// Run reads, cleans, fits and saves every target in order. The first failure stops the run.
func Run(ctx context.Context, raw RawReader, dst Saver, opt *Options, targets ...target.Target) error {
	if len(targets) == 0 {
		return ErrNoTargets
	}

	for _, tgt := range targets {
		info, err := tgt.Info()
		if err != nil {
			return err
		}
		start := time.Now()
		slog.Info("training target", "target", tgt)

		t, y, err := raw.ReadRaw(ctx, tgt)
		if err != nil {
			return fmt.Errorf("unable to read raw %s data, %w", tgt, err)
		}
		td, err := Clean(t, y, info.TrainStart)
		if err != nil {
			return fmt.Errorf("unable to clean %s data, %w", tgt, err)
		}
		slog.Info("cleaned series",
			"target", tgt,
			"raw", len(t),
			"months", td.Len(),
			"start", td.T[0].Format(time.DateOnly),
			"end", td.T[len(td.T)-1].Format(time.DateOnly),
		)
		if err := dst.SaveSeries(ctx, tgt, td); err != nil {
			return err
		}

		b, err := Fit(ctx, tgt, td, opt)
		if err != nil {
			return err
		}
		if err := dst.SaveBundle(ctx, b); err != nil {
			return err
		}

		attrs := []any{"target", tgt, "duration", time.Since(start)}
		if sc := b.Regression.Scores; sc != nil {
			attrs = append(attrs, "regression_mape", sc.MAPE)
		}
		if sc := b.SARIMA.Scores; sc != nil {
			attrs = append(attrs, "sarima_mape", sc.MAPE)
		}
		if sc := b.Prophet.Scores; sc != nil {
			attrs = append(attrs, "prophet_mape", sc.MAPE)
		}
		slog.Info("trained target", attrs...)
	}
	return nil
}

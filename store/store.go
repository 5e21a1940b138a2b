// Package store persists the cleaned monthly series and the trained models of every target and
// serves them back to the forecaster by target key
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-climate-forecaster/adapter"
	"github.com/aouyang1/go-climate-forecaster/target"
	"github.com/aouyang1/go-climate-forecaster/timedataset"
)

var (
	ErrSeriesNotFound  = errors.New("series not found")
	ErrModelNotFound   = errors.New("model not found")
	ErrColumnNotFound  = errors.New("column not found")
	ErrMalformedRow    = errors.New("malformed csv row")
	ErrUnknownBackend  = errors.New("unknown store backend")
	ErrNoBadgerPath    = errors.New("badger path is required for a persistent store")
	ErrTargetMismatch  = errors.New("bundle target does not match requested target")
	ErrUntrainedBundle = errors.New("bundle is missing a trained model")
)

// Supported backends
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Store loads and saves the series and models of every target
type Store interface {
	LoadSeries(ctx context.Context, tgt target.Target) (*timedataset.TimeDataset, error)
	LoadPredictors(ctx context.Context, tgt target.Target) ([]adapter.Predictor, error)
	LoadBundle(ctx context.Context, tgt target.Target) (*Bundle, error)
	SaveSeries(ctx context.Context, tgt target.Target, td *timedataset.TimeDataset) error
	SaveBundle(ctx context.Context, b *Bundle) error
	Close() error
}

// Config selects and configures a backend
type Config struct {
	Backend string

	// ModelDir holds the cleaned series and model artifacts of the file backend
	ModelDir string

	// Compress snappy encodes model artifacts of the file backend
	Compress bool

	Badger BadgerConfig
}

// Open returns the backend named by cfg.Backend. An empty backend is the file store.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		slog.Debug("opening file store", "model_dir", cfg.ModelDir, "compress", cfg.Compress)
		return NewFileStore(cfg.ModelDir, cfg.Compress), nil
	case BackendBadger:
		slog.Debug("opening badger store", "path", cfg.Badger.Path, "in_memory", cfg.Badger.InMemory)
		return OpenBadger(cfg.Badger)
	}
	return nil, fmt.Errorf("%q, %w", cfg.Backend, ErrUnknownBackend)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aouyang1/go-climate-forecaster/adapter"
	"github.com/aouyang1/go-climate-forecaster/target"
	"github.com/aouyang1/go-climate-forecaster/timedataset"
	"github.com/dgraph-io/badger/v4"
)

// BadgerConfig configures the embedded badger backend
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in memory
	InMemory bool

	SyncWrites bool

	// Logger receives badger's internal logs. Nil disables them.
	Logger *slog.Logger
}

func DefaultBadgerConfig(path string) BadgerConfig {
	return BadgerConfig{
		Path:       path,
		SyncWrites: true,
	}
}

func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{InMemory: true}
}

// badgerLogger adapts slog.Logger to badger's Logger interface
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// BadgerStore keeps series and model artifacts as snappy compressed values in an embedded badger
// database keyed by series/<target> and model/<target>/<kind>
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens or creates the database described by cfg
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, ErrNoBadgerPath
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("unable to create %s, %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("unable to open badger database, %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func seriesKey(tgt target.Target) []byte {
	return []byte("series/" + string(tgt))
}

func modelKey(tgt target.Target, kind Kind) []byte {
	return []byte("model/" + string(tgt) + "/" + string(kind))
}

func (s *BadgerStore) get(key []byte, notFound error) ([]byte, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s, %w", key, notFound)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read %s, %w", key, err)
	}
	return val, nil
}

// LoadSeries reads the cleaned monthly history of the target
func (s *BadgerStore) LoadSeries(ctx context.Context, tgt target.Target) (*timedataset.TimeDataset, error) {
	info, err := tgt.Info()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	val, err := s.get(seriesKey(tgt), ErrSeriesNotFound)
	if err != nil {
		return nil, err
	}
	var raw string
	if err := decode(val, true, &raw); err != nil {
		return nil, err
	}
	td, err := readSeries(strings.NewReader(raw), info.DateColumn, info.ValueColumn)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s series, %w", tgt, err)
	}
	return td, nil
}

// SaveSeries stores the cleaned history of the target
func (s *BadgerStore) SaveSeries(ctx context.Context, tgt target.Target, td *timedataset.TimeDataset) error {
	info, err := tgt.Info()
	if err != nil {
		return err
	}

	var sb strings.Builder
	if err := writeSeries(&sb, info.DateColumn, info.ValueColumn, td); err != nil {
		return fmt.Errorf("unable to encode %s series, %w", tgt, err)
	}
	val, err := encode(sb.String(), true)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(seriesKey(tgt), val)
	}); err != nil {
		return fmt.Errorf("unable to save %s series, %w", tgt, err)
	}
	slog.Info("saved series", "target", tgt, "months", td.Len())
	return nil
}

// LoadBundle reads the three model artifacts of the target
func (s *BadgerStore) LoadBundle(ctx context.Context, tgt target.Target) (*Bundle, error) {
	if !tgt.Valid() {
		return nil, fmt.Errorf("%q, %w", string(tgt), target.ErrUnknownTarget)
	}

	b := &Bundle{Target: tgt}
	for _, kind := range Kinds() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		val, err := s.get(modelKey(tgt, kind), ErrModelNotFound)
		if err != nil {
			return nil, err
		}
		if err := b.decode(kind, val, true); err != nil {
			return nil, fmt.Errorf("unable to load %s %s, %w", tgt, kind, err)
		}
	}
	return b, nil
}

// SaveBundle stores the three model artifacts of the bundle's target in one transaction
func (s *BadgerStore) SaveBundle(ctx context.Context, b *Bundle) error {
	if b == nil {
		return ErrUntrainedBundle
	}
	if !b.Target.Valid() {
		return fmt.Errorf("%q, %w", string(b.Target), target.ErrUnknownTarget)
	}

	vals := make(map[Kind][]byte, len(Kinds()))
	for _, kind := range Kinds() {
		val, err := b.encode(kind, true)
		if err != nil {
			return fmt.Errorf("unable to encode %s %s, %w", b.Target, kind, err)
		}
		vals[kind] = val
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for kind, val := range vals {
			if err := txn.Set(modelKey(b.Target, kind), val); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to save %s models, %w", b.Target, err)
	}
	slog.Info("saved models", "target", b.Target)
	return nil
}

// LoadPredictors restores the target's models as forecast predictors
func (s *BadgerStore) LoadPredictors(ctx context.Context, tgt target.Target) ([]adapter.Predictor, error) {
	b, err := s.LoadBundle(ctx, tgt)
	if err != nil {
		return nil, err
	}
	return b.Predictors()
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

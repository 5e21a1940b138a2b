package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aouyang1/go-climate-forecaster/adapter"
	"github.com/aouyang1/go-climate-forecaster/target"
	"github.com/aouyang1/go-climate-forecaster/timedataset"
)

const (
	jsonExt   = ".json"
	snappyExt = ".sz"
)

// FileStore keeps every target's cleaned series as csv and each model as a json artifact in one
// directory
type FileStore struct {
	dir      string
	compress bool
}

// NewFileStore creates a store rooted at dir. When compress is set saved artifacts are snappy
// encoded with a .json.sz extension. Loading accepts either form.
func NewFileStore(dir string, compress bool) *FileStore {
	return &FileStore{dir: dir, compress: compress}
}

func (f *FileStore) seriesPath(info target.Info) string {
	return filepath.Join(f.dir, info.DataFile)
}

func (f *FileStore) modelPath(info target.Info, kind Kind, compressed bool) string {
	name := info.ModelPrefix + "_" + string(kind) + jsonExt
	if compressed {
		name += snappyExt
	}
	return filepath.Join(f.dir, name)
}

// LoadSeries reads the cleaned monthly history of the target
func (f *FileStore) LoadSeries(ctx context.Context, tgt target.Target) (*timedataset.TimeDataset, error) {
	info, err := tgt.Info()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := f.seriesPath(info)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s, %w", path, ErrSeriesNotFound)
		}
		return nil, fmt.Errorf("unable to open %s, %w", path, err)
	}
	defer file.Close()

	td, err := readSeries(file, info.DateColumn, info.ValueColumn)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s, %w", path, err)
	}
	return td, nil
}

// SaveSeries writes the cleaned history of the target, replacing any previous file
func (f *FileStore) SaveSeries(ctx context.Context, tgt target.Target, td *timedataset.TimeDataset) error {
	info, err := tgt.Info()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("unable to create %s, %w", f.dir, err)
	}

	var sb strings.Builder
	if err := writeSeries(&sb, info.DateColumn, info.ValueColumn, td); err != nil {
		return fmt.Errorf("unable to encode %s series, %w", tgt, err)
	}
	path := f.seriesPath(info)
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("unable to write %s, %w", path, err)
	}
	slog.Info("saved series", "target", tgt, "path", path, "months", td.Len())
	return nil
}

// LoadBundle reads the three model artifacts of the target
func (f *FileStore) LoadBundle(ctx context.Context, tgt target.Target) (*Bundle, error) {
	info, err := tgt.Info()
	if err != nil {
		return nil, err
	}

	b := &Bundle{Target: tgt}
	for _, kind := range Kinds() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, compressed, path, err := f.readArtifact(info, kind)
		if err != nil {
			return nil, err
		}
		if err := b.decode(kind, data, compressed); err != nil {
			return nil, fmt.Errorf("unable to load %s, %w", path, err)
		}
	}
	return b, nil
}

func (f *FileStore) readArtifact(info target.Info, kind Kind) ([]byte, bool, string, error) {
	for _, compressed := range []bool{f.compress, !f.compress} {
		path := f.modelPath(info, kind, compressed)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, compressed, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, false, path, fmt.Errorf("unable to read %s, %w", path, err)
		}
	}
	return nil, false, "", fmt.Errorf("%s %s, %w", info.ModelPrefix, kind, ErrModelNotFound)
}

// SaveBundle writes the three model artifacts of the bundle's target
func (f *FileStore) SaveBundle(ctx context.Context, b *Bundle) error {
	if b == nil {
		return ErrUntrainedBundle
	}
	info, err := b.Target.Info()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("unable to create %s, %w", f.dir, err)
	}

	for _, kind := range Kinds() {
		data, err := b.encode(kind, f.compress)
		if err != nil {
			return fmt.Errorf("unable to encode %s %s, %w", b.Target, kind, err)
		}
		path := f.modelPath(info, kind, f.compress)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("unable to write %s, %w", path, err)
		}
		// a stale artifact in the other encoding would shadow this one on load
		stale := f.modelPath(info, kind, !f.compress)
		if err := os.Remove(stale); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("unable to remove %s, %w", stale, err)
		}
	}
	slog.Info("saved models", "target", b.Target, "dir", f.dir, "compress", f.compress)
	return nil
}

// LoadPredictors restores the target's models as forecast predictors
func (f *FileStore) LoadPredictors(ctx context.Context, tgt target.Target) ([]adapter.Predictor, error) {
	b, err := f.LoadBundle(ctx, tgt)
	if err != nil {
		return nil, err
	}
	return b.Predictors()
}

func (f *FileStore) Close() error {
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aouyang1/go-climate-forecaster/target"
)

// RawReader reads the uncleaned source observations of a target for training
type RawReader struct {
	dir string
}

func NewRawReader(dir string) *RawReader {
	return &RawReader{dir: dir}
}

// ReadRaw returns the observations of the target's source file in file order. Unparseable values
// are returned as NaN so cleaning can drop them.
func (r *RawReader) ReadRaw(ctx context.Context, tgt target.Target) ([]time.Time, []float64, error) {
	info, err := tgt.Info()
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	path := filepath.Join(r.dir, info.RawFile)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%s, %w", path, ErrSeriesNotFound)
		}
		return nil, nil, fmt.Errorf("unable to open %s, %w", path, err)
	}
	defer file.Close()

	names := []string{info.ValueColumn, info.RawDateColumn}
	if info.RawDateColumn == "" {
		names = []string{info.ValueColumn, info.RawYearColumn, info.RawMonthColumn}
	}
	cols, err := csvColumns(file, names...)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read %s, %w", path, err)
	}

	t := make([]time.Time, 0, len(cols[0]))
	y := make([]float64, 0, len(cols[0]))
	for i := range cols[0] {
		var date time.Time
		if info.RawDateColumn != "" {
			date, err = parseDate(cols[1][i])
		} else {
			date, err = yearMonth(cols[1][i], cols[2][i])
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%s row %d, %w", path, i+1, err)
		}

		v, err := parseValue(cols[0][i])
		if err != nil {
			v = math.NaN()
		}
		t = append(t, date)
		y = append(y, v)
	}
	return t, y, nil
}

func yearMonth(year, month string) (time.Time, error) {
	yr, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return time.Time{}, fmt.Errorf("year %q, %w", year, ErrMalformedRow)
	}
	mo, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || mo < 1 || mo > 12 {
		return time.Time{}, fmt.Errorf("month %q, %w", month, ErrMalformedRow)
	}
	return time.Date(yr, time.Month(mo), 1, 0, 0, 0, 0, time.UTC), nil
}

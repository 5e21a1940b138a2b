package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aouyang1/go-climate-forecaster/timedataset"
)

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q, %w", s, ErrMalformedRow)
}

// parseValue treats an empty cell as a missing observation
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q, %w", s, ErrMalformedRow)
	}
	return v, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, col := range header {
		if strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%q, %w", name, ErrColumnNotFound)
}

// csvColumns reads the named columns of every row. Rows shorter than the header are malformed.
func csvColumns(r io.Reader, names ...string) ([][]string, error) {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = -1

	header, err := rd.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header, %w", ErrMalformedRow)
		}
		return nil, fmt.Errorf("unable to read header, %w", err)
	}
	idx := make([]int, len(names))
	for i, name := range names {
		if idx[i], err = columnIndex(header, name); err != nil {
			return nil, err
		}
	}

	cols := make([][]string, len(names))
	for line := 2; ; line++ {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read line %d, %w", line, err)
		}
		for i, j := range idx {
			if j >= len(rec) {
				return nil, fmt.Errorf("line %d has %d fields, %w", line, len(rec), ErrMalformedRow)
			}
			cols[i] = append(cols[i], rec[j])
		}
	}
	return cols, nil
}

// readSeries parses a cleaned monthly series of dateCol and valueCol into a month-end dataset
func readSeries(r io.Reader, dateCol, valueCol string) (*timedataset.TimeDataset, error) {
	cols, err := csvColumns(r, dateCol, valueCol)
	if err != nil {
		return nil, err
	}

	t := make([]time.Time, 0, len(cols[0]))
	y := make([]float64, 0, len(cols[1]))
	for i := range cols[0] {
		date, err := parseDate(cols[0][i])
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", i+1, err)
		}
		v, err := parseValue(cols[1][i])
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", i+1, err)
		}
		t = append(t, date)
		y = append(y, v)
	}
	return timedataset.NewMonthlyDataset(t, y)
}

// writeSeries writes the dataset as a two column csv with empty cells for NaN values
func writeSeries(w io.Writer, dateCol, valueCol string, td *timedataset.TimeDataset) error {
	wr := csv.NewWriter(w)
	if err := wr.Write([]string{dateCol, valueCol}); err != nil {
		return err
	}
	for i, t := range td.T {
		val := ""
		if !math.IsNaN(td.Y[i]) {
			val = strconv.FormatFloat(td.Y[i], 'f', -1, 64)
		}
		if err := wr.Write([]string{t.Format(time.DateOnly), val}); err != nil {
			return err
		}
	}
	wr.Flush()
	return wr.Error()
}

package store

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/aouyang1/go-climate-forecaster/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSeries(t *testing.T) {
	testData := map[string]struct {
		input   string
		expectT []time.Time
		expectY []float64
		err     error
	}{
		"month ends": {
			"Date,Carbon Dioxide (ppm)\n2020-01-31,413.4\n2020-02-29,414.1\n",
			[]time.Time{
				time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
				time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC),
			},
			[]float64{413.4, 414.1},
			nil,
		},
		"gap and missing value": {
			"\ufeffDate,Carbon Dioxide (ppm)\n2020-01-01,413.4\n2020-02-01,\n2020-04-01 00:00:00,416\n",
			[]time.Time{
				time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
				time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC),
				time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC),
				time.Date(2020, 4, 30, 0, 0, 0, 0, time.UTC),
			},
			[]float64{413.4, math.NaN(), math.NaN(), 416},
			nil,
		},
		"missing column": {
			"Date,Value\n2020-01-31,1\n",
			nil, nil, ErrColumnNotFound,
		},
		"bad date": {
			"Date,Carbon Dioxide (ppm)\nJan 2020,1\n",
			nil, nil, ErrMalformedRow,
		},
		"bad value": {
			"Date,Carbon Dioxide (ppm)\n2020-01-31,abc\n",
			nil, nil, ErrMalformedRow,
		},
		"short row": {
			"Date,Carbon Dioxide (ppm)\n2020-01-31\n",
			nil, nil, ErrMalformedRow,
		},
		"no header": {
			"",
			nil, nil, ErrMalformedRow,
		},
		"no rows": {
			"Date,Carbon Dioxide (ppm)\n",
			nil, nil, timedataset.ErrNoTrainingData,
		},
		"duplicate month": {
			"Date,Carbon Dioxide (ppm)\n2020-01-01,1\n2020-01-31,2\n",
			nil, nil, timedataset.ErrDuplicateMonth,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := readSeries(strings.NewReader(td.input), "Date", "Carbon Dioxide (ppm)")
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expectT, res.T)
			require.Len(t, res.Y, len(td.expectY))
			for i, v := range td.expectY {
				if math.IsNaN(v) {
					assert.True(t, math.IsNaN(res.Y[i]))
					continue
				}
				assert.Equal(t, v, res.Y[i])
			}
		})
	}
}

func TestWriteSeries(t *testing.T) {
	td := &timedataset.TimeDataset{
		T: []time.Time{
			time.Date(1960, 1, 31, 0, 0, 0, 0, time.UTC),
			time.Date(1960, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		Y: []float64{2.835, math.NaN()},
	}

	var sb strings.Builder
	require.Nil(t, writeSeries(&sb, "dt", "LandAverageTemperature", td))
	assert.Equal(t, "dt,LandAverageTemperature\n1960-01-31,2.835\n1960-02-29,\n", sb.String())

	res, err := readSeries(strings.NewReader(sb.String()), "dt", "LandAverageTemperature")
	require.Nil(t, err)
	assert.Equal(t, td.T, res.T)
	assert.Equal(t, 2.835, res.Y[0])
	assert.True(t, math.IsNaN(res.Y[1]))
}

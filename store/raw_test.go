package store

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aouyang1/go-climate-forecaster/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRaw(t *testing.T) {
	dir := t.TempDir()
	co2 := "Year,Month,Decimal Date,Carbon Dioxide (ppm),Seasonally Adjusted CO2 (ppm)\n" +
		"1958,3,1958.208,315.71,314.44\n" +
		"1958,4,1958.292,,315.16\n" +
		"1958,5,1958.375,317.51,314.71\n"
	temp := "dt,LandAverageTemperature,LandAverageTemperatureUncertainty\n" +
		"1750-01-01,3.034,3.574\n" +
		"1750-02-01,n/a,3.702\n"
	require.Nil(t, os.WriteFile(filepath.Join(dir, "archive.csv"), []byte(co2), 0o644))
	require.Nil(t, os.WriteFile(filepath.Join(dir, "GlobalTemperatures.csv"), []byte(temp), 0o644))

	rd := NewRawReader(dir)
	ctx := context.Background()

	tSeries, y, err := rd.ReadRaw(ctx, target.CO2)
	require.Nil(t, err)
	assert.Equal(t, []time.Time{
		time.Date(1958, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1958, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1958, 5, 1, 0, 0, 0, 0, time.UTC),
	}, tSeries)
	require.Len(t, y, 3)
	assert.Equal(t, 315.71, y[0])
	assert.True(t, math.IsNaN(y[1]))
	assert.Equal(t, 317.51, y[2])

	tSeries, y, err = rd.ReadRaw(ctx, target.Temperature)
	require.Nil(t, err)
	require.Len(t, tSeries, 2)
	assert.Equal(t, time.Date(1750, 1, 1, 0, 0, 0, 0, time.UTC), tSeries[0])
	assert.Equal(t, 3.034, y[0])
	assert.True(t, math.IsNaN(y[1]))

	_, _, err = NewRawReader(t.TempDir()).ReadRaw(ctx, target.CO2)
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}

func TestReadRawMalformed(t *testing.T) {
	testData := map[string]struct {
		input string
		err   error
	}{
		"bad month": {
			"Year,Month,Carbon Dioxide (ppm)\n1958,13,315.71\n",
			ErrMalformedRow,
		},
		"bad year": {
			"Year,Month,Carbon Dioxide (ppm)\nabc,3,315.71\n",
			ErrMalformedRow,
		},
		"missing value column": {
			"Year,Month,CO2\n1958,3,315.71\n",
			ErrColumnNotFound,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.Nil(t, os.WriteFile(filepath.Join(dir, "archive.csv"), []byte(td.input), 0o644))

			_, _, err := NewRawReader(dir).ReadRaw(context.Background(), target.CO2)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

package timedataset

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMonthlyT(t *testing.T) {
	res := GenerateMonthlyT(time.Date(1970, 1, 15, 0, 0, 0, 0, time.UTC), 14)
	assert.Len(t, res, 14)
	assert.Equal(t, time.Date(1970, 1, 31, 0, 0, 0, 0, time.UTC), res[0])
	assert.Equal(t, time.Date(1971, 2, 28, 0, 0, 0, 0, time.UTC), res[13])
	assert.True(t, TimeSlice(res).IsMonthly())
}

func TestSeries(t *testing.T) {
	numPnts := 4
	s := Series(GenerateConstY(numPnts, 1))

	res := s.Add(GenerateTrendY(numPnts, 2))
	require.Equal(t, Series([]float64{1, 3, 5, 7}), res)

	tSeries := GenerateMonthlyT(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), numPnts)
	s.SetNaN(tSeries, tSeries[1], tSeries[3])
	td := &TimeDataset{T: tSeries, Y: s}
	assert.Equal(t, []float64{1, 7}, td.DropNaN().Y)

	seas := GenerateSeasonalY(GenerateMonthlyT(tSeries[0], 24), 2.0, 12, 0)
	for i := 0; i < 12; i++ {
		assert.InDelta(t, seas[i], seas[i+12], 1e-9)
	}

	noise := GenerateNoise(100, 0.1, rand.New(rand.NewPCG(1, 2)))
	assert.Len(t, noise, 100)
}

package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrowthGenerate(t *testing.T) {
	scaled := []float64{0, 0.25, 0.5, 1.0}
	assert.Equal(t, []float64{1, 1, 1, 1}, Intercept().Generate(scaled))
	assert.Equal(t, scaled, Linear().Generate(scaled))
}

func TestChangepointGenerate(t *testing.T) {
	c := NewChangepoint("3", 0.5)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0.25, 0.5}, c.Generate([]float64{0, 0.25, 0.5, 0.75, 1.0}), 1e-12)
}

func TestSeasonalityGenerate(t *testing.T) {
	tFeat := []float64{0, 91.3125, 182.625, 273.9375}
	sin := NewSeasonality("yearly", FourierCompSin, 1).Generate(tFeat, 365.25)
	cos := NewSeasonality("yearly", FourierCompCos, 1).Generate(tFeat, 365.25)
	assert.InDeltaSlice(t, []float64{0, 1, 0, -1}, sin, 1e-9)
	assert.InDeltaSlice(t, []float64{1, 0, -1, 0}, cos, 1e-9)
}

func TestGet(t *testing.T) {
	testData := map[string]struct {
		f        Feature
		label    string
		expected string
		exists   bool
	}{
		"calendar name": {
			NewCalendar(CalendarYear),
			"name",
			"year",
			true,
		},
		"calendar missing": {
			NewCalendar(CalendarYear),
			"order",
			"",
			false,
		},
		"growth name": {
			Linear(),
			"Name",
			"linear",
			true,
		},
		"changepoint position": {
			NewChangepoint("0", 0.08),
			"position",
			"0.08",
			true,
		},
		"seasonality order": {
			NewSeasonality("yearly", FourierCompCos, 3),
			"order",
			"3",
			true,
		},
		"seasonality component": {
			NewSeasonality("yearly", FourierCompCos, 3),
			"fourier_component",
			"cos",
			true,
		},
		"seasonality bad label": {
			NewSeasonality("yearly", FourierCompCos, 3),
			"position",
			"",
			false,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			val, exists := td.f.Get(td.label)
			assert.Equal(t, td.exists, exists)
			assert.Equal(t, td.expected, val)
		})
	}
}

func TestDecode(t *testing.T) {
	testData := map[string]struct {
		f Feature
	}{
		"calendar":    {NewCalendar(CalendarMonthSquare)},
		"growth":      {Intercept()},
		"changepoint": {NewChangepoint("4", 0.32)},
		"seasonality": {NewSeasonality("yearly", FourierCompSin, 10)},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ft, labels := Encode(td.f)
			f, err := Decode(ft, labels)
			require.Nil(t, err)
			assert.Equal(t, td.f, f)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(FeatureType("event"), nil)
	assert.ErrorIs(t, err, ErrUnknownFeatureType)

	_, err = Decode(FeatureTypeChangepoint, map[string]string{"name": "1", "position": "abc"})
	assert.NotNil(t, err)

	_, err = Decode(FeatureTypeSeasonality, map[string]string{"name": "yearly", "order": "x"})
	assert.NotNil(t, err)
}

func TestSetMatrix(t *testing.T) {
	s := make(Set)
	s.Add(Linear(), []float64{0, 0.5, 1})
	s.Add(Intercept(), []float64{1, 1, 1})
	s.Add(NewChangepoint("0", 0.5), []float64{0, 0, 0.5})

	labels := s.Labels()
	require.Equal(t, 3, labels.Len())

	names := make([]string, 0, labels.Len())
	for _, l := range labels.Labels() {
		names = append(names, l.String())
	}
	assert.Equal(t, []string{"chpnt_0", "growth_intercept", "growth_linear"}, names)

	idx, exists := labels.Index(Linear())
	assert.True(t, exists)
	assert.Equal(t, 2, idx)

	_, exists = labels.Index(NewCalendar(CalendarYear))
	assert.False(t, exists)

	x := s.Matrix(labels)
	m, n := x.Dims()
	assert.Equal(t, 3, m)
	assert.Equal(t, 3, n)
	assert.Equal(t, []float64{0.5, 1, 1}, x.RawRowView(2))

	var empty Set
	assert.Nil(t, empty.Matrix(labels))
	assert.Nil(t, empty.Labels())

	var nilLabels *Labels
	assert.Equal(t, 0, nilLabels.Len())
	assert.Nil(t, nilLabels.Labels())
}

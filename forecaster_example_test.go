package forecaster

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/aouyang1/go-climate-forecaster/adapter"
	"github.com/aouyang1/go-climate-forecaster/additive"
	"github.com/aouyang1/go-climate-forecaster/regression"
	"github.com/aouyang1/go-climate-forecaster/seasonal"
	"github.com/aouyang1/go-climate-forecaster/target"
	"github.com/aouyang1/go-climate-forecaster/timedataset"
)

// staticLoader serves one fixed history and predictor set for every target
type staticLoader struct {
	history    *timedataset.TimeDataset
	predictors []adapter.Predictor
}

func (s *staticLoader) LoadSeries(ctx context.Context, tgt target.Target) (*timedataset.TimeDataset, error) {
	return s.history.Copy(), nil
}

func (s *staticLoader) LoadPredictors(ctx context.Context, tgt target.Target) ([]adapter.Predictor, error) {
	return s.predictors, nil
}

// generateExampleCO2 resembles the monthly Mauna Loa record with a quadratic rise and a yearly cycle
func generateExampleCO2() *timedataset.TimeDataset {
	n := 34 * 12
	t := timedataset.GenerateMonthlyT(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), n)

	rng := rand.New(rand.NewPCG(1, 2))
	y := timedataset.GenerateConstY(n, 354).
		Add(timedataset.GenerateTrendY(n, 0.12)).
		Add(timedataset.GenerateSeasonalY(t, 3.0, 12, 2)).
		Add(timedataset.GenerateNoise(n, 0.3, rng))
	for i := range y {
		y[i] += 0.00012 * float64(i*i)
	}

	td, err := timedataset.NewMonthlyDataset(t, y)
	if err != nil {
		panic(err)
	}
	return td
}

func trainExampleLoader(td *timedataset.TimeDataset) (*staticLoader, error) {
	reg := regression.New()
	if err := reg.Fit(td.T, td.Y); err != nil {
		return nil, err
	}

	sarima, err := seasonal.New(nil)
	if err != nil {
		return nil, err
	}
	if err := sarima.Fit(td.T, td.Y); err != nil {
		return nil, err
	}

	prophet, err := additive.New(nil)
	if err != nil {
		return nil, err
	}
	if err := prophet.Fit(td.T, td.Y); err != nil {
		return nil, err
	}

	return &staticLoader{
		history: td,
		predictors: []adapter.Predictor{
			adapter.NewLinearRegression(reg),
			adapter.NewSARIMA(sarima),
			adapter.NewProphet(prophet),
		},
	}, nil
}

func Example_forecastTable() {
	loader, err := trainExampleLoader(generateExampleCO2())
	if err != nil {
		panic(err)
	}

	f, err := New(loader, loader, nil)
	if err != nil {
		panic(err)
	}
	tbl, err := f.GetForecast(context.Background(), target.CO2)
	if err != nil {
		panic(err)
	}

	fmt.Println(tbl.Len())
	fmt.Println(tbl.Columns())
	fmt.Println(tbl.HistoryEnd().Format(time.DateOnly))

	row, err := tbl.Row(time.Date(2050, 12, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	fmt.Println(row[adapter.NameSARIMA] > 400, row[adapter.NameProphet] > 400)

	if err := os.MkdirAll("examples", os.ModePerm); err != nil {
		panic(err)
	}
	file, err := os.Create("examples/co2_forecast.html")
	if err != nil {
		panic(err)
	}
	defer file.Close()
	if err := tbl.Plot(file); err != nil {
		panic(err)
	}
	// Output:
	// 732
	// [Historical Linear Regression SARIMA Prophet]
	// 2023-12-31
	// true true
}

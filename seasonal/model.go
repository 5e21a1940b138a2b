package seasonal

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-climate-forecaster/stats"
	"github.com/aouyang1/go-climate-forecaster/util"
)

// Model represents a serializeable format of a trained SARIMA including the state needed to
// continue the forecast recursion from the end of training
type Model struct {
	TrainEndTime time.Time     `json:"train_end_time"`
	Options      *Options      `json:"options"`
	Scores       *stats.Scores `json:"scores"`

	ARLags []int     `json:"ar_lags"`
	ARCoef []float64 `json:"ar_coefficients"`
	MALags []int     `json:"ma_lags"`
	MACoef []float64 `json:"ma_coefficients"`
	Mean   float64   `json:"mean"`
	Sigma  float64   `json:"sigma"`

	DiffLags     []int       `json:"diff_lags"`
	Tails        [][]float64 `json:"tails"`
	Recent       []float64   `json:"recent"`
	RecentErrors []float64   `json:"recent_errors"`
}

// Model returns the serializable form of a trained SARIMA
func (s *SARIMA) Model() (Model, error) {
	if s == nil {
		return Model{}, ErrUninitializedSARIMA
	}
	if !s.trained {
		return Model{}, ErrUntrainedSARIMA
	}
	tails := make([][]float64, 0, len(s.tails))
	for _, tail := range s.tails {
		tails = append(tails, append([]float64(nil), tail...))
	}
	opt := *s.opt
	return Model{
		TrainEndTime: s.trainEndTime,
		Options:      &opt,
		Scores:       s.Scores(),
		ARLags:       append([]int(nil), s.arLags...),
		ARCoef:       append([]float64(nil), s.arCoef...),
		MALags:       append([]int(nil), s.maLags...),
		MACoef:       append([]float64(nil), s.maCoef...),
		Mean:         s.mean,
		Sigma:        s.sigma,
		DiffLags:     append([]int(nil), s.diffLags...),
		Tails:        tails,
		Recent:       append([]float64(nil), s.recent...),
		RecentErrors: append([]float64(nil), s.recentErrors...),
	}, nil
}

// NewFromModel creates a SARIMA from a serialized model which can forecast immediately
func NewFromModel(model Model) (*SARIMA, error) {
	opt, err := model.Options.Validate()
	if err != nil {
		return nil, err
	}
	if len(model.ARLags) != len(model.ARCoef) {
		return nil, fmt.Errorf("%d ar lags for %d coefficients, %w", len(model.ARLags), len(model.ARCoef), ErrInvalidModel)
	}
	if len(model.MALags) != len(model.MACoef) {
		return nil, fmt.Errorf("%d ma lags for %d coefficients, %w", len(model.MALags), len(model.MACoef), ErrInvalidModel)
	}
	if len(model.DiffLags) != len(model.Tails) {
		return nil, fmt.Errorf("%d differencing passes for %d tails, %w", len(model.DiffLags), len(model.Tails), ErrInvalidModel)
	}
	for k, lag := range model.DiffLags {
		if lag <= 0 || len(model.Tails[k]) != lag {
			return nil, fmt.Errorf("tail %d has %d values for lag %d, %w", k, len(model.Tails[k]), lag, ErrInvalidModel)
		}
	}
	if model.TrainEndTime.IsZero() {
		return nil, fmt.Errorf("missing train end time, %w", ErrInvalidModel)
	}

	return &SARIMA{
		opt:          opt,
		scores:       model.Scores,
		trainEndTime: model.TrainEndTime,
		arLags:       model.ARLags,
		arCoef:       model.ARCoef,
		maLags:       model.MALags,
		maCoef:       model.MACoef,
		mean:         model.Mean,
		sigma:        model.Sigma,
		diffLags:     model.DiffLags,
		tails:        model.Tails,
		recent:       model.Recent,
		recentErrors: model.RecentErrors,
		trained:      true,
	}, nil
}

func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	name := "SARIMA"
	if m.Options != nil {
		name = m.Options.String()
	}
	if _, err := fmt.Fprintf(w, "%s%s%s:\n", prefix, util.IndentExpand(indent, 0), name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sTraining End Time: %s\n", prefix, util.IndentExpand(indent, 1), m.TrainEndTime.Format(time.DateOnly)); err != nil {
		return err
	}
	if m.Scores != nil {
		if _, err := fmt.Fprintf(w, "%s%sMAPE: %.3f    MSE: %.3f    R2: %.3f\n",
			prefix, util.IndentExpand(indent, 1),
			m.Scores.MAPE,
			m.Scores.MSE,
			m.Scores.R2,
		); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s%sResidual Std: %.4f\n", prefix, util.IndentExpand(indent, 1), m.Sigma); err != nil {
		return err
	}

	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sTerm\tLag\tValue\t\n", prefix, util.IndentExpand(indent, 2)); err != nil {
		return err
	}
	for i, lag := range m.ARLags {
		if _, err := fmt.Fprintf(tbl, "%s%sar\t%d\t%.4f\t\n", prefix, util.IndentExpand(indent, 2), lag, m.ARCoef[i]); err != nil {
			return err
		}
	}
	for i, lag := range m.MALags {
		if _, err := fmt.Fprintf(tbl, "%s%sma\t%d\t%.4f\t\n", prefix, util.IndentExpand(indent, 2), lag, m.MACoef[i]); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

package additive

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aouyang1/go-climate-forecaster/feature"
	"github.com/aouyang1/go-climate-forecaster/stats"
	"github.com/aouyang1/go-climate-forecaster/util"
)

var ErrInvalidModel = errors.New("invalid serialized additive model")

// Model represents a serializeable format of an additive model storing the options, training
// window, fit scores, and coefficients
type Model struct {
	TrainStartTime time.Time       `json:"train_start_time"`
	TrainEndTime   time.Time       `json:"train_end_time"`
	Options        *Options        `json:"options"`
	Scores         *stats.Scores   `json:"scores"`
	Sigma          float64         `json:"sigma"`
	Weights        feature.Weights `json:"weights"`
}

// Model returns the serializable form of a trained additive model
func (a *Additive) Model() (Model, error) {
	if a == nil {
		return Model{}, ErrUninitializedModel
	}
	if !a.trained {
		return Model{}, ErrUntrainedModel
	}
	weights, err := feature.NewWeights(a.fLabels.Labels(), a.intercept, a.coef)
	if err != nil {
		return Model{}, err
	}
	opt := *a.opt
	return Model{
		TrainStartTime: a.trainStartTime,
		TrainEndTime:   a.trainEndTime,
		Options:        &opt,
		Scores:         a.Scores(),
		Sigma:          a.sigma,
		Weights:        weights,
	}, nil
}

// NewFromModel creates an additive model from a serialized model. This instance can be used for
// inference immediately and does not need to be trained again.
func NewFromModel(model Model) (*Additive, error) {
	opt, err := model.Options.Validate()
	if err != nil {
		return nil, err
	}
	if !model.TrainEndTime.After(model.TrainStartTime) {
		return nil, fmt.Errorf("training window %s to %s, %w", model.TrainStartTime, model.TrainEndTime, ErrInvalidModel)
	}
	labels, err := model.Weights.FeatureLabels()
	if err != nil {
		return nil, fmt.Errorf("unable to decode additive weights, %w", err)
	}
	if labels.Len() == 0 {
		return nil, fmt.Errorf("no weights, %w", ErrInvalidModel)
	}

	return &Additive{
		opt:            opt,
		scores:         model.Scores,
		trainStartTime: model.TrainStartTime,
		trainEndTime:   model.TrainEndTime,
		fLabels:        labels,
		intercept:      model.Weights.Intercept,
		coef:           model.Weights.Coefficients(),
		sigma:          model.Sigma,
		trained:        true,
	}, nil
}

func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sProphet:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sTraining Window: %s to %s\n",
		prefix, util.IndentExpand(indent, 1),
		m.TrainStartTime.Format(time.DateOnly), m.TrainEndTime.Format(time.DateOnly)); err != nil {
		return err
	}
	if m.Options != nil {
		if err := m.Options.TablePrint(w, prefix, indent, 1); err != nil {
			return err
		}
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
	return m.Weights.TablePrint(w, prefix, indent, 1)
}

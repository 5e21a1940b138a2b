package regression

import (
	"fmt"
	"io"
	"time"

	"github.com/aouyang1/go-climate-forecaster/feature"
	mat_ "github.com/aouyang1/go-climate-forecaster/mat"
	"github.com/aouyang1/go-climate-forecaster/stats"
	"github.com/aouyang1/go-climate-forecaster/util"
)

// Model represents a serializeable format of a calendar regression storing the feature scaling,
// fit scores, and coefficients
type Model struct {
	TrainEndTime time.Time         `json:"train_end_time"`
	Scale        *mat_.ColumnScale `json:"scale"`
	Scores       *stats.Scores     `json:"scores"`
	Weights      feature.Weights   `json:"weights"`
}

func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sLinear Regression:\n", prefix, util.IndentExpand(indent, 0)); err != nil {
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
	return m.Weights.TablePrint(w, prefix, indent, 1)
}

package feature

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/aouyang1/go-climate-forecaster/util"
)

// Weight represents a feature described with a type e.g. changepoint, labels and the value
type Weight struct {
	Labels map[string]string `json:"labels"`
	Type   FeatureType       `json:"type"`
	Value  float64           `json:"value"`
}

func NewWeight(f Feature, val float64) Weight {
	return Weight{
		Labels: f.Decode(),
		Type:   f.Type(),
		Value:  val,
	}
}

// ToFeature transforms the Type and Labels into a feature
func (w Weight) ToFeature() (Feature, error) {
	return Decode(w.Type, w.Labels)
}

// Weights stores the intercept and per feature coefficients of a linear model
type Weights struct {
	Intercept float64  `json:"intercept"`
	Coef      []Weight `json:"coefficients"`
}

// NewWeights pairs each label with its coefficient. labels and coef must share the same order.
func NewWeights(labels []Feature, intercept float64, coef []float64) (Weights, error) {
	if len(labels) != len(coef) {
		return Weights{}, fmt.Errorf("%d labels for %d coefficients, %w", len(labels), len(coef), ErrWeightLenMismatch)
	}
	w := Weights{
		Intercept: intercept,
		Coef:      make([]Weight, 0, len(coef)),
	}
	for i, f := range labels {
		w.Coef = append(w.Coef, NewWeight(f, coef[i]))
	}
	return w, nil
}

// FeatureLabels returns all of the feature labels in the same order as the coefficients
func (w Weights) FeatureLabels() (*Labels, error) {
	labels := make([]Feature, 0, len(w.Coef))
	for _, fw := range w.Coef {
		feat, err := fw.ToFeature()
		if err != nil {
			return nil, err
		}
		labels = append(labels, feat)
	}
	return NewLabels(labels), nil
}

// Coefficients returns a slice copy of the coefficients ignoring the intercept.
func (w Weights) Coefficients() []float64 {
	coef := make([]float64, 0, len(w.Coef))
	for _, fw := range w.Coef {
		coef = append(coef, fw.Value)
	}
	return coef
}

// TablePrint writes the intercept and coefficients as an aligned table
func (w Weights) TablePrint(wr io.Writer, prefix, indent string, indentGrowth int) error {
	if _, err := fmt.Fprintf(wr, "%s%sWeights:\n", prefix, util.IndentExpand(indent, indentGrowth)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(wr, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sType\tLabels\tValue\t\n", prefix, util.IndentExpand(indent, indentGrowth+1)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tbl, "%s%sintercept\t\t%.3f\t\n", prefix, util.IndentExpand(indent, indentGrowth+1), w.Intercept); err != nil {
		return err
	}
	for _, fw := range w.Coef {
		val := fmt.Sprintf("%.3f", fw.Value)
		if fw.Value == 0 {
			val = "..."
		}
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%s\t%s\t\n",
			prefix, util.IndentExpand(indent, indentGrowth+1),
			fw.Type, formatLabels(fw.Labels), val); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

func formatLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+labels[k])
	}
	return strings.Join(parts, ",")
}

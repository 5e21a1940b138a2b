package additive

import (
	"errors"
	"fmt"
	"io"

	"github.com/aouyang1/go-climate-forecaster/util"
)

const (
	DefaultChangepoints     = 10
	DefaultChangepointRange = 0.8
	DefaultYearlyOrders     = 5
	DefaultYearlyPeriodDays = 365.25
	DefaultIntervalWidth    = 0.95
)

var (
	ErrNegativeChangepoints    = errors.New("negative number of changepoints")
	ErrInvalidChangepointRange = errors.New("changepoint range must be within (0, 1]")
	ErrNegativeOrders          = errors.New("negative number of fourier orders")
	ErrNonPositivePeriod       = errors.New("seasonality period must be positive")
	ErrNegativeRegularization  = errors.New("negative regularization")
	ErrInvalidIntervalWidth    = errors.New("interval width must be within (0, 1)")
)

// Options configures the trend and seasonality of the additive model
type Options struct {
	// Changepoints is the number of evenly spaced trend hinges placed over the first
	// ChangepointRange fraction of the training window
	Changepoints     int     `json:"changepoints"`
	ChangepointRange float64 `json:"changepoint_range"`

	// YearlyOrders is the number of fourier orders of the yearly seasonality. Monthly sampling
	// cannot resolve more than 6.
	YearlyOrders     int     `json:"yearly_orders"`
	YearlyPeriodDays float64 `json:"yearly_period_days"`

	// Regularization is the L1 penalty. 0 fits with ordinary least squares.
	Regularization float64 `json:"regularization"`

	// IntervalWidth is the coverage of the yhat_lower and yhat_upper band
	IntervalWidth float64 `json:"interval_width"`
}

// NewDefaultOptions returns 10 changepoints over the first 80% of history with 5 yearly orders
// fit by ordinary least squares
func NewDefaultOptions() *Options {
	return &Options{
		Changepoints:     DefaultChangepoints,
		ChangepointRange: DefaultChangepointRange,
		YearlyOrders:     DefaultYearlyOrders,
		YearlyPeriodDays: DefaultYearlyPeriodDays,
		IntervalWidth:    DefaultIntervalWidth,
	}
}

// Validate runs basic validation on the options, returning defaults when nil
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.Changepoints < 0 {
		return nil, ErrNegativeChangepoints
	}
	if o.Changepoints > 0 && (o.ChangepointRange <= 0 || o.ChangepointRange > 1) {
		return nil, fmt.Errorf("got %.3f, %w", o.ChangepointRange, ErrInvalidChangepointRange)
	}
	if o.YearlyOrders < 0 {
		return nil, ErrNegativeOrders
	}
	if o.YearlyOrders > 0 && o.YearlyPeriodDays <= 0 {
		return nil, ErrNonPositivePeriod
	}
	if o.Regularization < 0 {
		return nil, ErrNegativeRegularization
	}
	if o.IntervalWidth <= 0 || o.IntervalWidth >= 1 {
		return nil, fmt.Errorf("got %.3f, %w", o.IntervalWidth, ErrInvalidIntervalWidth)
	}
	return o, nil
}

func (o *Options) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	if _, err := fmt.Fprintf(w, "%s%sRegularization: %.3f\n", prefix, util.IndentExpand(indent, indentGrowth), o.Regularization); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sChangepoints: %d over first %.0f%%\n",
		prefix, util.IndentExpand(indent, indentGrowth),
		o.Changepoints, o.ChangepointRange*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sYearly Seasonality: %d orders, period %.2f days\n",
		prefix, util.IndentExpand(indent, indentGrowth),
		o.YearlyOrders, o.YearlyPeriodDays); err != nil {
		return err
	}
	return nil
}

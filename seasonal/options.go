package seasonal

import (
	"errors"
	"fmt"
)

const (
	DefaultPeriod = 12

	// critical value of the two sided 95% normal interval
	z95 = 1.959963984540054
)

var (
	ErrNegativeOrder       = errors.New("model orders must be non-negative")
	ErrDifferencingOrder   = errors.New("differencing order out of range")
	ErrNonPositivePeriod   = errors.New("seasonal period must be positive when seasonal terms are set")
	ErrNegativeLongAROrder = errors.New("long autoregression order must be non-negative")
)

// Options configures a SARIMA(p,d,q)(P,D,Q,s) model
type Options struct {
	// AR, Diff and MA are the non-seasonal orders p, d and q
	AR   int `json:"p"`
	Diff int `json:"d"`
	MA   int `json:"q"`

	// SeasonalAR, SeasonalDiff and SeasonalMA are the seasonal orders P, D and Q
	SeasonalAR   int `json:"seasonal_p"`
	SeasonalDiff int `json:"seasonal_d"`
	SeasonalMA   int `json:"seasonal_q"`

	// Period is the seasonal period s in observations
	Period int `json:"period"`

	// LongAROrder is the order of the autoregression used to estimate the innovations before the
	// second stage regression. 0 derives it from the model orders.
	LongAROrder int `json:"long_ar_order"`
}

// NewDefaultOptions returns SARIMA(1,1,1)(1,1,1,12)
func NewDefaultOptions() *Options {
	return &Options{
		AR:           1,
		Diff:         1,
		MA:           1,
		SeasonalAR:   1,
		SeasonalDiff: 1,
		SeasonalMA:   1,
		Period:       DefaultPeriod,
	}
}

// Validate runs basic validation on the options, returning defaults when nil
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.AR < 0 || o.MA < 0 || o.SeasonalAR < 0 || o.SeasonalMA < 0 {
		return nil, ErrNegativeOrder
	}
	if o.Diff < 0 || o.Diff > 2 {
		return nil, fmt.Errorf("d=%d, %w", o.Diff, ErrDifferencingOrder)
	}
	if o.SeasonalDiff < 0 || o.SeasonalDiff > 1 {
		return nil, fmt.Errorf("D=%d, %w", o.SeasonalDiff, ErrDifferencingOrder)
	}
	if (o.SeasonalAR > 0 || o.SeasonalDiff > 0 || o.SeasonalMA > 0) && o.Period <= 0 {
		return nil, ErrNonPositivePeriod
	}
	if o.LongAROrder < 0 {
		return nil, ErrNegativeLongAROrder
	}
	return o, nil
}

func (o *Options) String() string {
	return fmt.Sprintf("SARIMA(%d,%d,%d)(%d,%d,%d,%d)", o.AR, o.Diff, o.MA, o.SeasonalAR, o.SeasonalDiff, o.SeasonalMA, o.Period)
}

// arLags lists the autoregressive lags including the multiplicative cross terms of the
// non-seasonal and seasonal polynomials
func (o *Options) arLags() []int {
	return polyLags(o.AR, o.SeasonalAR, o.Period)
}

func (o *Options) maLags() []int {
	return polyLags(o.MA, o.SeasonalMA, o.Period)
}

// diffLags lists the lag of each differencing pass, regular passes first
func (o *Options) diffLags() []int {
	lags := make([]int, 0, o.Diff+o.SeasonalDiff)
	for i := 0; i < o.Diff; i++ {
		lags = append(lags, 1)
	}
	for i := 0; i < o.SeasonalDiff; i++ {
		lags = append(lags, o.Period)
	}
	return lags
}

func (o *Options) longAROrder() int {
	if o.LongAROrder > 0 {
		return o.LongAROrder
	}
	return maxLag(o.arLags()) + maxLag(o.maLags()) + 1
}

func polyLags(order, seasonalOrder, period int) []int {
	var lags []int
	for i := 1; i <= order; i++ {
		lags = append(lags, i)
	}
	for j := 1; j <= seasonalOrder; j++ {
		for i := 0; i <= order; i++ {
			lags = append(lags, j*period+i)
		}
	}
	return lags
}

func maxLag(lags []int) int {
	m := 0
	for _, l := range lags {
		if l > m {
			m = l
		}
	}
	return m
}

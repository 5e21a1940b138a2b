package forecaster

import (
	"time"

	"github.com/aouyang1/go-climate-forecaster/horizon"
)

// Options configures forecast assembly
type Options struct {
	// TerminalDate is the last month of every forecast horizon
	TerminalDate time.Time `json:"terminal_date" mapstructure:"terminal_date"`

	// Concurrent runs the model predictions of one target in parallel
	Concurrent bool `json:"concurrent" mapstructure:"concurrent"`

	// LookupDefault replaces null cells in point lookups
	LookupDefault float64 `json:"lookup_default" mapstructure:"lookup_default"`
}

// NewDefaultOptions forecasts through 2050-12 running models concurrently
func NewDefaultOptions() *Options {
	return &Options{
		TerminalDate:  horizon.TerminalDate,
		Concurrent:    true,
		LookupDefault: 0,
	}
}

func (o *Options) validate() *Options {
	if o == nil {
		return NewDefaultOptions()
	}
	opt := *o
	if opt.TerminalDate.IsZero() {
		opt.TerminalDate = horizon.TerminalDate
	}
	return &opt
}

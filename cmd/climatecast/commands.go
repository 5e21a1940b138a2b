package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aouyang1/go-climate-forecaster"
	"github.com/aouyang1/go-climate-forecaster/config"
	"github.com/aouyang1/go-climate-forecaster/store"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

var ErrUnknownProfile = errors.New("unknown profile mode")

// app carries the state shared by every subcommand once the config is loaded
type app struct {
	configPath  string
	profileMode string

	cfg      *config.Config
	profiler interface{ Stop() }
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "climatecast",
		Short:         "Forecast atmospheric CO₂ and global land temperature through 2050",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.profiler != nil {
				a.profiler.Stop()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./config.yaml or ./configs/config.yaml)")
	root.PersistentFlags().StringVar(&a.profileMode, "profile", "", "write a cpu or mem profile to the working directory")

	root.AddCommand(
		newTrainCmd(a),
		newForecastCmd(a),
		newLookupCmd(a),
		newPlotCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	a.cfg = cfg

	switch a.profileMode {
	case "":
	case "cpu":
		a.profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	case "mem":
		a.profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	default:
		return fmt.Errorf("%q, %w", a.profileMode, ErrUnknownProfile)
	}
	return nil
}

func (a *app) openStore() (store.Store, error) {
	return store.Open(a.cfg.StoreConfig(slog.Default().With("component", "badger")))
}

// openForecaster returns a forecaster reading from the configured store. The caller closes the
// store.
func (a *app) openForecaster() (*forecaster.Forecaster, store.Store, error) {
	st, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	opt, err := a.cfg.ForecastOptions()
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	f, err := forecaster.New(st, st, opt)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return f, st, nil
}

package main

import (
	"github.com/aouyang1/go-climate-forecaster/server"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve forecasts, lookups and charts over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, st, err := a.openForecaster()
			if err != nil {
				return err
			}
			defer st.Close()

			return server.New(a.cfg.Server.Addr, server.NewHandlers(f)).Run(cmd.Context())
		},
	}
}

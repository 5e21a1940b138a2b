package main

import (
	"github.com/aouyang1/go-climate-forecaster/store"
	"github.com/aouyang1/go-climate-forecaster/target"
	"github.com/aouyang1/go-climate-forecaster/train"
	"github.com/spf13/cobra"
)

func newTrainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "train [target...]",
		Short: "Clean the raw source data and fit every model of the targets, all targets by default",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := target.All()
			if len(args) > 0 {
				targets = make([]target.Target, 0, len(args))
				for _, arg := range args {
					tgt, err := target.Parse(arg)
					if err != nil {
						return err
					}
					targets = append(targets, tgt)
				}
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			raw := store.NewRawReader(a.cfg.DataDir)
			return train.Run(cmd.Context(), raw, st, nil, targets...)
		},
	}
}

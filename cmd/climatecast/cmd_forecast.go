package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aouyang1/go-climate-forecaster"
	"github.com/aouyang1/go-climate-forecaster/target"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD or YYYY-MM")

// withTable assembles the forecast of the named target and hands it to fn
func (a *app) withTable(cmd *cobra.Command, name string, fn func(tbl *forecaster.Table) error) error {
	tgt, err := target.Parse(name)
	if err != nil {
		return err
	}
	f, st, err := a.openForecaster()
	if err != nil {
		return err
	}
	defer st.Close()

	tbl, err := f.GetForecast(cmd.Context(), tgt)
	if err != nil {
		return err
	}
	return fn(tbl)
}

func newForecastCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "forecast <target>",
		Short: "Print the monthly forecast table of a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTable(cmd, args[0], func(tbl *forecaster.Table) error {
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(tbl)
				}
				return tbl.TablePrint(cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as json")
	return cmd
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, "2006-01"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q, %w", s, ErrInvalidDate)
}

func newLookupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <target> <date>",
		Short: "Print every column of the forecast month containing date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(args[1])
			if err != nil {
				return err
			}
			return a.withTable(cmd, args[0], func(tbl *forecaster.Table) error {
				row, err := tbl.Lookup(date)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, col := range tbl.Columns() {
					v, exists := row[col]
					if !exists {
						continue
					}
					if _, err := fmt.Fprintf(out, "%s: %.3f\n", col, v); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newPlotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plot <target> <file.html>",
		Short: "Render the combined forecast chart of a target as html",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTable(cmd, args[0], func(tbl *forecaster.Table) error {
				file, err := os.Create(args[1])
				if err != nil {
					return err
				}
				if err := tbl.Plot(file); err != nil {
					file.Close()
					return err
				}
				return file.Close()
			})
		},
	}
}

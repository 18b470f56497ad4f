package commands

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/tax"
	"github.com/fintrack-dev/fintrack/internal/tracker"
)

func newTaxCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tax <income>",
		Short: "Show bracket and flat tax for an income",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			income, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Income:      %s\n", tracker.FormatAmount(income))
			fmt.Fprintf(out, "Bracket tax: %s\n", tracker.FormatAmount(a.schedule().Calculate(income)))

			flat := tax.FlatCalculator{RatePercent: a.cfg.Tax.FlatRate}
			owed, err := flat.Calculate(income)
			if err != nil {
				fmt.Fprintf(out, "Flat tax:    n/a (%v)\n", err)
				return nil
			}
			fmt.Fprintf(out, "Flat tax:    %s (%g%%)\n", tracker.FormatAmount(owed), a.cfg.Tax.FlatRate)
			return nil
		},
	}
}

func newConvertCommand(a *app) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "convert <amount> <currency>",
		Short: "Convert an amount using the configured rate table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			conv := a.converter()
			if from == "" {
				from = conv.Base()
			}
			converted, err := conv.Convert(amount, from, args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s %s\n",
				tracker.FormatAmount(amount), strings.ToUpper(from),
				tracker.FormatAmount(converted), strings.ToUpper(args[1]))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "source currency (default: the base currency)")

	return cmd
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

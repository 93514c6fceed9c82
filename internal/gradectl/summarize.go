package gradectl

import (
	"github.com/spf13/cobra"
)

func newSummarizeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize [file|-]",
		Short: "Print cohort statistics for a list of grades",
		Long: `Reads a JSON array of numbers or one number per line from the file
or stdin and prints count, mean, median, percentiles and spread.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			values, err := parseValues(data)
			if err != nil {
				return err
			}
			svc, err := opts.newService()
			if err != nil {
				return err
			}
			sum := svc.Summarize(cmd.Context(), values)
			return writeSummaryTable(cmd.OutOrStdout(), sum, opts.precision)
		},
	}
}

package gradectl

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/grading"
)

var errInvertedScale = errors.New("--min must not exceed --max")

func newGradeCmd(opts *options) *cobra.Command {
	scale := grading.Scale{Min: 1, Max: 5}
	cmd := &cobra.Command{
		Use:   "grade <aggregate>",
		Short: "Map a rubric aggregate onto the 1-10 grade curve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if scale.Min > scale.Max {
				return errInvertedScale
			}
			agg, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("aggregate %q is not a number", args[0])
			}
			svc, err := opts.newService()
			if err != nil {
				return err
			}
			res := svc.ComputeGrade(cmd.Context(), scale, []grading.Item{{Score: agg, Weight: 1}})
			grade, ok := res.Grade.Get()
			if !ok {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "grade undefined for scale %d-%d\n", scale.Min, scale.Max)
				return err
			}
			display := res.Display.Or(grade)
			label := opts.passLabel(display >= svc.PassThreshold())
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "aggregate %s on %d-%d -> grade %s (raw %s) %s\n",
				formatFloat(agg, 2), scale.Min, scale.Max,
				formatFloat(display, 1), strconv.FormatFloat(grade, 'f', -1, 64), label)
			return err
		},
	}
	cmd.Flags().IntVar(&scale.Min, "min", scale.Min, "lowest rubric score")
	cmd.Flags().IntVar(&scale.Max, "max", scale.Max, "highest rubric score")
	return cmd
}

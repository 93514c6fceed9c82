package gradectl

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	service "github.com/nveerman1/team-evaluatie-app-sub000/internal/app"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/resolver"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/types"
)

type studentEntry struct {
	StudentID string `json:"student_id"`
	resolver.Candidates
}

func newResolveCmd(opts *options) *cobra.Command {
	var threshold float64
	cmd := &cobra.Command{
		Use:   "resolve [file|-]",
		Short: "Resolve final grades for a cohort",
		Long: `Reads a JSON array of students with their stored candidate grades
(published_grade, direct_override, group_grade, correction_factor,
suggested_grade) and prints the authoritative grade of each one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var entries []studentEntry
			if err := json.Unmarshal(data, &entries); err != nil {
				return fmt.Errorf("parse students: %w", err)
			}
			svc, err := opts.newService()
			if err != nil {
				return err
			}

			students := make([]service.StudentCandidates, 0, len(entries))
			for _, e := range entries {
				students = append(students, service.StudentCandidates{StudentID: e.StudentID, Candidates: e.Candidates})
			}
			pass := types.None()
			if cmd.Flags().Changed("threshold") {
				pass = types.Some(threshold)
			}
			report := svc.Report(cmd.Context(), students, pass)
			return writeReport(cmd.OutOrStdout(), report, opts)
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "pass threshold (defaults to the configured one)")
	return cmd
}

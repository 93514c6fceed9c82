package gradectl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	service "github.com/nveerman1/team-evaluatie-app-sub000/internal/app"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/stats"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/domain/types"
)

const absentCell = "-"

func formatFloat(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func formatOptional(v types.Float, precision int) string {
	f, ok := v.Get()
	if !ok {
		return absentCell
	}
	return formatFloat(f, precision)
}

func (o *options) passLabel(passed bool) string {
	if passed {
		return o.colorize(color.FgGreen)("PASS")
	}
	return o.colorize(color.FgRed)("FAIL")
}

// writeSummaryTable renders one statistic per row.
func writeSummaryTable(w io.Writer, s stats.Summary, precision int) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Statistic", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"count", strconv.Itoa(s.Count)},
		{"mean", formatOptional(s.Mean, precision)},
		{"median", formatOptional(s.Median, precision)},
		{"p10", formatOptional(s.P10, precision)},
		{"p25", formatOptional(s.P25, precision)},
		{"p75", formatOptional(s.P75, precision)},
		{"p90", formatOptional(s.P90, precision)},
		{"min", formatOptional(s.Min, precision)},
		{"max", formatOptional(s.Max, precision)},
		{"iqr", formatOptional(s.IQR, precision)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeReport renders one row per student followed by the cohort summary.
func writeReport(w io.Writer, r service.CohortReport, o *options) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Student", "Grade", "Source", "Result", "Flags"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	warn := o.colorize(color.FgYellow)
	data := make([][]string, 0, len(r.Students))
	for _, st := range r.Students {
		result := absentCell
		if st.Passed != nil {
			result = o.passLabel(*st.Passed)
		}
		flags := make([]string, 0, len(st.Flags))
		for _, f := range st.Flags {
			flags = append(flags, string(f))
		}
		flagCell := strings.Join(flags, ",")
		if flagCell != "" {
			flagCell = warn(flagCell)
		}
		data = append(data, []string{
			st.StudentID,
			formatOptional(st.Value, 1),
			string(st.Source),
			result,
			flagCell,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Graded %d of %d students, pass threshold %s, pass rate %s, mean %s, median %s\n",
		r.Summary.Count, len(r.Students),
		formatFloat(r.PassThreshold, 1),
		formatOptional(r.PassRate, o.precision),
		formatOptional(r.Summary.Mean, o.precision),
		formatOptional(r.Summary.Median, o.precision))
	return err
}

// Package gradectl implements the offline grading command line.
package gradectl

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	service "github.com/nveerman1/team-evaluatie-app-sub000/internal/app"
	"github.com/nveerman1/team-evaluatie-app-sub000/internal/config"
)

// Build information, set by the linker.
var (
	version = "dev"
	commit  = "none"
)

type options struct {
	configPath string
	noColor    bool
	precision  int
}

// NewRootCmd assembles the gradectl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "gradectl",
		Short:         "Compute, resolve and summarize grades offline.",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().IntVar(&opts.precision, "precision", 2, "decimals shown for statistics")

	root.AddCommand(newGradeCmd(opts))
	root.AddCommand(newSummarizeCmd(opts))
	root.AddCommand(newResolveCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// newService loads configuration and builds the engine it describes.
func (o *options) newService() (*service.Service, error) {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return nil, err
	}
	return service.New(service.WithGrading(cfg.Grading)), nil
}

func (o *options) colorize(attr color.Attribute) func(...any) string {
	if o.noColor {
		return fmt.Sprint
	}
	return color.New(attr).SprintFunc()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "gradectl %s (%s)\n", version, commit)
			return err
		},
	}
}

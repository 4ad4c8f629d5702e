package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sportplanner/seedkit/internal/database"
	"github.com/sportplanner/seedkit/internal/seed"
	"github.com/sportplanner/seedkit/internal/style"
)

type applyOptions struct {
	file   string
	sport  string
	legacy bool
}

func newApplyCmd(a *app) *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run the seed script against Postgres",
		Long: `Execute the Postgres seed script against $SEEDCTL_DATABASE_URL.

The script is generated from the built-in catalogue unless --file names an
existing script. The reference tables ("Sports", "ConceptCategories",
"SportConcepts") must already exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runApply(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Script to execute instead of generating one")
	cmd.Flags().StringVar(&opts.sport, "sport", "", "Sport the concepts belong to (default from config)")
	cmd.Flags().BoolVar(&opts.legacy, "legacy", false, "Generate the layout without SportId")
	cmd.MarkFlagsMutuallyExclusive("sport", "legacy")
	cmd.MarkFlagsMutuallyExclusive("file", "sport")
	cmd.MarkFlagsMutuallyExclusive("file", "legacy")

	return cmd
}

func (a *app) runApply(cmd *cobra.Command, opts applyOptions) error {
	if a.cfg.DatabaseURL == "" {
		return database.ErrNoDatabaseURL
	}

	var script, source string
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		script, source = string(data), opts.file
	} else {
		set, err := loadCatalogue(cmd, "")
		if err != nil {
			return err
		}
		script = seed.Build(set.Rows, a.sport(opts.sport, opts.legacy)).String(seed.Postgres)
		source = "built-in catalogue"
	}

	if err := database.ExecPostgres(cmd.Context(), a.cfg.DatabaseURL, script); err != nil {
		return err
	}
	slog.Info("applied seed script", "source", source)

	style.Successf(cmd.OutOrStdout(), "Applied seed script from %s", source)
	return nil
}

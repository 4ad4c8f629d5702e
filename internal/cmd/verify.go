package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sportplanner/seedkit/internal/concepts"
	"github.com/sportplanner/seedkit/internal/database"
	"github.com/sportplanner/seedkit/internal/seed"
	"github.com/sportplanner/seedkit/internal/style"
)

// ExitNotIdempotent is the exit code of verify when the second run inserted
// rows.
const ExitNotIdempotent = 2

type verifyOptions struct {
	db             string
	sport          string
	legacy         bool
	input          string
	skipReferences bool
}

func newVerifyCmd(a *app) *cobra.Command {
	var opts verifyOptions

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run the seed twice against a SQLite sandbox",
		Long: `Dry-run the seed script against a SQLite sandbox.

The sandbox gets the reference schema and the sport and category rows the
script looks up, then the script runs twice. The first run should insert
every concept and the second none.

Exit codes:
  0  the script is idempotent
  1  the sandbox could not be prepared
  2  the second run inserted rows`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVerify(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.db, "db", "", "Sandbox database path (default from config, :memory: if unset)")
	cmd.Flags().StringVar(&opts.sport, "sport", "", "Sport the concepts belong to (default from config)")
	cmd.Flags().BoolVar(&opts.legacy, "legacy", false, "Verify the layout without SportId")
	cmd.Flags().StringVar(&opts.input, "input", "", "Read the catalogue from a file instead of the built-in one (- for stdin)")
	cmd.Flags().BoolVar(&opts.skipReferences, "skip-references", false, "Do not seed sports and categories first")
	cmd.MarkFlagsMutuallyExclusive("sport", "legacy")

	return cmd
}

func (a *app) runVerify(cmd *cobra.Command, opts verifyOptions) error {
	ctx := cmd.Context()

	set, err := loadCatalogue(cmd, opts.input)
	if err != nil {
		return err
	}
	script := seed.Build(set.Rows, a.sport(opts.sport, opts.legacy))

	dsn := opts.db
	if dsn == "" {
		dsn = a.cfg.SandboxDB
	}
	db, err := database.Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate sandbox: %w", err)
	}
	if !opts.skipReferences {
		if err := seed.References(ctx, db, script.Sport, concepts.Categories(set.Rows)); err != nil {
			return fmt.Errorf("seed references: %w", err)
		}
	}

	report, err := seed.Verify(ctx, db, script)
	if err != nil && !errors.Is(err, seed.ErrNotIdempotent) {
		return err
	}
	slog.Info("verified seed script",
		"sandbox", dsn,
		"concepts", report.Concepts,
		"first_pass", report.FirstPass,
		"second_pass", report.SecondPass,
		"skipped", report.Skipped,
	)

	out := cmd.OutOrStdout()
	if err != nil {
		style.Errorf(out, "Second run inserted %d rows", report.SecondPass)
	} else {
		style.Successf(out, "Seed script is idempotent")
	}
	style.Field(out, "concepts", report.Concepts)
	style.Field(out, "first run", report.FirstPass)
	style.Field(out, "second run", report.SecondPass)
	style.Field(out, "skipped", report.Skipped)
	style.Field(out, "stored", report.TotalStored)
	if report.Skipped > 0 {
		style.Warnf(out, "%d concepts had no matching category", report.Skipped)
	}

	if err != nil {
		return NewSilentExit(ExitNotIdempotent)
	}
	return nil
}

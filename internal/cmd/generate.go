package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sportplanner/seedkit/internal/concepts"
	"github.com/sportplanner/seedkit/internal/seed"
	"github.com/sportplanner/seedkit/internal/style"
)

type generateOptions struct {
	sport   string
	legacy  bool
	dialect string
	input   string
	output  string
	stdout  bool
}

func newGenerateCmd(a *app) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the concepts seed script",
		Long: `Generate the idempotent seed script from the concept catalogue.

Each concept becomes a category lookup plus a guarded insert. Rows whose
category does not exist are skipped, and rows already present are not
inserted again.

Examples:
  seedctl generate                        # Postgres script with SportId
  seedctl generate --legacy               # Layout without SportId
  seedctl generate --dialect sqlite -o -  # SQLite statements on stdout
  seedctl generate --input concepts.tsv   # Use another catalogue`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.sport, "sport", "", "Sport the concepts belong to (default from config)")
	cmd.Flags().BoolVar(&opts.legacy, "legacy", false, "Omit the SportId column")
	cmd.Flags().StringVar(&opts.dialect, "dialect", string(seed.Postgres), "SQL dialect: postgres|sqlite")
	cmd.Flags().StringVar(&opts.input, "input", "", "Read the catalogue from a file instead of the built-in one (- for stdin)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default from config, - for stdout)")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Write the script to stdout")
	cmd.MarkFlagsMutuallyExclusive("sport", "legacy")
	cmd.MarkFlagsMutuallyExclusive("output", "stdout")

	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, opts generateOptions) error {
	dialect, err := seed.ParseDialect(opts.dialect)
	if err != nil {
		return err
	}

	set, err := loadCatalogue(cmd, opts.input)
	if err != nil {
		return err
	}

	script := seed.Build(set.Rows, a.sport(opts.sport, opts.legacy))

	output := opts.output
	if output == "" {
		output = a.cfg.OutputPath
	}
	if opts.stdout || output == "-" {
		return script.Render(cmd.OutOrStdout(), dialect)
	}

	var buf bytes.Buffer
	if err := script.Render(&buf, dialect); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	slog.Info("wrote seed script", "path", output, "concepts", len(script.Concepts), "dialect", dialect, "sport", script.Sport)

	out := cmd.OutOrStdout()
	style.Successf(out, "Wrote %d concepts to %s", len(script.Concepts), style.Bold.Render(output))
	style.Field(out, "dialect", dialect)
	if script.HasSport() {
		style.Field(out, "sport", script.Sport)
	} else {
		style.Field(out, "sport", style.Dim.Render("none (legacy layout)"))
	}
	return nil
}

// sport resolves the sport for a command: --legacy wins, then --sport, then
// config.
func (a *app) sport(flag string, legacy bool) string {
	switch {
	case legacy:
		return ""
	case flag != "":
		return flag
	default:
		return a.cfg.Sport
	}
}

// loadCatalogue parses the built-in catalogue, a file, or stdin for "-".
func loadCatalogue(cmd *cobra.Command, input string) (concepts.Set, error) {
	var r io.Reader
	switch input {
	case "":
		r = concepts.Embedded()
	case "-":
		r = cmd.InOrStdin()
	default:
		f, err := os.Open(input)
		if err != nil {
			return concepts.Set{}, fmt.Errorf("open catalogue: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	set, err := concepts.Parse(r)
	if err != nil {
		return concepts.Set{}, err
	}
	slog.Info("parsed catalogue",
		"lines", set.Stats.Lines,
		"kept", set.Stats.Kept,
		"short", set.Stats.Short,
		"sentinel", set.Stats.Sentinel,
		"duplicates", set.Stats.Duplicates,
	)
	return set, nil
}

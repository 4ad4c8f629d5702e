package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sportplanner/seedkit/internal/seed"
	"github.com/sportplanner/seedkit/internal/style"
)

type patchOptions struct {
	sport  string
	strict bool
}

func newPatchCmd(a *app) *cobra.Command {
	var opts patchOptions

	cmd := &cobra.Command{
		Use:   "patch [FILE]",
		Short: "Add the SportId column to a script generated without it",
		Long: `Patch a legacy seed script in place so every insert also sets "SportId".

The sport is looked up once at the start of the block. Scripts that already
reference the sport variable are rejected and left untouched.

By default anchors that do not match are reported as warnings and the file is
written anyway. With --strict any mismatch aborts without writing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.OutputPath
			if len(args) == 1 {
				path = args[0]
			}
			return a.runPatch(cmd, path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.sport, "sport", "", "Sport to look up (default from config)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail without writing if any anchor is missing")

	return cmd
}

func (a *app) runPatch(cmd *cobra.Command, path string, opts patchOptions) error {
	sport := a.sport(opts.sport, false)

	report, err := seed.PatchFile(path, sport, opts.strict)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range report.Problems() {
		slog.Warn("patch anchor mismatch", "path", path, "problem", p)
		style.Warnf(out, "%s", p)
	}
	slog.Info("patched seed script", "path", path, "sport", sport, "inserts", report.ColumnLists)

	style.Successf(out, "Patched %s", style.Bold.Render(path))
	style.Field(out, "sport", sport)
	style.Field(out, "column lists", report.ColumnLists)
	style.Field(out, "value lists", report.ValueLists)
	return nil
}

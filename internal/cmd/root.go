// Package cmd implements the seedctl command tree.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sportplanner/seedkit/internal/config"
	"github.com/sportplanner/seedkit/internal/style"
)

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	cfg config.Config
}

// NewRootCmd builds a fresh command tree. Each call returns independent flag
// state, so tests can execute it repeatedly.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "seedctl",
		Short: "Generate, patch and verify the sport concepts seed script",
		Long: `seedctl turns the concept catalogue into an idempotent SQL seed script.

Every insert is guarded by a category lookup and a NOT EXISTS check, so the
script can be run against the same database any number of times.

Configuration is read from seedctl.toml (or $SEEDCTL_CONFIG) and overridden
by SEEDCTL_* environment variables and then by flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			a.cfg = cfg
			return nil
		},
	}

	root.AddCommand(
		newGenerateCmd(a),
		newPatchCmd(a),
		newVerifyCmd(a),
		newApplyCmd(a),
	)
	return root
}

// Execute runs seedctl and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if code, ok := IsSilentExit(err); ok {
		return code
	}
	if err != nil {
		slog.Debug("seedctl failed", "error", err)
		style.Errorf(os.Stderr, "%v", err)
		return 1
	}
	return 0
}

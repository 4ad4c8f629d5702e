// Command memory-updater is a PostToolUse hook that suggests refreshing
// CLAUDE.md after the agent edits its own docs, agents or commands.
package main

import (
	"os"

	"github.com/sportplanner/seedkit/internal/hooks"
)

func main() {
	os.Exit(hooks.RunMemoryUpdater(os.Stdin, os.Stdout, os.Stderr, hooks.MemoryUpdaterConfigPath()))
}

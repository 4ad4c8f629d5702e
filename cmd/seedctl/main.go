// seedctl generates, patches and verifies the sport concepts seed script.
package main

import (
	"os"

	"github.com/sportplanner/seedkit/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

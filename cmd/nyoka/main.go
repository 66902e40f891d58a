package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/nyoka-pmml/nyoka-cli/internal/cli"
	"github.com/nyoka-pmml/nyoka-cli/internal/ui"
)

func main() {
	if err := cli.Run(); err != nil {
		if isatty.IsTerminal(os.Stderr.Fd()) {
			renderer := ui.NewRenderer(os.Stderr, ui.DefaultTheme(), true)
			renderer.Blank()
			renderer.BulletError(fmt.Sprintf("error: %s", cli.CompactError(err)))
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", cli.CompactError(err))
		}
		os.Exit(1)
	}
}

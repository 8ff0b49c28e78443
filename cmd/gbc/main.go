package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/tasuku43/gbc/internal/cli"
	"github.com/tasuku43/gbc/internal/ui"
)

func main() {
	if err := cli.Run(); err != nil {
		if isatty.IsTerminal(os.Stderr.Fd()) && os.Getenv("NO_COLOR") == "" {
			renderer := ui.NewRenderer(os.Stderr, ui.DefaultTheme(), true)
			renderer.Blank()
			renderer.BulletError(fmt.Sprintf("error: %s", err.Error()))
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(1)
	}
}

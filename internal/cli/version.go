package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tasuku43/gbc/internal/infra/gitcmd"
)

// Set via -ldflags, e.g.
//
//	go build -ldflags "-X github.com/tasuku43/gbc/internal/cli.version=v0.1.0 -X github.com/tasuku43/gbc/internal/cli.commit=abc123"
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func versionLine() string {
	v := strings.TrimSpace(version)
	if v == "" {
		v = "dev"
	}
	parts := []string{fmt.Sprintf("gbc %s", v)}
	if c := strings.TrimSpace(commit); c != "" {
		parts = append(parts, c)
	}
	if d := strings.TrimSpace(date); d != "" {
		parts = append(parts, d)
	}
	parts = append(parts, fmt.Sprintf("(%s %s/%s)", runtime.Version(), runtime.GOOS, runtime.GOARCH))
	return strings.Join(parts, " ")
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print gbc and git versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(a.out, versionLine())
			gitVersion, err := gitcmd.Version(cmd.Context())
			if err != nil {
				fmt.Fprintf(a.out, "git: unavailable (%v)\n", err)
				return nil
			}
			fmt.Fprintln(a.out, gitVersion)
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tasuku43/gbc/internal/app/doctor"
)

func (a *app) doctorCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check git, gbc.yaml and the current repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repoDir := strings.TrimSpace(dir)
			if repoDir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				repoDir = wd
			}
			result, err := doctor.Check(cmd.Context(), a.rootDir, repoDir)
			if err != nil {
				return err
			}
			a.renderer.Section("Info")
			for _, detail := range result.Details {
				a.renderer.Bullet(detail)
			}
			if len(result.Warnings) > 0 {
				a.renderer.Blank()
				a.renderer.Section("Warnings")
				for _, warning := range result.Warnings {
					a.renderer.Warn(warning)
				}
			}
			a.renderer.Blank()
			a.renderer.Section("Result")
			if len(result.Issues) == 0 {
				a.renderer.Success("no issues found")
				return nil
			}
			for _, issue := range result.Issues {
				a.renderer.BulletError(fmt.Sprintf("%s: %s", issue.Kind, issue.Message))
			}
			return fmt.Errorf("doctor found %d issue(s)", len(result.Issues))
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "C", "", "repository directory (default: current directory)")
	return cmd
}

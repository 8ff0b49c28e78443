package cli

import (
	"github.com/spf13/cobra"
	"github.com/tasuku43/gbc/internal/app/initcmd"
)

func (a *app) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the gbc root with a default gbc.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := initcmd.Run(a.rootDir)
			if err != nil {
				return err
			}
			a.renderer.Section("Result")
			a.renderer.KeyValue("root", result.RootDir)
			for _, dir := range result.CreatedDirs {
				a.renderer.Success("created " + dir)
			}
			for _, file := range result.CreatedFiles {
				a.renderer.Success("created " + file)
			}
			for _, file := range result.SkippedFiles {
				a.renderer.Bullet("kept existing " + file)
			}
			return nil
		},
	}
}

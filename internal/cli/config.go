package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tasuku43/gbc/internal/domain/branchname"
	"github.com/tasuku43/gbc/internal/domain/config"
	"github.com/tasuku43/gbc/internal/infra/output"
)

const (
	keyDateFormat   = "date-format"
	keyAuthor       = "author"
	keyAutoCheckout = "auto-checkout"
)

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, validate or change gbc settings",
	}
	cmd.AddCommand(
		a.configShowCommand(),
		a.configValidateCommand(),
		a.configSetCommand(),
		a.configResetCommand(),
	)
	return cmd
}

func (a *app) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.rootDir)
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			a.renderer.Section("Config")
			a.renderer.KeyValue("path", config.Path(a.rootDir))
			a.renderer.Blank()
			w := output.NewIndentWriter(a.out)
			defer w.Close()
			_, err = w.Write(data)
			return err
		},
	}
}

func (a *app) configValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report every problem in gbc.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := config.Validate(a.rootDir)
			if err != nil {
				return err
			}
			a.renderer.Section("Config")
			if len(result.Issues) == 0 {
				a.renderer.Success(fmt.Sprintf("%s is valid", result.Path))
				return nil
			}
			for _, issue := range result.Issues {
				text := fmt.Sprintf("%s: %s", issue.Kind, issue.Message)
				if issue.Prefix != "" {
					text = fmt.Sprintf("%s (%s): %s", issue.Kind, issue.Prefix, issue.Message)
				}
				a.renderer.BulletError(text)
			}
			return fmt.Errorf("%s has %d problem(s)", result.Path, len(result.Issues))
		},
	}
}

func (a *app) configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: `Change one setting. Keys:

  date-format     one of ` + formatList() + `
  author          name used in branch names; "" falls back to git user.name
  auto-checkout   true to switch to new branches, false to only create them`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{keyDateFormat, keyAuthor, keyAutoCheckout},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Open(a.rootDir)
			if err != nil {
				return err
			}
			key, value := args[0], args[1]
			switch key {
			case keyDateFormat:
				format, err := branchname.ParseDateFormat(value)
				if err != nil {
					return err
				}
				if err := store.SetDateFormat(format); err != nil {
					return err
				}
				value = string(format)
			case keyAuthor:
				if err := store.SetCustomGitName(value); err != nil {
					return err
				}
			case keyAutoCheckout:
				enabled, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("auto-checkout must be true or false: %q", value)
				}
				if err := store.SetAutoCheckout(enabled); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown key %q (want %s, %s or %s)", key, keyDateFormat, keyAuthor, keyAutoCheckout)
			}
			a.renderer.Success(fmt.Sprintf("%s = %s", key, value))
			return nil
		},
	}
}

func (a *app) configResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default configuration",
		Long:  "Restore the default configuration. Works on a gbc.yaml that no longer loads.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Save(a.rootDir, config.Default()); err != nil {
				return err
			}
			a.renderer.Success("configuration reset to defaults")
			return nil
		},
	}
}

func formatList() string {
	formats := branchname.DateFormats()
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

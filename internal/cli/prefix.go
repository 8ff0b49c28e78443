package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tasuku43/gbc/internal/app/prefix"
	"github.com/tasuku43/gbc/internal/domain/config"
)

func (a *app) prefixCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prefix",
		Aliases: []string{"prefixes"},
		Short:   "Manage branch prefixes",
		Long: `Manage the branch prefixes offered by gbc create.

Without a subcommand an interactive editor opens when a terminal is
available; otherwise the prefixes are listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := config.Open(a.rootDir)
			if err != nil {
				return err
			}
			if !a.isTerminal() {
				a.renderPrefixes(store.Config())
				return nil
			}
			if err := prefix.Manage(cmd.Context(), store, a.newPrompter(a)); err != nil {
				return err
			}
			a.renderPrefixes(store.Config())
			return nil
		},
	}
	cmd.AddCommand(
		a.prefixListCommand(),
		a.prefixAddCommand(),
		a.prefixUpdateCommand(),
		a.prefixRemoveCommand(),
		a.prefixDefaultCommand(),
	)
	return cmd
}

func (a *app) prefixListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List branch prefixes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.rootDir)
			if err != nil {
				return err
			}
			a.renderPrefixes(cfg)
			return nil
		},
	}
}

func (a *app) prefixAddCommand() *cobra.Command {
	var description string
	var makeDefault bool
	cmd := &cobra.Command{
		Use:   "add <prefix>",
		Short: "Add a branch prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Open(a.rootDir)
			if err != nil {
				return err
			}
			p := config.BranchPrefix{Prefix: args[0], Description: description, IsDefault: makeDefault}
			if err := store.AddPrefix(p); err != nil {
				return err
			}
			a.renderer.Success(fmt.Sprintf("added %s", args[0]))
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "description shown in the prefix list")
	cmd.Flags().BoolVar(&makeDefault, "default", false, "make this the default prefix")
	return cmd
}

func (a *app) prefixUpdateCommand() *cobra.Command {
	var rename string
	var description string
	cmd := &cobra.Command{
		Use:   "update <prefix>",
		Short: "Rename a prefix or change its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Open(a.rootDir)
			if err != nil {
				return err
			}
			current, ok := findPrefix(store.Config(), args[0])
			if !ok {
				return fmt.Errorf("%w: %s", config.ErrPrefixNotFound, args[0])
			}
			next := current
			if cmd.Flags().Changed("prefix") {
				next.Prefix = rename
			}
			if cmd.Flags().Changed("description") {
				next.Description = description
			}
			if next == current {
				return errors.New("nothing to update: pass --prefix or --description")
			}
			if err := store.UpdatePrefix(current.Prefix, next); err != nil {
				return err
			}
			a.renderer.Success(fmt.Sprintf("updated %s", next.Prefix))
			return nil
		},
	}
	cmd.Flags().StringVar(&rename, "prefix", "", "new prefix text")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	return cmd
}

func (a *app) prefixRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <prefix>",
		Aliases: []string{"remove"},
		Short:   "Remove a branch prefix",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Open(a.rootDir)
			if err != nil {
				return err
			}
			current, ok := findPrefix(store.Config(), args[0])
			if err := store.RemovePrefix(args[0]); err != nil {
				return err
			}
			a.renderer.Success(fmt.Sprintf("removed %s", args[0]))
			if ok && current.IsDefault {
				a.renderer.Warn("no default prefix is set; run gbc prefix default <prefix>")
			}
			return nil
		},
	}
}

func (a *app) prefixDefaultCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "default <prefix>",
		Short: "Set the default branch prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Open(a.rootDir)
			if err != nil {
				return err
			}
			if err := store.SetDefault(args[0]); err != nil {
				return err
			}
			a.renderer.Success(fmt.Sprintf("default is now %s", args[0]))
			return nil
		},
	}
}

func (a *app) renderPrefixes(cfg config.Config) {
	a.renderer.Section("Prefixes")
	if len(cfg.BranchPrefixes) == 0 {
		a.renderer.Warn("no prefixes configured; run gbc prefix add <prefix>")
		return
	}
	for _, p := range cfg.BranchPrefixes {
		suffix := ""
		if p.IsDefault {
			suffix = "(default)"
		}
		a.renderer.BulletWithDescription(p.Prefix, p.Description, suffix)
	}
}

func findPrefix(cfg config.Config, name string) (config.BranchPrefix, bool) {
	for _, p := range cfg.BranchPrefixes {
		if p.Prefix == name {
			return p, true
		}
	}
	return config.BranchPrefix{}, false
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tasuku43/gbc/internal/app/create"
	"github.com/tasuku43/gbc/internal/app/prompt"
	"github.com/tasuku43/gbc/internal/domain/config"
	"github.com/tasuku43/gbc/internal/infra/gitrepo"
)

type createOptions struct {
	prefix         string
	base           string
	description    string
	dir            string
	yes            bool
	switchExisting bool
}

func addCreateFlags(fs *pflag.FlagSet, opts *createOptions) {
	fs.StringVar(&opts.prefix, "prefix", "", "branch prefix (skips the prefix prompt)")
	fs.StringVar(&opts.base, "base", "", "base branch (skips the base branch prompt)")
	fs.StringVarP(&opts.description, "message", "m", "", "branch description (skips the description prompt)")
	fs.BoolVarP(&opts.yes, "yes", "y", false, "create without asking for confirmation")
	fs.BoolVar(&opts.switchExisting, "switch-existing", false, "switch to the branch when it already exists")
	fs.StringVarP(&opts.dir, "dir", "C", "", "repository directory (default: current directory)")
}

func (a *app) createCommand() *cobra.Command {
	var opts createOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a branch interactively",
		Long: `Create a branch named <prefix><author>/<date>-<description>.

Prompts are skipped for values given as flags. Without a terminal every
value must come from flags or configuration, and --yes is required.`,
		Example: `  gbc create
  gbc create --prefix feature/ --base main -m "Add login form" --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCreate(cmd.Context(), opts)
		},
	}
	addCreateFlags(cmd.Flags(), &opts)
	return cmd
}

func (a *app) runCreate(ctx context.Context, opts createOptions) error {
	store, err := config.Open(a.rootDir)
	if err != nil {
		return err
	}
	dir := strings.TrimSpace(opts.dir)
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return err
		}
	}

	interactive := a.isTerminal()
	var p prompt.Prompter
	if interactive {
		p = a.newPrompter(a)
	}
	wf := &create.Workflow{
		Settings: store,
		Repo:     gitrepo.New(dir),
		Prompt:   p,
		Now:      a.now,
		Inputs: create.Inputs{
			Prefix:         opts.prefix,
			Base:           opts.base,
			Description:    opts.description,
			AssumeYes:      opts.yes,
			SwitchExisting: opts.switchExisting,
			NoPrompt:       !interactive,
		},
	}

	a.renderer.Section("Create branch")
	result := wf.Run(ctx)
	if !result.Success {
		if errors.Is(result.Err, create.ErrUserCancelled) {
			a.renderer.Warn("cancelled")
			return nil
		}
		return fmt.Errorf("%s: %w", result.Step, result.Err)
	}
	switch {
	case result.Created && result.Switched:
		a.renderer.Success(fmt.Sprintf("created and switched to %s", result.BranchName))
	case result.Created:
		a.renderer.Success(fmt.Sprintf("created %s", result.BranchName))
	default:
		a.renderer.Success(fmt.Sprintf("switched to existing %s", result.BranchName))
	}
	return nil
}

// Package cli wires the gbc command tree.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tasuku43/gbc/internal/app/prompt"
	"github.com/tasuku43/gbc/internal/infra/debuglog"
	"github.com/tasuku43/gbc/internal/infra/gitcmd"
	"github.com/tasuku43/gbc/internal/infra/output"
	"github.com/tasuku43/gbc/internal/infra/paths"
	"github.com/tasuku43/gbc/internal/ui"
)

// app carries process-wide state for one invocation. Tests build their own
// with buffers and a scripted prompter.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	v      *viper.Viper

	isTerminal  func() bool
	newPrompter func(a *app) prompt.Prompter
	now         func() time.Time

	rootDir  string
	useColor bool
	renderer *ui.Renderer
}

// Run executes the command line of the current process.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newApp(os.Stdin, os.Stdout, os.Stderr).execute(ctx, os.Args[1:])
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:     in,
		out:    out,
		errOut: errOut,
		v:      viper.New(),
		isTerminal: func() bool {
			return isTTY(in) && isTTY(out)
		},
		newPrompter: newTerminalPrompter,
		now:         time.Now,
	}
}

func (a *app) execute(ctx context.Context, args []string) error {
	cmd := a.rootCommand()
	cmd.SetArgs(args)
	defer func() {
		output.SetStepLogger(nil)
		_ = debuglog.Close()
	}()
	return cmd.ExecuteContext(ctx)
}

func (a *app) rootCommand() *cobra.Command {
	var opts createOptions
	root := &cobra.Command{
		Use:   "gbc",
		Short: "Create consistently named git branches",
		Long: `gbc builds branch names of the form <prefix><author>/<date>-<description>
and creates them from a chosen base branch.

Running gbc with no command starts the interactive create flow.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCreate(cmd.Context(), opts)
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.String("root", "", "override gbc config root")
	pf.BoolP("verbose", "v", false, "show git commands as they run")
	pf.Bool("debug", false, "write a debug log under <root>/logs")
	pf.Bool("no-color", false, "disable colored output")
	a.bindFlags(pf, "root", "verbose", "debug", "no-color")

	addCreateFlags(root.Flags(), &opts)
	root.AddCommand(
		a.createCommand(),
		a.initCommand(),
		a.prefixCommand(),
		a.configCommand(),
		a.previewCommand(),
		a.doctorCommand(),
		a.versionCommand(),
	)
	return root
}

// bindFlags maps flags onto viper keys so GBC_* variables fill in for flags
// that were not given. Keys use underscores (no_color <- GBC_NO_COLOR).
func (a *app) bindFlags(fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		_ = a.v.BindPFlag(strings.ReplaceAll(name, "-", "_"), fs.Lookup(name))
	}
	a.v.SetEnvPrefix("GBC")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindEnv("no_color", "GBC_NO_COLOR", "NO_COLOR")
}

func (a *app) setup() error {
	rootDir, err := paths.ResolveRoot(a.v.GetString("root"))
	if err != nil {
		return err
	}
	a.rootDir = rootDir
	gitcmd.SetVerbose(a.v.GetBool("verbose"))
	if a.v.GetBool("debug") || debuglog.EnvRequested() {
		if err := debuglog.Enable(rootDir); err != nil {
			return err
		}
	}
	a.useColor = !a.v.GetBool("no_color") && isTTY(a.out)
	a.renderer = ui.NewRenderer(a.out, ui.DefaultTheme(), a.useColor)
	output.SetStepLogger(a.renderer)
	return nil
}

func isTTY(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

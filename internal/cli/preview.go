package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tasuku43/gbc/internal/domain/branchname"
	"github.com/tasuku43/gbc/internal/domain/config"
)

type previewOptions struct {
	prefix      string
	author      string
	description string
	date        string
	noDate      bool
}

func (a *app) previewCommand() *cobra.Command {
	var opts previewOptions
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the branch name gbc would create",
		Long: `Print the branch name gbc would create without touching git.

The prefix defaults to the configured default prefix, the author to the
configured author, and the date to today in the configured format.`,
		Example: `  gbc preview -p feature/ -a "Jane Doe" -m "Add login form"
  gbc preview -m "Fix typo" --date 2024-01-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.rootDir)
			if err != nil {
				return err
			}
			name, err := previewName(cfg, opts, a.now())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.prefix, "prefix", "p", "", "branch prefix (default: configured default)")
	cmd.Flags().StringVarP(&opts.author, "author", "a", "", "author name (default: configured author)")
	cmd.Flags().StringVarP(&opts.description, "message", "m", "", "branch description")
	cmd.Flags().StringVar(&opts.date, "date", "", "date text to embed (default: today)")
	cmd.Flags().BoolVar(&opts.noDate, "no-date", false, "leave the date out of the name")
	return cmd
}

// previewName builds and checks a name from flags and configuration.
func previewName(cfg config.Config, opts previewOptions, now time.Time) (string, error) {
	prefix := strings.TrimSpace(opts.prefix)
	if prefix == "" {
		def, ok := cfg.DefaultPrefix()
		if !ok {
			return "", errors.New("no default prefix configured: pass --prefix")
		}
		prefix = def.Prefix
	}
	author := strings.TrimSpace(opts.author)
	if author == "" {
		author = cfg.CustomGitName
	}
	if branchname.NormalizeAuthor(author) == "" {
		return "", errors.New("author is required: pass --author or run gbc config set author <name>")
	}
	date := strings.TrimSpace(opts.date)
	switch {
	case opts.noDate:
		date = ""
	case date == "":
		date = branchname.FormatDate(now, cfg.DateFormat)
	}
	return branchname.Check(branchname.Options{
		Prefix:      prefix,
		Description: opts.description,
		Username:    author,
		Date:        date,
	})
}

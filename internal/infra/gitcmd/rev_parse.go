package gitcmd

import (
	"context"
	"strings"
)

// IsInsideWorkTree reports whether dir belongs to a git work tree. A missing
// repository is not an error; a missing git binary is.
func IsInsideWorkTree(ctx context.Context, dir string) (bool, error) {
	res, err := Run(ctx, []string{"rev-parse", "--is-inside-work-tree"}, Options{Dir: dir})
	if err != nil {
		if res.ExitCode == 128 {
			return false, nil
		}
		return false, err
	}
	return strings.TrimSpace(res.Stdout) == "true", nil
}

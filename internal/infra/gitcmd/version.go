package gitcmd

import (
	"context"
	"strings"
)

// Version returns the output of `git version`, e.g. "git version 2.44.0".
func Version(ctx context.Context) (string, error) {
	res, err := Run(ctx, []string{"version"}, Options{})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

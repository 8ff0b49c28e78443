package gitcmd

import (
	"context"
	"fmt"
	"strings"
)

// CheckRefFormatBranch validates a branch name using git check-ref-format.
func CheckRefFormatBranch(ctx context.Context, dir, name string) error {
	res, err := Run(ctx, []string{"check-ref-format", "--branch", name}, Options{Dir: dir})
	if err != nil {
		if msg := strings.TrimSpace(res.Stderr); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

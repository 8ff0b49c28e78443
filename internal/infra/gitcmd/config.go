package gitcmd

import (
	"context"
	"strings"
)

// ConfigGet reads a single git config value. ok is false when the key is unset.
func ConfigGet(ctx context.Context, dir, key string) (string, bool, error) {
	res, err := Run(ctx, []string{"config", "--get", key}, Options{Dir: dir})
	if err != nil {
		if res.ExitCode == 1 {
			return "", false, nil
		}
		return "", false, err
	}
	value := strings.TrimSpace(res.Stdout)
	return value, value != "", nil
}

package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	appDirName = "gbc"
	RootEnv    = "GBC_ROOT"
)

// ResolveRoot picks the directory holding gbc.yaml and logs/: the flag value,
// then $GBC_ROOT, then $XDG_CONFIG_HOME/gbc, then ~/.config/gbc.
func ResolveRoot(flagRoot string) (string, error) {
	if strings.TrimSpace(flagRoot) != "" {
		return normalizeRoot(flagRoot)
	}

	if envRoot := strings.TrimSpace(os.Getenv(RootEnv)); envRoot != "" {
		return normalizeRoot(envRoot)
	}

	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		base, err := normalizeRoot(xdg)
		if err != nil {
			return "", err
		}
		return filepath.Join(base, appDirName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDirName), nil
}

func normalizeRoot(path string) (string, error) {
	expanded, err := expandHome(strings.TrimSpace(path))
	if err != nil {
		return "", err
	}
	return filepath.Clean(expanded), nil
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}

	return path, nil
}

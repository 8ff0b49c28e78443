// Package initcmd lays out a fresh gbc root.
package initcmd

import (
	"fmt"
	"os"

	"github.com/tasuku43/gbc/internal/domain/config"
	"github.com/tasuku43/gbc/internal/infra/paths"
)

type Result struct {
	RootDir      string
	CreatedDirs  []string
	CreatedFiles []string
	SkippedFiles []string
	SkippedDirs  []string
}

// Run creates the root and logs directories and a default gbc.yaml. Existing
// entries are left alone.
func Run(rootDir string) (Result, error) {
	if rootDir == "" {
		return Result{}, fmt.Errorf("root directory is required")
	}

	result := Result{RootDir: rootDir}

	for _, dir := range []string{rootDir, paths.LogsDir(rootDir)} {
		if exists, err := paths.DirExists(dir); err != nil {
			return Result{}, err
		} else if exists {
			result.SkippedDirs = append(result.SkippedDirs, dir)
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create dir: %w", err)
		}
		result.CreatedDirs = append(result.CreatedDirs, dir)
	}

	configPath := config.Path(rootDir)
	if exists, err := paths.FileExists(configPath); err != nil {
		return Result{}, err
	} else if exists {
		result.SkippedFiles = append(result.SkippedFiles, configPath)
	} else {
		if err := config.Save(rootDir, config.Default()); err != nil {
			return Result{}, err
		}
		result.CreatedFiles = append(result.CreatedFiles, configPath)
	}

	return result, nil
}

package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileExists reports whether the path exists and is a file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("path is a directory: %s", path)
	}
	return true, nil
}

// DirExists reports whether the path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if !info.IsDir() {
		return false, fmt.Errorf("path is not a directory: %s", path)
	}
	return true, nil
}

// LogsDir is where debug logs are written.
func LogsDir(rootDir string) string {
	return filepath.Join(rootDir, "logs")
}

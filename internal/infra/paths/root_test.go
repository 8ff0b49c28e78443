package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveRootFlagOverrides(t *testing.T) {
	t.Setenv(RootEnv, "/tmp/ignore")
	root, err := ResolveRoot("/tmp/custom")
	if err != nil {
		t.Fatalf("ResolveRoot error: %v", err)
	}
	if root != "/tmp/custom" {
		t.Fatalf("expected /tmp/custom, got %s", root)
	}
}

func TestResolveRootEnvOverridesXDG(t *testing.T) {
	t.Setenv(RootEnv, "/tmp/env-root")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	root, err := ResolveRoot("")
	if err != nil {
		t.Fatalf("ResolveRoot error: %v", err)
	}
	if root != "/tmp/env-root" {
		t.Fatalf("expected /tmp/env-root, got %s", root)
	}
}

func TestResolveRootXDG(t *testing.T) {
	t.Setenv(RootEnv, "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	root, err := ResolveRoot("")
	if err != nil {
		t.Fatalf("ResolveRoot error: %v", err)
	}
	if root != filepath.Join("/tmp/xdg", "gbc") {
		t.Fatalf("expected /tmp/xdg/gbc, got %s", root)
	}
}

func TestResolveRootDefault(t *testing.T) {
	temp := t.TempDir()
	t.Setenv("HOME", temp)
	t.Setenv(RootEnv, "")
	t.Setenv("XDG_CONFIG_HOME", "")
	root, err := ResolveRoot("")
	if err != nil {
		t.Fatalf("ResolveRoot error: %v", err)
	}
	expected := filepath.Join(temp, ".config", "gbc")
	if root != expected {
		t.Fatalf("expected %s, got %s", expected, root)
	}
}

func TestResolveRootExpandsHome(t *testing.T) {
	temp := t.TempDir()
	t.Setenv("HOME", temp)
	root, err := ResolveRoot("~/branches")
	if err != nil {
		t.Fatalf("ResolveRoot error: %v", err)
	}
	if root != filepath.Join(temp, "branches") {
		t.Fatalf("unexpected root %s", root)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gbc.yaml")
	ok, err := FileExists(path)
	if err != nil || ok {
		t.Fatalf("expected missing file, got ok=%v err=%v", ok, err)
	}
	if err := os.WriteFile(path, []byte("version: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ok, err = FileExists(path)
	if err != nil || !ok {
		t.Fatalf("expected file, got ok=%v err=%v", ok, err)
	}
	if _, err := FileExists(dir); err == nil {
		t.Fatalf("expected error for directory")
	}
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	ok, err := DirExists(LogsDir(dir))
	if err != nil || ok {
		t.Fatalf("expected missing logs dir, got ok=%v err=%v", ok, err)
	}
	ok, err = DirExists(dir)
	if err != nil || !ok {
		t.Fatalf("expected dir, got ok=%v err=%v", ok, err)
	}
	file := filepath.Join(dir, "gbc.yaml")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := DirExists(file); err == nil {
		t.Fatalf("expected error for file")
	}
}

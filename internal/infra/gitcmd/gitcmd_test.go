package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseBranches(t *testing.T) {
	out := strings.Join([]string{
		" \x00refs/remotes/origin/HEAD\x00abc1234\x00refs/remotes/origin/main",
		" \x00refs/remotes/origin/main\x00abc1234\x00",
		"*\x00refs/heads/main\x00abc1234\x00",
		" \x00refs/heads/feature/alice/2024-01-01-login\x00def5678\x00",
		"",
	}, "\n")
	got := parseBranches(out)
	if len(got) != 3 {
		t.Fatalf("expected 3 branches, got %+v", got)
	}
	if got[0].Name != "main" || !got[0].Current || got[0].Remote {
		t.Fatalf("unexpected first branch %+v", got[0])
	}
	if got[1].Name != "feature/alice/2024-01-01-login" || got[1].Commit != "def5678" {
		t.Fatalf("unexpected second branch %+v", got[1])
	}
	if got[2].Name != "origin/main" || !got[2].Remote || got[2].Current {
		t.Fatalf("unexpected remote branch %+v", got[2])
	}
}

func TestRunRejectsDisallowedSubcommand(t *testing.T) {
	res, err := Run(context.Background(), []string{"push", "origin"}, Options{})
	if err == nil {
		t.Fatalf("expected error for push")
	}
	if res.ExitCode != -1 {
		t.Fatalf("expected exit code -1, got %d", res.ExitCode)
	}
	if _, err := Run(context.Background(), nil, Options{}); err == nil {
		t.Fatalf("expected error for empty args")
	}
}

func TestCommandErrorIncludesStderr(t *testing.T) {
	cause := errors.New("exit status 128")
	err := &CommandError{Args: []string{"checkout", "-b", "x", "main"}, Stderr: "fatal: a branch named 'x' already exists", Err: cause}
	if !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected stderr in message, got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to unwrap")
	}
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func isolateGitConfig(t *testing.T, userName string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gitconfig")
	body := ""
	if userName != "" {
		body += "[user]\n\tname = " + userName + "\n\temail = test@example.com\n"
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write gitconfig: %v", err)
	}
	t.Setenv("GIT_CONFIG_GLOBAL", path)
	t.Setenv("GIT_CONFIG_SYSTEM", "/dev/null")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_TERMINAL_PROMPT", "0")
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Env = os.Environ()
	if dir != "" {
		cmd.Dir = dir
	}
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("git %s failed: %v\nstderr:\n%s", strings.Join(args, " "), err, stderr.String())
	}
	return strings.TrimSpace(stdout.String())
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "checkout", "-b", "main")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")
	return dir
}

func TestGitIntegration(t *testing.T) {
	requireGit(t)
	isolateGitConfig(t, "Alice Example")
	ctx := context.Background()
	repo := initRepo(t)

	inside, err := IsInsideWorkTree(ctx, repo)
	if err != nil || !inside {
		t.Fatalf("IsInsideWorkTree(repo) = %v, %v", inside, err)
	}
	inside, err = IsInsideWorkTree(ctx, t.TempDir())
	if err != nil || inside {
		t.Fatalf("IsInsideWorkTree(tmp) = %v, %v", inside, err)
	}

	name, ok, err := ConfigGet(ctx, repo, "user.name")
	if err != nil || !ok || name != "Alice Example" {
		t.Fatalf("ConfigGet user.name = %q %v %v", name, ok, err)
	}
	if _, ok, err := ConfigGet(ctx, repo, "gbc.missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := CheckRefFormatBranch(ctx, repo, "feature/alice/2024-01-01-login"); err != nil {
		t.Fatalf("CheckRefFormatBranch valid: %v", err)
	}
	if err := CheckRefFormatBranch(ctx, repo, "bad..name"); err == nil {
		t.Fatalf("expected check-ref-format failure")
	}

	if err := CreateBranch(ctx, repo, "feature/a", "main"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := CreateAndCheckout(ctx, repo, "feature/b", "main"); err != nil {
		t.Fatalf("CreateAndCheckout: %v", err)
	}
	if got := runGit(t, repo, "rev-parse", "--abbrev-ref", "HEAD"); got != "feature/b" {
		t.Fatalf("expected HEAD on feature/b, got %s", got)
	}
	err = CreateAndCheckout(ctx, repo, "feature/b", "main")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Stderr == "" {
		t.Fatalf("expected CommandError with stderr, got %v", err)
	}
	if err := Checkout(ctx, repo, "feature/a"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	branches, err := ListBranches(ctx, repo)
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	current := 0
	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.Name)
		if b.Current {
			current++
			if b.Name != "feature/a" {
				t.Fatalf("unexpected current branch %s", b.Name)
			}
		}
	}
	if current != 1 || len(branches) != 3 {
		t.Fatalf("unexpected branches %v", names)
	}
}

func TestListBranchesIncludesRemotes(t *testing.T) {
	requireGit(t)
	isolateGitConfig(t, "Bob")
	ctx := context.Background()
	upstream := initRepo(t)
	runGit(t, upstream, "branch", "release/1.0")
	clone := filepath.Join(t.TempDir(), "clone")
	runGit(t, "", "clone", upstream, clone)

	branches, err := ListBranches(ctx, clone)
	if err != nil {
		t.Fatalf("ListBranches: %v", err)
	}
	var remote []string
	for _, b := range branches {
		if b.Remote {
			remote = append(remote, b.Name)
		}
		if b.Name == "origin/HEAD" {
			t.Fatalf("symbolic ref should be skipped")
		}
	}
	if strings.Join(remote, ",") != "origin/main,origin/release/1.0" {
		t.Fatalf("unexpected remote branches %v", remote)
	}
	if branches[0].Remote {
		t.Fatalf("expected local branches first")
	}
	if err := CheckoutTracking(ctx, clone, "origin/release/1.0"); err != nil {
		t.Fatalf("CheckoutTracking: %v", err)
	}
	if got := runGit(t, clone, "rev-parse", "--abbrev-ref", "HEAD"); got != "release/1.0" {
		t.Fatalf("expected HEAD on release/1.0, got %s", got)
	}
}

func TestVersion(t *testing.T) {
	requireGit(t)
	v, err := Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if !strings.HasPrefix(v, "git version") {
		t.Fatalf("unexpected version %q", v)
	}
}

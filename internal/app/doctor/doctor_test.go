package doctor

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tasuku43/gbc/internal/domain/config"
)

func TestParseGitVersion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		input  string
		want   gitVersion
		wantOK bool
	}{
		{name: "standard", input: "git version 2.39.1", want: gitVersion{2, 39, 1}, wantOK: true},
		{name: "apple", input: "git version 2.39.1 (Apple Git-143)", want: gitVersion{2, 39, 1}, wantOK: true},
		{name: "windows", input: "git version 2.42.0.windows.1", want: gitVersion{2, 42, 0}, wantOK: true},
		{name: "no patch", input: "git version 2.30", want: gitVersion{2, 30, 0}, wantOK: true},
		{name: "invalid", input: "version unknown", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := parseGitVersion(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok mismatch: got %v want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("version mismatch: got %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestGitVersionLess(t *testing.T) {
	t.Parallel()
	if !(gitVersion{major: 2, minor: 19, patch: 0}.Less(minGitVersion)) {
		t.Fatalf("expected version to be less than minimum")
	}
	if (gitVersion{major: 2, minor: 20, patch: 0}.Less(minGitVersion)) {
		t.Fatalf("expected version to meet minimum")
	}
}

func TestOsCaveats(t *testing.T) {
	t.Parallel()
	if len(osCaveats("windows")) == 0 {
		t.Fatalf("expected windows caveat")
	}
	if len(osCaveats("linux")) != 0 {
		t.Fatalf("expected no caveat for linux")
	}
}

func isolateGit(t *testing.T, userName string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	path := filepath.Join(t.TempDir(), "gitconfig")
	body := "[user]\n\temail = test@example.com\n"
	if userName != "" {
		body += "\tname = " + userName + "\n"
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write gitconfig: %v", err)
	}
	t.Setenv("GIT_CONFIG_GLOBAL", path)
	t.Setenv("GIT_CONFIG_SYSTEM", "/dev/null")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git init: %v\n%s", err, out)
	}
	return dir
}

func hasIssue(result Result, kind string) bool {
	for _, issue := range result.Issues {
		if issue.Kind == kind {
			return true
		}
	}
	return false
}

func TestCheckHealthyRepository(t *testing.T) {
	isolateGit(t, "Alice")
	result, err := Check(context.Background(), t.TempDir(), initRepo(t))
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if len(result.Issues) != 0 {
		t.Fatalf("expected no issues, got %+v", result.Issues)
	}
	if !strings.Contains(strings.Join(result.Details, "\n"), "author: Alice (git user.name)") {
		t.Fatalf("expected author detail, got %v", result.Details)
	}
}

func TestCheckMissingAuthor(t *testing.T) {
	isolateGit(t, "")
	result, err := Check(context.Background(), t.TempDir(), initRepo(t))
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if !hasIssue(result, "missing_author") {
		t.Fatalf("expected missing_author, got %+v", result.Issues)
	}
}

func TestCheckCustomAuthorSkipsGit(t *testing.T) {
	isolateGit(t, "")
	root := t.TempDir()
	cfg := config.Default()
	cfg.CustomGitName = "Jane"
	if err := config.Save(root, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	result, err := Check(context.Background(), root, initRepo(t))
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if hasIssue(result, "missing_author") {
		t.Fatalf("custom author should satisfy the check, got %+v", result.Issues)
	}
}

func TestCheckReportsConfigIssues(t *testing.T) {
	isolateGit(t, "Alice")
	root := t.TempDir()
	body := "branch_prefixes:\n  - prefix: feature/\n  - prefix: feature/\n"
	if err := os.WriteFile(config.Path(root), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	result, err := Check(context.Background(), root, t.TempDir())
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if !hasIssue(result, config.IssueKindDuplicatePrefix) {
		t.Fatalf("expected duplicate prefix issue, got %+v", result.Issues)
	}
	if len(result.Warnings) == 0 {
		t.Fatalf("expected a not-a-repository warning")
	}
}

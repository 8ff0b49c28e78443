package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tasuku43/gbc/internal/app/create"
	"github.com/tasuku43/gbc/internal/app/prompt"
	"github.com/tasuku43/gbc/internal/domain/branchname"
	"github.com/tasuku43/gbc/internal/domain/config"
)

type testApp struct {
	*app
	out    *bytes.Buffer
	errOut *bytes.Buffer
	root   string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(""), &out, &errOut)
	a.now = func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC) }
	return &testApp{app: a, out: &out, errOut: &errOut, root: t.TempDir()}
}

func (ta *testApp) run(t *testing.T, args ...string) error {
	t.Helper()
	return ta.execute(context.Background(), append([]string{"--root", ta.root}, args...))
}

func (ta *testApp) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	ta.out.Reset()
	if err := ta.run(t, args...); err != nil {
		t.Fatalf("gbc %s: %v", strings.Join(args, " "), err)
	}
	return ta.out.String()
}

type scriptedPrompter struct {
	selects  []string
	inputs   []string
	confirms []string
}

func (p *scriptedPrompter) Select(string, []prompt.Choice) (string, bool, error) {
	if len(p.selects) == 0 {
		return "", false, nil
	}
	v := p.selects[0]
	p.selects = p.selects[1:]
	return v, true, nil
}

func (p *scriptedPrompter) Input(string, string, string, prompt.Validator) (string, bool, error) {
	if len(p.inputs) == 0 {
		return "", false, nil
	}
	v := p.inputs[0]
	p.inputs = p.inputs[1:]
	return v, true, nil
}

func (p *scriptedPrompter) Confirm(string, []string, []prompt.Action) (string, error) {
	if len(p.confirms) == 0 {
		return "", nil
	}
	v := p.confirms[0]
	p.confirms = p.confirms[1:]
	return v, nil
}

func TestPrefixCommands(t *testing.T) {
	ta := newTestApp(t)
	ta.mustRun(t, "prefix", "add", "chore/", "-d", "Chores", "--default")
	ta.mustRun(t, "prefix", "update", "chore/", "--prefix", "maint/", "-d", "Maintenance")
	ta.mustRun(t, "prefix", "rm", "docs/")

	got := ta.mustRun(t, "prefix", "ls")
	want := "" +
		"Prefixes\n" +
		"  • feature/ - New feature\n" +
		"  • bugfix/ - Bug fix\n" +
		"  • hotfix/ - Urgent production fix\n" +
		"  • release/ - Release preparation\n" +
		"  • maint/ - Maintenance (default)\n"
	if got != want {
		t.Fatalf("unexpected output:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}

	ta.mustRun(t, "prefix", "default", "bugfix/")
	cfg, err := config.Load(ta.root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def, ok := cfg.DefaultPrefix()
	if !ok || def.Prefix != "bugfix/" {
		t.Fatalf("expected bugfix/ default, got %+v", def)
	}
}

func TestPrefixCommandErrors(t *testing.T) {
	ta := newTestApp(t)
	if err := ta.run(t, "prefix", "add", "feature/"); !errors.Is(err, config.ErrDuplicatePrefix) {
		t.Fatalf("expected ErrDuplicatePrefix, got %v", err)
	}
	if err := ta.run(t, "prefix", "rm", "nope/"); !errors.Is(err, config.ErrPrefixNotFound) {
		t.Fatalf("expected ErrPrefixNotFound, got %v", err)
	}
	if err := ta.run(t, "prefix", "update", "feature/"); err == nil {
		t.Fatalf("expected error when nothing changes")
	}
	if err := ta.run(t, "prefix", "add"); err == nil {
		t.Fatalf("expected usage error without a prefix")
	}
}

func TestPrefixWithoutTerminalLists(t *testing.T) {
	ta := newTestApp(t)
	got := ta.mustRun(t, "prefix")
	if !strings.Contains(got, "feature/ - New feature (default)") {
		t.Fatalf("expected prefix list, got:\n%s", got)
	}
}

func TestPrefixInteractiveEditor(t *testing.T) {
	ta := newTestApp(t)
	p := &scriptedPrompter{
		selects:  []string{"default", "docs/", "done"},
	}
	ta.isTerminal = func() bool { return true }
	ta.newPrompter = func(*app) prompt.Prompter { return p }
	ta.mustRun(t, "prefix")
	cfg, err := config.Load(ta.root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if def, _ := cfg.DefaultPrefix(); def.Prefix != "docs/" {
		t.Fatalf("expected docs/ default, got %+v", def)
	}
}

func TestConfigSetShowReset(t *testing.T) {
	ta := newTestApp(t)
	ta.mustRun(t, "config", "set", "date-format", "yyyymmdd")
	ta.mustRun(t, "config", "set", "author", "Jane Doe")
	ta.mustRun(t, "config", "set", "auto-checkout", "false")

	got := ta.mustRun(t, "config", "show")
	for _, want := range []string{
		"  date_format: YYYYMMDD\n",
		"  custom_git_name: Jane Doe\n",
		"  auto_checkout: false\n",
		"path: " + filepath.Join(ta.root, config.FileName),
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}

	if err := ta.run(t, "config", "set", "auto-checkout", "maybe"); err == nil {
		t.Fatalf("expected error for non-bool auto-checkout")
	}
	if err := ta.run(t, "config", "set", "colour", "blue"); err == nil {
		t.Fatalf("expected error for unknown key")
	}

	ta.mustRun(t, "config", "reset")
	cfg, err := config.Load(ta.root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DateFormat != branchname.DefaultDateFormat || cfg.CustomGitName != "" || !cfg.AutoCheckout {
		t.Fatalf("expected defaults after reset, got %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	ta := newTestApp(t)
	body := "branch_prefixes:\n  - prefix: feature/\n  - prefix: feature/\n"
	if err := os.WriteFile(config.Path(ta.root), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ta.out.Reset()
	if err := ta.run(t, "config", "validate"); err == nil {
		t.Fatalf("expected validate to fail")
	}
	if !strings.Contains(ta.out.String(), config.IssueKindDuplicatePrefix+" (feature/)") {
		t.Fatalf("expected duplicate issue, got:\n%s", ta.out.String())
	}

	ta.mustRun(t, "config", "reset")
	got := ta.mustRun(t, "config", "validate")
	if !strings.Contains(got, "is valid") {
		t.Fatalf("expected valid after reset, got:\n%s", got)
	}
}

func TestPreview(t *testing.T) {
	ta := newTestApp(t)
	got := ta.mustRun(t, "preview", "-p", "feature/", "-a", "Jane Doe", "-m", "Add login form")
	if got != "feature/jane-doe/2024-03-05-add-login-form\n" {
		t.Fatalf("unexpected preview %q", got)
	}
	got = ta.mustRun(t, "preview", "-a", "Jane", "-m", "fix", "--no-date")
	if got != "feature/jane/fix\n" {
		t.Fatalf("unexpected preview %q", got)
	}
	if err := ta.run(t, "preview", "-m", "fix"); err == nil {
		t.Fatalf("expected missing author error")
	}
	if err := ta.run(t, "preview", "-a", "Jane", "-m", "bad~name"); !errors.Is(err, branchname.ErrInvalidCharacter) {
		t.Fatalf("expected ErrInvalidCharacter, got %v", err)
	}
}

func TestPreviewNameUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.CustomGitName = "Bob"
	cfg.DateFormat = branchname.DateShort
	name, err := previewName(cfg, previewOptions{description: "Quick fix"}, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("previewName: %v", err)
	}
	if name != "feature/bob/241201-quick-fix" {
		t.Fatalf("unexpected name %q", name)
	}

	cfg.BranchPrefixes[0].IsDefault = false
	if _, err := previewName(cfg, previewOptions{description: "x"}, time.Now()); err == nil {
		t.Fatalf("expected error without default prefix")
	}
}

func TestRootFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GBC_ROOT", dir)
	var out bytes.Buffer
	a := newApp(strings.NewReader(""), &out, &out)
	if err := a.execute(context.Background(), []string{"prefix", "add", "env/"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := findPrefix(cfg, "env/"); !ok {
		t.Fatalf("expected env/ saved under GBC_ROOT")
	}
}

func TestVersion(t *testing.T) {
	ta := newTestApp(t)
	got := ta.mustRun(t, "version")
	if !strings.HasPrefix(got, "gbc dev ") {
		t.Fatalf("unexpected version output %q", got)
	}
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func gitRepo(t *testing.T) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "gitconfig")
	if err := os.WriteFile(cfgPath, []byte("[user]\n\tname = Alice Example\n\temail = alice@example.com\n"), 0o644); err != nil {
		t.Fatalf("write gitconfig: %v", err)
	}
	t.Setenv("GIT_CONFIG_GLOBAL", cfgPath)
	t.Setenv("GIT_CONFIG_SYSTEM", "/dev/null")
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_TERMINAL_PROMPT", "0")

	dir := t.TempDir()
	git := func(args ...string) string {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
		}
		return strings.TrimSpace(string(out))
	}
	git("init")
	git("checkout", "-b", "main")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	git("add", ".")
	git("commit", "-m", "init")
	return dir
}

func currentBranch(t *testing.T, dir string) string {
	t.Helper()
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("rev-parse: %v", err)
	}
	return strings.TrimSpace(string(out))
}

func TestCreateNonInteractive(t *testing.T) {
	requireGit(t)
	repo := gitRepo(t)
	ta := newTestApp(t)

	got := ta.mustRun(t, "create", "-C", repo, "--prefix", "bugfix", "--base", "main", "-m", "Fix login", "--yes")
	want := "bugfix/alice-example/2024-03-05-fix-login"
	if !strings.Contains(got, "created and switched to "+want) {
		t.Fatalf("unexpected output:\n%s", got)
	}
	if branch := currentBranch(t, repo); branch != want {
		t.Fatalf("expected to be on %s, got %s", want, branch)
	}

	err := ta.run(t, "-C", repo, "--base", "main", "--prefix", "bugfix/", "-m", "Fix login", "--yes")
	if !errors.Is(err, create.ErrBranchExists) {
		t.Fatalf("expected ErrBranchExists on second run, got %v", err)
	}
	ta.mustRun(t, "-C", repo, "--base", "main", "--prefix", "bugfix/", "-m", "Fix login", "--yes", "--switch-existing")
}

func TestCreateNonInteractiveRequiresYes(t *testing.T) {
	requireGit(t)
	repo := gitRepo(t)
	ta := newTestApp(t)
	err := ta.run(t, "create", "-C", repo, "-m", "Fix login")
	if !errors.Is(err, create.ErrPromptRequired) {
		t.Fatalf("expected ErrPromptRequired, got %v", err)
	}
	if branch := currentBranch(t, repo); branch != "main" {
		t.Fatalf("branch changed to %s", branch)
	}
}

func TestCreateInteractiveCancel(t *testing.T) {
	requireGit(t)
	repo := gitRepo(t)
	ta := newTestApp(t)
	ta.isTerminal = func() bool { return true }
	ta.newPrompter = func(*app) prompt.Prompter {
		return &scriptedPrompter{selects: []string{"feature/", "main"}, inputs: []string{"Try it"}, confirms: []string{create.ActionCancel}}
	}
	got := ta.mustRun(t, "create", "-C", repo)
	if !strings.Contains(got, "cancelled") {
		t.Fatalf("expected cancelled message, got:\n%s", got)
	}
	if branch := currentBranch(t, repo); branch != "main" {
		t.Fatalf("branch changed to %s", branch)
	}
}

func TestDoctor(t *testing.T) {
	requireGit(t)
	repo := gitRepo(t)
	ta := newTestApp(t)
	got := ta.mustRun(t, "doctor", "-C", repo)
	if !strings.Contains(got, "author: Alice Example (git user.name)") || !strings.Contains(got, "no issues found") {
		t.Fatalf("unexpected doctor output:\n%s", got)
	}
}

func TestInit(t *testing.T) {
	ta := newTestApp(t)
	got := ta.mustRun(t, "init")
	if !strings.Contains(got, "created "+config.Path(ta.root)) {
		t.Fatalf("expected gbc.yaml to be created, got:\n%s", got)
	}
	got = ta.mustRun(t, "init")
	if !strings.Contains(got, "kept existing "+config.Path(ta.root)) {
		t.Fatalf("expected gbc.yaml to be kept, got:\n%s", got)
	}
}

// Package doctor checks that gbc can run: git itself, gbc.yaml and the
// author a branch name would use.
package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/tasuku43/gbc/internal/domain/branchname"
	"github.com/tasuku43/gbc/internal/domain/config"
	"github.com/tasuku43/gbc/internal/infra/gitcmd"
	"github.com/tasuku43/gbc/internal/infra/gitrepo"
	"github.com/tasuku43/gbc/internal/infra/paths"
)

type Issue struct {
	Kind    string
	Path    string
	Message string
}

type Result struct {
	Issues   []Issue
	Warnings []string
	Details  []string
}

type gitVersion struct {
	major int
	minor int
	patch int
}

func (v gitVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

func (v gitVersion) Less(other gitVersion) bool {
	if v.major != other.major {
		return v.major < other.major
	}
	if v.minor != other.minor {
		return v.minor < other.minor
	}
	return v.patch < other.patch
}

var minGitVersion = gitVersion{major: 2, minor: 20, patch: 0}
var gitVersionPattern = regexp.MustCompile(`\b(\d+)\.(\d+)(?:\.(\d+))?`)

// Check inspects git, the config under rootDir, and the repository at
// repoDir. Problems that stop gbc create are Issues; the rest are Warnings.
func Check(ctx context.Context, rootDir, repoDir string) (Result, error) {
	if strings.TrimSpace(rootDir) == "" {
		return Result{}, fmt.Errorf("root directory is required")
	}
	result := Result{
		Details: []string{fmt.Sprintf("os: %s/%s", runtime.GOOS, runtime.GOARCH)},
	}
	result.Warnings = append(result.Warnings, osCaveats(runtime.GOOS)...)

	gitOK := checkGit(ctx, &result)
	cfg, cfgOK := checkConfig(rootDir, &result)
	if !gitOK {
		return result, nil
	}
	checkRepository(ctx, repoDir, cfg, cfgOK, &result)
	return result, nil
}

func checkGit(ctx context.Context, result *Result) bool {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		result.Issues = append(result.Issues, Issue{Kind: "missing_dependency", Message: "git not found in PATH"})
		return false
	}
	result.Details = append(result.Details, fmt.Sprintf("git path: %s", gitPath))

	out, err := gitcmd.Version(ctx)
	if err != nil {
		result.Issues = append(result.Issues, Issue{Kind: "git_version_check_failed", Message: err.Error()})
		return false
	}
	result.Details = append(result.Details, fmt.Sprintf("git version: %s", out))
	parsed, ok := parseGitVersion(out)
	if !ok {
		result.Issues = append(result.Issues, Issue{
			Kind:    "invalid_git_version",
			Message: fmt.Sprintf("unable to parse git version: %s", out),
		})
		return true
	}
	if parsed.Less(minGitVersion) {
		result.Issues = append(result.Issues, Issue{
			Kind:    "git_version_too_old",
			Message: fmt.Sprintf("git %s is older than required %s", parsed, minGitVersion),
		})
	}
	return true
}

func checkConfig(rootDir string, result *Result) (config.Config, bool) {
	path := config.Path(rootDir)
	exists, err := paths.FileExists(path)
	if err != nil {
		result.Issues = append(result.Issues, Issue{Kind: "invalid_config", Path: path, Message: err.Error()})
		return config.Config{}, false
	}
	if !exists {
		result.Details = append(result.Details, fmt.Sprintf("config: %s (not created yet, using defaults)", path))
		return config.Default(), true
	}
	result.Details = append(result.Details, fmt.Sprintf("config: %s", path))

	validation, err := config.Validate(rootDir)
	if err != nil {
		result.Issues = append(result.Issues, Issue{Kind: "invalid_config", Path: path, Message: err.Error()})
		return config.Config{}, false
	}
	for _, issue := range validation.Issues {
		msg := issue.Message
		if issue.Prefix != "" {
			msg = fmt.Sprintf("%s: %s", issue.Prefix, msg)
		}
		result.Issues = append(result.Issues, Issue{Kind: issue.Kind, Path: path, Message: msg})
	}
	if len(validation.Issues) > 0 {
		return config.Config{}, false
	}
	cfg, err := config.Load(rootDir)
	if err != nil {
		result.Issues = append(result.Issues, Issue{Kind: "invalid_config", Path: path, Message: err.Error()})
		return config.Config{}, false
	}
	if len(cfg.BranchPrefixes) == 0 {
		result.Issues = append(result.Issues, Issue{Kind: "no_prefixes", Path: path, Message: "no branch prefixes configured"})
	} else if _, ok := cfg.DefaultPrefix(); !ok {
		result.Warnings = append(result.Warnings, "no default prefix: non-interactive create needs --prefix")
	}
	return cfg, true
}

func checkRepository(ctx context.Context, repoDir string, cfg config.Config, cfgOK bool, result *Result) {
	if cfgOK && branchname.NormalizeAuthor(cfg.CustomGitName) != "" {
		result.Details = append(result.Details, fmt.Sprintf("author: %s (gbc config)", cfg.CustomGitName))
	}
	if strings.TrimSpace(repoDir) == "" {
		return
	}
	repo := gitrepo.New(repoDir)
	isRepo, err := repo.IsRepository(ctx)
	if err != nil {
		result.Issues = append(result.Issues, Issue{Kind: "repository_check_failed", Path: repoDir, Message: err.Error()})
		return
	}
	if !isRepo {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s is not inside a git repository", repoDir))
		return
	}
	result.Details = append(result.Details, fmt.Sprintf("repository: %s", repoDir))
	if cfgOK && branchname.NormalizeAuthor(cfg.CustomGitName) != "" {
		return
	}
	author, ok, err := repo.ConfiguredAuthor(ctx)
	switch {
	case err != nil:
		result.Issues = append(result.Issues, Issue{Kind: "missing_author", Path: repoDir, Message: err.Error()})
	case !ok || branchname.NormalizeAuthor(author) == "":
		result.Issues = append(result.Issues, Issue{
			Kind:    "missing_author",
			Path:    repoDir,
			Message: "git user.name is not set; run git config user.name or gbc config set author <name>",
		})
	default:
		result.Details = append(result.Details, fmt.Sprintf("author: %s (git user.name)", author))
	}
}

func parseGitVersion(output string) (gitVersion, bool) {
	matches := gitVersionPattern.FindStringSubmatch(output)
	if len(matches) < 3 {
		return gitVersion{}, false
	}
	major, err := strconv.Atoi(matches[1])
	if err != nil {
		return gitVersion{}, false
	}
	minor, err := strconv.Atoi(matches[2])
	if err != nil {
		return gitVersion{}, false
	}
	patch := 0
	if len(matches) > 3 && matches[3] != "" {
		value, err := strconv.Atoi(matches[3])
		if err != nil {
			return gitVersion{}, false
		}
		patch = value
	}
	return gitVersion{major: major, minor: minor, patch: patch}, true
}

func osCaveats(goos string) []string {
	switch strings.ToLower(strings.TrimSpace(goos)) {
	case "windows":
		return []string{"Windows detected: branch names are checked with git's rules only; case-insensitive filesystems may still clash."}
	default:
		return nil
	}
}

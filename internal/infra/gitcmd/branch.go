package gitcmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

const (
	headsPrefix   = "refs/heads/"
	remotesPrefix = "refs/remotes/"
)

// Branch is one entry of `git for-each-ref` over local and remote heads.
type Branch struct {
	Name    string
	Ref     string
	Commit  string
	Current bool
	Remote  bool
}

var branchFormat = strings.Join([]string{"%(HEAD)", "%(refname)", "%(objectname:short)", "%(symref)"}, "%00")

// ListBranches returns local branches then remote-tracking branches, each in
// ref order. Symbolic refs such as origin/HEAD are skipped.
func ListBranches(ctx context.Context, dir string) ([]Branch, error) {
	res, err := Run(ctx, []string{"for-each-ref", "--format=" + branchFormat, "refs/heads", "refs/remotes"}, Options{Dir: dir})
	if err != nil {
		if msg := strings.TrimSpace(res.Stderr); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return parseBranches(res.Stdout), nil
}

func parseBranches(out string) []Branch {
	var branches []Branch
	for _, line := range strings.Split(strings.ReplaceAll(out, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\x00")
		if len(fields) < 3 {
			continue
		}
		if len(fields) >= 4 && strings.TrimSpace(fields[3]) != "" {
			continue
		}
		ref := strings.TrimSpace(fields[1])
		b := Branch{
			Ref:     ref,
			Commit:  strings.TrimSpace(fields[2]),
			Current: strings.TrimSpace(fields[0]) == "*",
		}
		switch {
		case strings.HasPrefix(ref, headsPrefix):
			b.Name = strings.TrimPrefix(ref, headsPrefix)
		case strings.HasPrefix(ref, remotesPrefix):
			b.Name = strings.TrimPrefix(ref, remotesPrefix)
			b.Remote = true
			b.Current = false
			if strings.HasSuffix(b.Name, "/HEAD") {
				continue
			}
		default:
			continue
		}
		if b.Name == "" {
			continue
		}
		branches = append(branches, b)
	}
	sort.SliceStable(branches, func(i, j int) bool {
		return !branches[i].Remote && branches[j].Remote
	})
	return branches
}

// CreateAndCheckout runs `git checkout -b name base`.
func CreateAndCheckout(ctx context.Context, dir, name, base string) error {
	return runMutation(ctx, dir, "checkout", "-b", name, base)
}

// CreateBranch runs `git branch name base` without switching.
func CreateBranch(ctx context.Context, dir, name, base string) error {
	return runMutation(ctx, dir, "branch", name, base)
}

// Checkout switches to an existing local branch.
func Checkout(ctx context.Context, dir, name string) error {
	return runMutation(ctx, dir, "checkout", name)
}

// CheckoutTracking creates a local branch tracking remoteRef and switches to it.
func CheckoutTracking(ctx context.Context, dir, remoteRef string) error {
	return runMutation(ctx, dir, "checkout", "--track", remoteRef)
}

func runMutation(ctx context.Context, dir string, args ...string) error {
	res, err := Run(ctx, args, Options{Dir: dir})
	if err != nil {
		return &CommandError{Args: args, Stderr: strings.TrimSpace(res.Stderr), ExitCode: res.ExitCode, Err: err}
	}
	return nil
}

// CommandError keeps git's stderr next to the exit status.
type CommandError struct {
	Args     []string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s", strings.Join(e.Args, " "))
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", msg, e.Stderr)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

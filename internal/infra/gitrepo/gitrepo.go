// Package gitrepo implements create.Repository on top of the git CLI.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tasuku43/gbc/internal/app/create"
	"github.com/tasuku43/gbc/internal/infra/gitcmd"
)

// RepositoryError is returned for every failed git call. Stderr holds git's
// own message when it printed one.
type RepositoryError struct {
	Op     string
	Err    error
	Stderr string
}

func (e *RepositoryError) Error() string {
	if e.Stderr != "" && !strings.Contains(e.Err.Error(), e.Stderr) {
		return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// Gateway is bound to one working directory and owned by one workflow run.
// The repository check runs once, on first use.
type Gateway struct {
	dir     string
	checked bool
	isRepo  bool
}

var _ create.Repository = (*Gateway)(nil)

func New(dir string) *Gateway {
	return &Gateway{dir: dir}
}

func (g *Gateway) Dir() string {
	return g.dir
}

func (g *Gateway) IsRepository(ctx context.Context) (bool, error) {
	if g.checked {
		return g.isRepo, nil
	}
	ok, err := gitcmd.IsInsideWorkTree(ctx, g.dir)
	if err != nil {
		return false, wrap("check repository", err)
	}
	g.checked = true
	g.isRepo = ok
	return ok, nil
}

func (g *Gateway) ensureRepository(ctx context.Context, op string) error {
	ok, err := g.IsRepository(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return &RepositoryError{Op: op, Err: create.ErrNotRepository}
	}
	return nil
}

// ListBranches queries git on every call.
func (g *Gateway) ListBranches(ctx context.Context) ([]create.Branch, error) {
	if err := g.ensureRepository(ctx, "list branches"); err != nil {
		return nil, err
	}
	raw, err := gitcmd.ListBranches(ctx, g.dir)
	if err != nil {
		return nil, wrap("list branches", err)
	}
	branches := make([]create.Branch, 0, len(raw))
	for _, b := range raw {
		branches = append(branches, create.Branch{
			Name:     b.Name,
			Current:  b.Current,
			IsRemote: b.Remote,
			Commit:   b.Commit,
		})
	}
	return branches, nil
}

func (g *Gateway) ConfiguredAuthor(ctx context.Context) (string, bool, error) {
	name, ok, err := gitcmd.ConfigGet(ctx, g.dir, "user.name")
	if err != nil {
		return "", false, wrap("read user.name", err)
	}
	return name, ok, nil
}

func (g *Gateway) CreateAndSwitch(ctx context.Context, name, base string) error {
	if err := g.precheck(ctx, "create branch", name); err != nil {
		return err
	}
	if err := gitcmd.CreateAndCheckout(ctx, g.dir, name, base); err != nil {
		return wrap("create branch", err)
	}
	return nil
}

func (g *Gateway) Create(ctx context.Context, name, base string) error {
	if err := g.precheck(ctx, "create branch", name); err != nil {
		return err
	}
	if err := gitcmd.CreateBranch(ctx, g.dir, name, base); err != nil {
		return wrap("create branch", err)
	}
	return nil
}

// SwitchTo checks out name. When only a remote-tracking branch exists, a
// local tracking branch is created from it.
func (g *Gateway) SwitchTo(ctx context.Context, name string) error {
	branches, err := g.ListBranches(ctx)
	if err != nil {
		return err
	}
	remote := ""
	for _, b := range branches {
		if !b.IsRemote && b.Name == name {
			if err := gitcmd.Checkout(ctx, g.dir, name); err != nil {
				return wrap("switch branch", err)
			}
			return nil
		}
		if b.IsRemote && remote == "" {
			if _, rest, ok := strings.Cut(b.Name, "/"); ok && rest == name {
				remote = b.Name
			}
		}
	}
	if remote == "" {
		return &RepositoryError{Op: "switch branch", Err: fmt.Errorf("branch %s not found", name)}
	}
	if err := gitcmd.CheckoutTracking(ctx, g.dir, remote); err != nil {
		return wrap("switch branch", err)
	}
	return nil
}

func (g *Gateway) precheck(ctx context.Context, op, name string) error {
	if err := g.ensureRepository(ctx, op); err != nil {
		return err
	}
	if err := gitcmd.CheckRefFormatBranch(ctx, g.dir, name); err != nil {
		return wrap(op, err)
	}
	return nil
}

func wrap(op string, err error) error {
	repoErr := &RepositoryError{Op: op, Err: err}
	var cmdErr *gitcmd.CommandError
	if errors.As(err, &cmdErr) {
		repoErr.Stderr = cmdErr.Stderr
	}
	return repoErr
}

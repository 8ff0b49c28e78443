package create

import (
	"context"
	"sort"
	"strings"
)

// Branch is a read-only snapshot of one local or remote-tracking branch.
// Remote names carry the remote, e.g. "origin/main".
type Branch struct {
	Name     string
	Current  bool
	IsRemote bool
	Commit   string
}

// Repository is the git access the workflow needs. Implementations report
// failures with the underlying cause preserved.
type Repository interface {
	IsRepository(ctx context.Context) (bool, error)
	ListBranches(ctx context.Context) ([]Branch, error)
	ConfiguredAuthor(ctx context.Context) (string, bool, error)
	CreateAndSwitch(ctx context.Context, name, base string) error
	Create(ctx context.Context, name, base string) error
	SwitchTo(ctx context.Context, name string) error
}

// SortBranches orders branches for the base-branch choice: the current branch
// first, then local before remote, then by name.
func SortBranches(branches []Branch) []Branch {
	out := append([]Branch(nil), branches...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Current != b.Current {
			return a.Current
		}
		if a.IsRemote != b.IsRemote {
			return !a.IsRemote
		}
		return a.Name < b.Name
	})
	return out
}

// findCollision reports whether name exists locally or as <remote>/name.
func findCollision(branches []Branch, name string) (Branch, bool) {
	var remote Branch
	found := false
	for _, b := range branches {
		if !b.IsRemote {
			if b.Name == name {
				return b, true
			}
			continue
		}
		if !found && remoteSuffixMatches(b.Name, name) {
			remote = b
			found = true
		}
	}
	return remote, found
}

func remoteSuffixMatches(remoteName, name string) bool {
	remote, rest, ok := strings.Cut(remoteName, "/")
	return ok && remote != "" && rest == name
}

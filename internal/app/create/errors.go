package create

import "errors"

var (
	ErrNotRepository        = errors.New("not a git repository")
	ErrMissingAuthor        = errors.New("no author name: set custom_git_name or git config user.name")
	ErrNoBranches           = errors.New("no branches found")
	ErrBaseNotFound         = errors.New("base branch not found")
	ErrBranchExists         = errors.New("branch already exists")
	ErrUserCancelled        = errors.New("cancelled by user")
	ErrBranchCreationFailed = errors.New("branch creation failed")
	ErrTooManyRestarts      = errors.New("too many restarts")
	ErrPromptRequired       = errors.New("input required but prompting is disabled")
)

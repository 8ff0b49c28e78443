package branchname

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput        = errors.New("input is empty")
	ErrTooLong           = errors.New("input is too long")
	ErrInvalidCharacter  = errors.New("input contains invalid characters")
	ErrInvalidBranchName = errors.New("invalid branch name")
	ErrBranchNameTooLong = errors.New("branch name is too long")
)

// Rule names the check a value failed.
type Rule string

const (
	RuleEmpty   Rule = "empty"
	RuleLength  Rule = "length"
	RuleCharset Rule = "charset"
	RuleFormat  Rule = "format"
)

const (
	FieldDescription = "description"
	FieldAuthor      = "author"
	FieldBranchName  = "branch name"
)

// ValidationError reports which rule a fragment or assembled name violated.
// Errors on the assembled name also match ErrInvalidBranchName.
type ValidationError struct {
	Field   string
	Rule    Rule
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidBranchName && e.Field == FieldBranchName
}

func newError(field string, rule Rule, sentinel error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:   field,
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
		Err:     sentinel,
	}
}

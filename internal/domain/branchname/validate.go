package branchname

import (
	"strings"
	"unicode/utf8"
)

const forbiddenChars = " ~^:?*[\\"

// Validate re-checks an assembled branch name against git's ref rules.
// Concatenated fragments can break rules each fragment satisfied alone.
func Validate(name string) error {
	if strings.TrimSpace(name) == "" {
		return newError(FieldBranchName, RuleEmpty, ErrInvalidBranchName, "must not be empty")
	}
	if n := utf8.RuneCountInString(name); n > MaxBranchNameLength {
		return newError(FieldBranchName, RuleLength, ErrBranchNameTooLong, "must be at most %d characters (got %d)", MaxBranchNameLength, n)
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(forbiddenChars, r) {
			return newError(FieldBranchName, RuleCharset, ErrInvalidCharacter, "contains invalid character %q", r)
		}
	}
	for _, seq := range []string{"..", "//", "@{"} {
		if strings.Contains(name, seq) {
			return newError(FieldBranchName, RuleFormat, ErrInvalidBranchName, "must not contain %q", seq)
		}
	}
	switch {
	case strings.HasPrefix(name, "-"), strings.HasPrefix(name, "/"):
		return newError(FieldBranchName, RuleFormat, ErrInvalidBranchName, "must not start with %q", name[:1])
	case strings.HasSuffix(name, "/"), strings.HasSuffix(name, "."):
		return newError(FieldBranchName, RuleFormat, ErrInvalidBranchName, "must not end with %q", name[len(name)-1:])
	case name == "@", name == "HEAD":
		return newError(FieldBranchName, RuleFormat, ErrInvalidBranchName, "%q is reserved", name)
	}
	for _, component := range strings.Split(name, "/") {
		if strings.HasPrefix(component, ".") {
			return newError(FieldBranchName, RuleFormat, ErrInvalidBranchName, "component %q must not start with %q", component, ".")
		}
		if strings.HasSuffix(component, ".lock") {
			return newError(FieldBranchName, RuleFormat, ErrInvalidBranchName, "component %q must not end with %q", component, ".lock")
		}
	}
	return nil
}

package branchname

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxDescriptionLength = 50
	MaxAuthorLength      = 32
	MaxPrefixLength      = 32
	MaxBranchNameLength  = 128

	// Separator joins words inside a fragment.
	Separator = "-"
)

// Normalize validates a description and folds it into a branch-name fragment.
// Whitespace and hyphen runs collapse to a single hyphen and the result is
// lower-cased. Normalize is idempotent on its own output.
func Normalize(text string) (string, error) {
	return normalizeField(FieldDescription, text, MaxDescriptionLength)
}

func normalizeField(field, text string, limit int) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", newError(field, RuleEmpty, ErrEmptyInput, "must not be empty")
	}
	if n := utf8.RuneCountInString(trimmed); n > limit {
		return "", newError(field, RuleLength, ErrTooLong, "must be at most %d characters (got %d)", limit, n)
	}
	for _, r := range trimmed {
		if !allowedRune(r) {
			return "", newError(field, RuleCharset, ErrInvalidCharacter, "contains invalid character %q", r)
		}
	}
	if strings.Contains(trimmed, "..") {
		return "", newError(field, RuleCharset, ErrInvalidCharacter, "must not contain %q", "..")
	}
	out := Slug(trimmed)
	if out == "" {
		return "", newError(field, RuleEmpty, ErrEmptyInput, "must contain a letter or digit")
	}
	if strings.HasSuffix(out, ".lock") {
		return "", newError(field, RuleFormat, ErrInvalidCharacter, "must not end with %q", ".lock")
	}
	return out, nil
}

// Slug is the total folding step behind Normalize. It does not reject
// anything; callers validate the assembled name afterwards.
func Slug(text string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		if unicode.IsSpace(r) || r == '-' {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteString(Separator)
			pending = false
		}
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), ".-")
}

// NormalizeAuthor folds a git author name into a fragment. Unlike Normalize it
// drops characters it cannot use, so "O'Brien" becomes "obrien". An empty
// result means the author is unusable.
func NormalizeAuthor(name string) string {
	var b strings.Builder
	for _, r := range name {
		if allowedRune(r) {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	for strings.Contains(cleaned, "..") {
		cleaned = strings.ReplaceAll(cleaned, "..", ".")
	}
	out := Slug(cleaned)
	if utf8.RuneCountInString(out) > MaxAuthorLength {
		out = strings.Trim(string([]rune(out)[:MaxAuthorLength]), ".-")
	}
	for strings.HasSuffix(out, ".lock") {
		out = strings.Trim(strings.TrimSuffix(out, ".lock"), ".-")
	}
	return out
}

func allowedRune(r rune) bool {
	switch {
	case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r), unicode.IsSpace(r):
		return true
	case r == '-', r == '_', r == '.':
		return true
	}
	return false
}

package branchname

import "strings"

// Options holds everything needed to name and create one branch.
// Description and Username are raw user text; Build folds them.
type Options struct {
	Prefix      string
	BaseBranch  string
	Description string
	Username    string
	Date        string
}

// Build assembles the branch name. The layout is part of the external naming
// contract and must stay stable:
//
//	<prefix><author>/<date>-<description>
//
// A "/" is added after a prefix that lacks one, and "<date>-" is omitted when
// Date is empty. Build never fails; run Validate on the result.
func Build(opts Options) string {
	var b strings.Builder
	prefix := strings.TrimSpace(opts.Prefix)
	if prefix != "" {
		b.WriteString(prefix)
		if !strings.HasSuffix(prefix, "/") {
			b.WriteByte('/')
		}
	}
	b.WriteString(NormalizeAuthor(opts.Username))
	b.WriteByte('/')
	if date := strings.TrimSpace(opts.Date); date != "" {
		b.WriteString(date)
		b.WriteString(Separator)
	}
	b.WriteString(Slug(opts.Description))
	return b.String()
}

// Check normalizes the description and validates the name it would produce.
// It is cheap enough to run on every keystroke.
func Check(opts Options) (string, error) {
	if _, err := Normalize(opts.Description); err != nil {
		return "", err
	}
	name := Build(opts)
	if err := Validate(name); err != nil {
		return "", err
	}
	return name, nil
}

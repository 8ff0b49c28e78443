// Package prompt declares the interactive surface the workflows talk to.
// internal/ui provides the terminal implementation.
package prompt

import "errors"

// ErrCanceled is returned when the user aborts a prompt (esc / ctrl+c).
var ErrCanceled = errors.New("prompt canceled")

// Choice is one selectable row.
type Choice struct {
	Value       string
	Label       string
	Description string
	// Detail is shown dimmed after the label, e.g. "current" or "remote".
	Detail string
	// Selected places the cursor on this row initially.
	Selected bool
}

// Action is a button offered by Confirm.
type Action struct {
	Value string
	Label string
}

// Validator returns a message describing why input is unacceptable, or "".
type Validator func(string) string

type Prompter interface {
	// Select returns the chosen value. ok is false when the user dismissed
	// the list.
	Select(title string, choices []Choice) (value string, ok bool, err error)
	// Input reads one line. Submission is refused while validate reports a
	// problem or the trimmed value is empty.
	Input(title, label, initial string, validate Validator) (value string, ok bool, err error)
	// Confirm shows detail lines and returns the chosen action value, or ""
	// when the user dismissed it.
	Confirm(title string, details []string, actions []Action) (string, error)
}

package ui

import (
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tasuku43/gbc/internal/infra/debuglog"
)

// Terminal runs inline prompts. Nil In/Out use the process stdin/stdout.
type Terminal struct {
	Theme    Theme
	UseColor bool
	In       io.Reader
	Out      io.Writer
}

func NewTerminal(theme Theme, useColor bool) *Terminal {
	return &Terminal{Theme: theme, UseColor: useColor}
}

// PromptSelect lets users pick one choice from a filterable list.
func (t *Terminal) PromptSelect(title string, choices []SelectChoice) (string, error) {
	debuglog.SetPrompt(title)
	defer debuglog.ClearPrompt()
	model := newSelectModel(title, choices, t.Theme, t.UseColor)
	out, err := runProgramWithIO(model, t.In, t.Out)
	if err != nil {
		return "", err
	}
	final := out.(selectModel)
	if final.err != nil {
		return "", final.err
	}
	return final.value, nil
}

// PromptInput collects one line. Enter is ignored while the value is blank or
// validate reports a problem; the problem is shown under the input as the
// user types.
func (t *Terminal) PromptInput(title, label, initial string, validate func(string) string) (string, error) {
	debuglog.SetPrompt(label)
	defer debuglog.ClearPrompt()
	model := newInputModel(title, label, initial, validate, t.Theme, t.UseColor)
	out, err := runProgramWithIO(model, t.In, t.Out)
	if err != nil {
		return "", err
	}
	final := out.(inputModel)
	if final.err != nil {
		return "", final.err
	}
	return strings.TrimSpace(final.value), nil
}

// PromptActions shows detail lines and a row of actions.
func (t *Terminal) PromptActions(title string, details []string, actions []ActionChoice) (string, error) {
	debuglog.SetPrompt(title)
	defer debuglog.ClearPrompt()
	model := newActionModel(title, details, actions, t.Theme, t.UseColor)
	out, err := runProgramWithIO(model, t.In, t.Out)
	if err != nil {
		return "", err
	}
	final := out.(actionModel)
	if final.err != nil {
		return "", final.err
	}
	return final.value, nil
}

func runProgramWithIO(model tea.Model, in io.Reader, out io.Writer) (tea.Model, error) {
	var opts []tea.ProgramOption
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return tea.NewProgram(model, opts...).Run()
}

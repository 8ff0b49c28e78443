package cli

import (
	"errors"

	"github.com/tasuku43/gbc/internal/app/prompt"
	"github.com/tasuku43/gbc/internal/ui"
)

// terminalPrompter adapts ui.Terminal to the prompt.Prompter the workflows use.
type terminalPrompter struct {
	term *ui.Terminal
}

var _ prompt.Prompter = terminalPrompter{}

func newTerminalPrompter(a *app) prompt.Prompter {
	term := ui.NewTerminal(ui.DefaultTheme(), a.useColor)
	term.In = a.in
	term.Out = a.out
	return terminalPrompter{term: term}
}

func (p terminalPrompter) Select(title string, choices []prompt.Choice) (string, bool, error) {
	items := make([]ui.SelectChoice, 0, len(choices))
	for _, c := range choices {
		items = append(items, ui.SelectChoice{
			Value:       c.Value,
			Label:       c.Label,
			Description: c.Description,
			Detail:      c.Detail,
			Selected:    c.Selected,
		})
	}
	value, err := p.term.PromptSelect(title, items)
	return dismissed(value, err)
}

func (p terminalPrompter) Input(title, label, initial string, validate prompt.Validator) (string, bool, error) {
	value, err := p.term.PromptInput(title, label, initial, validate)
	return dismissed(value, err)
}

func (p terminalPrompter) Confirm(title string, details []string, actions []prompt.Action) (string, error) {
	items := make([]ui.ActionChoice, 0, len(actions))
	for _, act := range actions {
		items = append(items, ui.ActionChoice{Value: act.Value, Label: act.Label})
	}
	value, err := p.term.PromptActions(title, details, items)
	if errors.Is(err, ui.ErrPromptCanceled) {
		return "", nil
	}
	return value, err
}

func dismissed(value string, err error) (string, bool, error) {
	if errors.Is(err, ui.ErrPromptCanceled) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

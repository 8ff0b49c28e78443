// Package prefix implements the interactive prefix editor behind
// `gbc prefix` with no subcommand.
package prefix

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tasuku43/gbc/internal/app/prompt"
	"github.com/tasuku43/gbc/internal/domain/config"
	"github.com/tasuku43/gbc/internal/infra/output"
)

// Store is the subset of config.Store the editor mutates.
type Store interface {
	Config() config.Config
	AddPrefix(p config.BranchPrefix) error
	UpdatePrefix(old string, p config.BranchPrefix) error
	RemovePrefix(prefix string) error
	SetDefault(prefix string) error
}

const (
	actionAdd     = "add"
	actionEdit    = "edit"
	actionRemove  = "remove"
	actionDefault = "default"
	actionDone    = "done"

	answerYes = "yes"
	answerNo  = "no"
)

// Manage loops over the editor menu until the user picks done or dismisses
// it. Every change is saved before the menu is shown again.
func Manage(ctx context.Context, store Store, p prompt.Prompter) error {
	if p == nil {
		return errors.New("prefix editor needs an interactive terminal")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		cfg := store.Config()
		action, ok, err := p.Select("Branch prefixes", menu(cfg))
		if err != nil {
			if errors.Is(err, prompt.ErrCanceled) {
				return nil
			}
			return err
		}
		if !ok || action == actionDone {
			return nil
		}
		var stepErr error
		switch action {
		case actionAdd:
			stepErr = add(store, p, cfg)
		case actionEdit:
			stepErr = edit(store, p, cfg)
		case actionRemove:
			stepErr = remove(store, p, cfg)
		case actionDefault:
			stepErr = setDefault(store, p, cfg)
		default:
			stepErr = fmt.Errorf("unknown action %q", action)
		}
		if stepErr != nil && !errors.Is(stepErr, prompt.ErrCanceled) {
			return stepErr
		}
	}
}

func menu(cfg config.Config) []prompt.Choice {
	summary := make([]string, 0, len(cfg.BranchPrefixes))
	for _, p := range cfg.BranchPrefixes {
		summary = append(summary, p.Prefix)
	}
	choices := []prompt.Choice{{Value: actionAdd, Label: "Add prefix", Selected: true}}
	if len(cfg.BranchPrefixes) > 0 {
		choices = append(choices,
			prompt.Choice{Value: actionEdit, Label: "Edit prefix"},
			prompt.Choice{Value: actionRemove, Label: "Remove prefix"},
			prompt.Choice{Value: actionDefault, Label: "Set default"},
		)
	}
	done := prompt.Choice{Value: actionDone, Label: "Done"}
	if len(summary) > 0 {
		done.Detail = strings.Join(summary, " ")
	} else {
		done.Detail = "no prefixes"
	}
	return append(choices, done)
}

func add(store Store, p prompt.Prompter, cfg config.Config) error {
	name, err := askPrefix(p, cfg, "")
	if err != nil {
		return err
	}
	description, err := askDescription(p, "")
	if err != nil {
		return err
	}
	_, hasDefault := cfg.DefaultPrefix()
	makeDefault := !hasDefault
	if hasDefault {
		answer, err := p.Confirm(fmt.Sprintf("Make %s the default?", name), nil, []prompt.Action{
			{Value: answerNo, Label: "No"},
			{Value: answerYes, Label: "Yes"},
		})
		if err != nil {
			return err
		}
		makeDefault = answer == answerYes
	}
	if err := store.AddPrefix(config.BranchPrefix{Prefix: name, Description: description, IsDefault: makeDefault}); err != nil {
		return err
	}
	output.Step(fmt.Sprintf("added %s", name))
	return nil
}

func edit(store Store, p prompt.Prompter, cfg config.Config) error {
	current, ok, err := pick(p, cfg, "Prefix to edit")
	if err != nil || !ok {
		return err
	}
	name, err := askPrefix(p, cfg, current.Prefix)
	if err != nil {
		return err
	}
	description, err := askDescription(p, current.Description)
	if err != nil {
		return err
	}
	next := config.BranchPrefix{Prefix: name, Description: description, IsDefault: current.IsDefault}
	if err := store.UpdatePrefix(current.Prefix, next); err != nil {
		return err
	}
	output.Step(fmt.Sprintf("updated %s", name))
	return nil
}

func remove(store Store, p prompt.Prompter, cfg config.Config) error {
	current, ok, err := pick(p, cfg, "Prefix to remove")
	if err != nil || !ok {
		return err
	}
	details := []string{fmt.Sprintf("prefix: %s", current.Prefix)}
	if current.IsDefault {
		details = append(details, "this is the default prefix; no default will remain")
	}
	answer, err := p.Confirm("Remove prefix?", details, []prompt.Action{
		{Value: answerNo, Label: "Keep"},
		{Value: answerYes, Label: "Remove"},
	})
	if err != nil {
		return err
	}
	if answer != answerYes {
		return nil
	}
	if err := store.RemovePrefix(current.Prefix); err != nil {
		return err
	}
	output.Step(fmt.Sprintf("removed %s", current.Prefix))
	return nil
}

func setDefault(store Store, p prompt.Prompter, cfg config.Config) error {
	current, ok, err := pick(p, cfg, "Default prefix")
	if err != nil || !ok {
		return err
	}
	if err := store.SetDefault(current.Prefix); err != nil {
		return err
	}
	output.Step(fmt.Sprintf("default is now %s", current.Prefix))
	return nil
}

func pick(p prompt.Prompter, cfg config.Config, title string) (config.BranchPrefix, bool, error) {
	choices := make([]prompt.Choice, 0, len(cfg.BranchPrefixes))
	for _, bp := range cfg.BranchPrefixes {
		c := prompt.Choice{Value: bp.Prefix, Label: bp.Prefix, Description: bp.Description, Selected: bp.IsDefault}
		if bp.IsDefault {
			c.Detail = "default"
		}
		choices = append(choices, c)
	}
	value, ok, err := p.Select(title, choices)
	if err != nil || !ok {
		return config.BranchPrefix{}, false, err
	}
	for _, bp := range cfg.BranchPrefixes {
		if bp.Prefix == value {
			return bp, true, nil
		}
	}
	return config.BranchPrefix{}, false, fmt.Errorf("%w: %s", config.ErrPrefixNotFound, value)
}

// askPrefix reads a prefix token. keep is the entry being edited, which may
// keep its own name.
func askPrefix(p prompt.Prompter, cfg config.Config, keep string) (string, error) {
	validate := func(raw string) string {
		value := strings.TrimSpace(raw)
		if err := config.ValidatePrefix(value); err != nil {
			return err.Error()
		}
		for _, bp := range cfg.BranchPrefixes {
			if bp.Prefix == value && value != keep {
				return fmt.Sprintf("%s already exists", value)
			}
		}
		return ""
	}
	value, ok, err := p.Input("Branch prefix", "prefix", keep, validate)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", prompt.ErrCanceled
	}
	return strings.TrimSpace(value), nil
}

func askDescription(p prompt.Prompter, initial string) (string, error) {
	value, ok, err := p.Input("Prefix description", "description", initial, nil)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", prompt.ErrCanceled
	}
	return strings.TrimSpace(value), nil
}

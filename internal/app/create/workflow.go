package create

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tasuku43/gbc/internal/app/prompt"
	"github.com/tasuku43/gbc/internal/domain/branchname"
	"github.com/tasuku43/gbc/internal/domain/config"
	"github.com/tasuku43/gbc/internal/infra/debuglog"
	"github.com/tasuku43/gbc/internal/infra/output"
)

// Step names a workflow state. The value doubles as the prefix of abort
// messages, e.g. "select base branch: no branches found".
type Step string

const (
	StepCheckRepository    Step = "check repository"
	StepSelectPrefix       Step = "select prefix"
	StepSelectBaseBranch   Step = "select base branch"
	StepResolveAuthor      Step = "resolve author"
	StepCollectDescription Step = "collect description"
	StepBuildName          Step = "build name"
	StepCheckCollision     Step = "check collision"
	StepConfirm            Step = "confirm"
	StepExecute            Step = "execute"
	StepDone               Step = "done"
)

const DefaultMaxRestarts = 10

// Action values offered by the collision and confirmation dialogs.
const (
	ActionSwitch  = "switch"
	ActionRestart = "restart"
	ActionCancel  = "cancel"
	ActionCreate  = "create"
)

// Settings supplies the configuration snapshot read at the start of each pass.
type Settings interface {
	Config() config.Config
}

// Inputs pre-seed answers so the matching prompts are skipped.
type Inputs struct {
	Prefix         string
	Base           string
	Description    string
	AssumeYes      bool
	SwitchExisting bool
	// NoPrompt fails with ErrPromptRequired instead of asking.
	NoPrompt bool
}

type Workflow struct {
	Settings    Settings
	Repo        Repository
	Prompt      prompt.Prompter
	Now         func() time.Time
	Inputs      Inputs
	MaxRestarts int
}

// Result is the terminal outcome of Run. Err keeps the cause for errors.Is;
// Error is the one-line message shown to the user.
type Result struct {
	Success    bool
	BranchName string
	Error      string
	Err        error
	Step       Step
	Created    bool
	Switched   bool
	Restarts   int
}

// attempt carries the values chosen during one pass. A restart starts over
// with a fresh attempt.
type attempt struct {
	cfg         config.Config
	inputs      Inputs
	date        string
	prefix      config.BranchPrefix
	base        Branch
	author      string
	description string
	name        string

	restart  bool
	finished bool
	created  bool
	switched bool
}

func (a *attempt) options(description string) branchname.Options {
	return branchname.Options{
		Prefix:      a.prefix.Prefix,
		BaseBranch:  a.base.Name,
		Description: description,
		Username:    a.author,
		Date:        a.date,
	}
}

type stepFunc func(context.Context, *attempt) error

// Run drives the workflow to Done or an abort. Errors never escape; they are
// reported through Result.
func (w *Workflow) Run(ctx context.Context) Result {
	trace := debuglog.NewTrace("create")
	debuglog.SetPhase("create")
	if w.Settings == nil || w.Repo == nil {
		return w.abort(trace, StepCheckRepository, errors.New("workflow is missing settings or repository"))
	}

	w.enter(trace, StepCheckRepository)
	ok, err := w.Repo.IsRepository(ctx)
	if err != nil {
		return w.abort(trace, StepCheckRepository, err)
	}
	if !ok {
		return w.abort(trace, StepCheckRepository, ErrNotRepository)
	}

	limit := w.MaxRestarts
	if limit <= 0 {
		limit = DefaultMaxRestarts
	}
	inputs := w.Inputs
	for restarts := 0; restarts <= limit; restarts++ {
		if restarts > 0 {
			debuglog.LogEvent(trace, "restart", strconv.Itoa(restarts))
			inputs = Inputs{AssumeYes: w.Inputs.AssumeYes, NoPrompt: w.Inputs.NoPrompt}
		}
		res, again := w.attempt(ctx, trace, inputs)
		if !again {
			res.Restarts = restarts
			return res
		}
	}
	res := w.abort(trace, StepCheckCollision, fmt.Errorf("%w (limit %d)", ErrTooManyRestarts, limit))
	res.Restarts = limit
	return res
}

func (w *Workflow) attempt(ctx context.Context, trace string, inputs Inputs) (Result, bool) {
	a := &attempt{cfg: w.Settings.Config(), inputs: inputs}
	a.date = branchname.FormatDate(w.now(), a.cfg.DateFormat)

	steps := []struct {
		step Step
		run  stepFunc
	}{
		{StepSelectPrefix, w.selectPrefix},
		{StepSelectBaseBranch, w.selectBaseBranch},
		{StepResolveAuthor, w.resolveAuthor},
		{StepCollectDescription, w.collectDescription},
		{StepBuildName, w.buildName},
		{StepCheckCollision, w.checkCollision},
		{StepConfirm, w.confirm},
		{StepExecute, w.execute},
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return w.abort(trace, s.step, err), false
		}
		w.enter(trace, s.step)
		if err := s.run(ctx, a); err != nil {
			return w.abort(trace, s.step, err), false
		}
		if a.restart {
			return Result{}, true
		}
		if a.finished {
			break
		}
	}
	return w.done(trace, a), false
}

func (w *Workflow) selectPrefix(_ context.Context, a *attempt) error {
	prefixes, err := a.cfg.Prefixes()
	if err != nil {
		return err
	}
	if seeded := strings.TrimSpace(a.inputs.Prefix); seeded != "" {
		p, ok := matchPrefix(prefixes, seeded)
		if !ok {
			return fmt.Errorf("%w: %s", config.ErrPrefixNotFound, seeded)
		}
		a.prefix = p
		return nil
	}
	if len(prefixes) == 1 {
		a.prefix = prefixes[0]
		return nil
	}
	if w.noPrompt() {
		if def, ok := a.cfg.DefaultPrefix(); ok {
			a.prefix = def
			return nil
		}
		return fmt.Errorf("%w: pass --prefix", ErrPromptRequired)
	}

	choices := make([]prompt.Choice, 0, len(prefixes))
	for _, p := range prefixes {
		choice := prompt.Choice{
			Value:       p.Prefix,
			Label:       p.Prefix,
			Description: p.Description,
			Selected:    p.IsDefault,
		}
		if p.IsDefault {
			choice.Detail = "default"
		}
		choices = append(choices, choice)
	}
	value, ok, err := w.Prompt.Select("Branch prefix", choices)
	if err != nil {
		return promptError(err)
	}
	if !ok {
		return ErrUserCancelled
	}
	p, found := matchPrefix(prefixes, value)
	if !found {
		return fmt.Errorf("%w: %s", config.ErrPrefixNotFound, value)
	}
	a.prefix = p
	return nil
}

func (w *Workflow) selectBaseBranch(ctx context.Context, a *attempt) error {
	branches, err := w.Repo.ListBranches(ctx)
	if err != nil {
		return err
	}
	if len(branches) == 0 {
		return ErrNoBranches
	}
	sorted := SortBranches(branches)
	if seeded := strings.TrimSpace(a.inputs.Base); seeded != "" {
		b, ok := findBranch(sorted, seeded)
		if !ok {
			return fmt.Errorf("%w: %s", ErrBaseNotFound, seeded)
		}
		a.base = b
		return nil
	}
	if w.noPrompt() {
		if sorted[0].Current {
			a.base = sorted[0]
			return nil
		}
		return fmt.Errorf("%w: pass --base", ErrPromptRequired)
	}

	choices := make([]prompt.Choice, 0, len(sorted))
	for _, b := range sorted {
		choices = append(choices, prompt.Choice{
			Value:    b.Name,
			Label:    b.Name,
			Detail:   branchDetail(b),
			Selected: b.Current,
		})
	}
	value, ok, err := w.Prompt.Select("Base branch", choices)
	if err != nil {
		return promptError(err)
	}
	if !ok {
		return ErrUserCancelled
	}
	b, found := findBranch(sorted, value)
	if !found {
		return fmt.Errorf("%w: %s", ErrBaseNotFound, value)
	}
	a.base = b
	return nil
}

func (w *Workflow) resolveAuthor(ctx context.Context, a *attempt) error {
	if custom := strings.TrimSpace(a.cfg.CustomGitName); branchname.NormalizeAuthor(custom) != "" {
		a.author = custom
		return nil
	}
	name, ok, err := w.Repo.ConfiguredAuthor(ctx)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if !ok || branchname.NormalizeAuthor(name) == "" {
		return ErrMissingAuthor
	}
	a.author = name
	return nil
}

func (w *Workflow) collectDescription(ctx context.Context, a *attempt) error {
	validate := func(raw string) string {
		return descriptionProblem(a, raw)
	}
	seeded := a.inputs.Description
	if strings.TrimSpace(seeded) != "" && validate(seeded) == "" {
		a.description = strings.TrimSpace(seeded)
		return nil
	}
	if w.noPrompt() {
		if strings.TrimSpace(seeded) == "" {
			return fmt.Errorf("%w: pass -m", ErrPromptRequired)
		}
		_, err := branchname.Check(a.options(seeded))
		return err
	}

	initial := seeded
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		value, ok, err := w.Prompt.Input("Branch description", "description", initial, validate)
		if err != nil {
			return promptError(err)
		}
		if !ok {
			return ErrUserCancelled
		}
		if validate(value) == "" {
			a.description = strings.TrimSpace(value)
			return nil
		}
		initial = value
	}
}

func (w *Workflow) buildName(_ context.Context, a *attempt) error {
	name := branchname.Build(a.options(a.description))
	if err := branchname.Validate(name); err != nil {
		return err
	}
	a.name = name
	return nil
}

func (w *Workflow) checkCollision(ctx context.Context, a *attempt) error {
	branches, err := w.Repo.ListBranches(ctx)
	if err != nil {
		return err
	}
	existing, found := findCollision(branches, a.name)
	if !found {
		return nil
	}
	if a.inputs.SwitchExisting {
		return w.switchExisting(ctx, a)
	}
	if w.noPrompt() {
		return fmt.Errorf("%w: %s", ErrBranchExists, a.name)
	}

	details := []string{fmt.Sprintf("existing: %s", existing.Name)}
	if existing.Commit != "" {
		details[0] = fmt.Sprintf("existing: %s (%s)", existing.Name, existing.Commit)
	}
	action, err := w.Prompt.Confirm(
		fmt.Sprintf("Branch %s already exists", a.name),
		details,
		[]prompt.Action{
			{Value: ActionSwitch, Label: "Switch to it"},
			{Value: ActionRestart, Label: "Start over"},
			{Value: ActionCancel, Label: "Cancel"},
		},
	)
	if err != nil {
		return promptError(err)
	}
	switch action {
	case ActionSwitch:
		return w.switchExisting(ctx, a)
	case ActionRestart:
		a.restart = true
		return nil
	default:
		return ErrUserCancelled
	}
}

func (w *Workflow) switchExisting(ctx context.Context, a *attempt) error {
	output.Step(fmt.Sprintf("switch to %s", a.name))
	if err := w.Repo.SwitchTo(ctx, a.name); err != nil {
		return fmt.Errorf("switch to existing branch: %w", err)
	}
	a.switched = true
	a.finished = true
	return nil
}

func (w *Workflow) confirm(_ context.Context, a *attempt) error {
	if a.inputs.AssumeYes {
		return nil
	}
	if w.noPrompt() {
		return fmt.Errorf("%w: pass --yes", ErrPromptRequired)
	}
	label := "Create and switch"
	if !a.cfg.AutoCheckout {
		label = "Create"
	}
	action, err := w.Prompt.Confirm(
		"Create branch?",
		[]string{
			fmt.Sprintf("base: %s", a.base.Name),
			fmt.Sprintf("new branch: %s", a.name),
			fmt.Sprintf("description: %s", a.description),
			fmt.Sprintf("author: %s", a.author),
		},
		[]prompt.Action{
			{Value: ActionCreate, Label: label},
			{Value: ActionCancel, Label: "Cancel"},
		},
	)
	if err != nil {
		return promptError(err)
	}
	if action != ActionCreate {
		return ErrUserCancelled
	}
	return nil
}

func (w *Workflow) execute(ctx context.Context, a *attempt) error {
	output.Step(fmt.Sprintf("create %s", a.name))
	output.Logf("from %s", a.base.Name)
	var err error
	if a.cfg.AutoCheckout {
		err = w.Repo.CreateAndSwitch(ctx, a.name, a.base.Name)
	} else {
		err = w.Repo.Create(ctx, a.name, a.base.Name)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBranchCreationFailed, err)
	}
	a.created = true
	a.switched = a.cfg.AutoCheckout
	a.finished = true
	return nil
}

func (w *Workflow) enter(trace string, step Step) {
	debuglog.LogEvent(trace, "state", strings.ReplaceAll(string(step), " ", "-"))
}

func (w *Workflow) done(trace string, a *attempt) Result {
	debuglog.LogEvent(trace, "done", a.name)
	return Result{
		Success:    true,
		BranchName: a.name,
		Step:       StepDone,
		Created:    a.created,
		Switched:   a.switched,
	}
}

func (w *Workflow) abort(trace string, step Step, err error) Result {
	debuglog.LogEvent(trace, "abort", fmt.Sprintf("%s: %v", step, err))
	return Result{
		Success: false,
		Error:   fmt.Sprintf("%s: %v", step, err),
		Err:     err,
		Step:    step,
	}
}

func (w *Workflow) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func (w *Workflow) noPrompt() bool {
	return w.Inputs.NoPrompt || w.Prompt == nil
}

func descriptionProblem(a *attempt, raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "description is required"
	}
	if _, err := branchname.Check(a.options(raw)); err != nil {
		return err.Error()
	}
	return ""
}

func promptError(err error) error {
	if errors.Is(err, prompt.ErrCanceled) {
		return ErrUserCancelled
	}
	return fmt.Errorf("prompt: %w", err)
}

func matchPrefix(prefixes []config.BranchPrefix, value string) (config.BranchPrefix, bool) {
	value = strings.TrimSpace(value)
	for _, p := range prefixes {
		if p.Prefix == value {
			return p, true
		}
	}
	for _, p := range prefixes {
		if strings.TrimSuffix(p.Prefix, "/") == strings.TrimSuffix(value, "/") {
			return p, true
		}
	}
	return config.BranchPrefix{}, false
}

func findBranch(branches []Branch, name string) (Branch, bool) {
	for _, b := range branches {
		if b.Name == name {
			return b, true
		}
	}
	return Branch{}, false
}

func branchDetail(b Branch) string {
	var parts []string
	if b.Current {
		parts = append(parts, "current")
	}
	if b.IsRemote {
		parts = append(parts, "remote")
	}
	if b.Commit != "" {
		parts = append(parts, b.Commit)
	}
	return strings.Join(parts, " ")
}

package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/tasuku43/gbc/internal/infra/output"
)

var ErrPromptCanceled = errors.New("prompt canceled")

// SelectChoice is one row of a select prompt.
type SelectChoice struct {
	Value       string
	Label       string
	Description string
	Detail      string
	Selected    bool
}

// ActionChoice is one button of an action prompt.
type ActionChoice struct {
	Value string
	Label string
}

type choiceSource []SelectChoice

func (s choiceSource) String(i int) string {
	return s[i].Label + " " + s[i].Description
}

func (s choiceSource) Len() int {
	return len(s)
}

type selectModel struct {
	title    string
	choices  []SelectChoice
	search   textinput.Model
	filtered []int
	cursor   int
	height   int

	value string
	done  bool
	err   error

	theme    Theme
	useColor bool
}

func newSelectModel(title string, choices []SelectChoice, theme Theme, useColor bool) selectModel {
	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "type to filter"
	search.Focus()
	if useColor {
		search.PlaceholderStyle = theme.Muted
	}
	m := selectModel{
		title:    title,
		choices:  append([]SelectChoice(nil), choices...),
		search:   search,
		theme:    theme,
		useColor: useColor,
	}
	m.filtered = m.filter()
	for i, idx := range m.filtered {
		if m.choices[idx].Selected {
			m.cursor = i
			break
		}
	}
	return m
}

func (m selectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		setWrapWidth(msg.Width)
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = ErrPromptCanceled
			return m, tea.Quit
		case tea.KeyEnter:
			if len(m.filtered) == 0 {
				return m, nil
			}
			m.value = m.choices[m.filtered[m.cursor]].Value
			m.done = true
			return m, tea.Quit
		case tea.KeyUp, tea.KeyCtrlP:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown, tea.KeyCtrlN:
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.filtered = m.filter()
		m.cursor = 0
	}
	return m, cmd
}

// filter keeps stored order for an empty query and fuzzy score order otherwise.
func (m selectModel) filter() []int {
	query := strings.TrimSpace(m.search.Value())
	if query == "" {
		out := make([]int, len(m.choices))
		for i := range m.choices {
			out[i] = i
		}
		return out
	}
	matches := fuzzy.FindFrom(query, choiceSource(m.choices))
	out := make([]int, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.Index)
	}
	return out
}

func (m selectModel) View() string {
	var b strings.Builder
	if m.done {
		writePromptLine(&b, m.theme, m.useColor, m.title, m.choices[m.filtered[m.cursor]].Label)
		return b.String()
	}
	writePromptLine(&b, m.theme, m.useColor, m.title, m.search.View())
	if len(m.filtered) == 0 {
		writeTreeLine(&b, m.theme, m.useColor, mutedToken(m.theme, m.useColor, "no matches"))
		return b.String()
	}
	start, end := visibleWindow(len(m.filtered), m.cursor, listMaxLines(m.height))
	for i := start; i < end; i++ {
		writeTreeLine(&b, m.theme, m.useColor, m.renderChoice(m.choices[m.filtered[i]], i == m.cursor))
	}
	if end < len(m.filtered) || start > 0 {
		writeTreeLine(&b, m.theme, m.useColor, mutedToken(m.theme, m.useColor, fmt.Sprintf("%d/%d", m.cursor+1, len(m.filtered))))
	}
	return b.String()
}

func (m selectModel) renderChoice(c SelectChoice, active bool) string {
	label := c.Label
	switch {
	case active && m.useColor:
		label = lipgloss.NewStyle().Bold(true).Inherit(m.theme.Accent).Render(label)
	case active:
		label = "> " + label
	case !m.useColor:
		label = "  " + label
	}
	if desc := strings.TrimSpace(c.Description); desc != "" {
		label += mutedToken(m.theme, m.useColor, " - "+desc)
	}
	if detail := strings.TrimSpace(c.Detail); detail != "" {
		label += mutedToken(m.theme, m.useColor, " ("+detail+")")
	}
	return label
}

type inputModel struct {
	title    string
	label    string
	validate func(string) string
	input    textinput.Model
	problem  string

	value string
	done  bool
	err   error

	theme    Theme
	useColor bool
}

func newInputModel(title, label, initial string, validate func(string) string, theme Theme, useColor bool) inputModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "type here"
	ti.Focus()
	if initial != "" {
		ti.SetValue(initial)
		ti.CursorEnd()
	}
	if useColor {
		ti.PlaceholderStyle = theme.Muted
	}
	m := inputModel{
		title:    title,
		label:    label,
		validate: validate,
		input:    ti,
		theme:    theme,
		useColor: useColor,
	}
	if strings.TrimSpace(initial) != "" {
		m.problem = m.check(initial)
	}
	return m
}

func (m inputModel) check(value string) string {
	if strings.TrimSpace(value) == "" {
		return "required"
	}
	if m.validate == nil {
		return ""
	}
	return m.validate(value)
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		setWrapWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = ErrPromptCanceled
			return m, tea.Quit
		case tea.KeyEnter:
			value := m.input.Value()
			if problem := m.check(value); problem != "" {
				m.problem = problem
				return m, nil
			}
			m.value = value
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if strings.TrimSpace(m.input.Value()) == "" {
		m.problem = ""
	} else {
		m.problem = m.check(m.input.Value())
	}
	return m, cmd
}

func (m inputModel) View() string {
	var b strings.Builder
	if m.title != "" {
		title := m.title
		if m.useColor {
			title = m.theme.SectionTitle.Render(title)
		}
		b.WriteString(title)
		b.WriteString("\n")
	}
	if m.done {
		writePromptLine(&b, m.theme, m.useColor, m.label, strings.TrimSpace(m.value))
		return b.String()
	}
	writePromptLine(&b, m.theme, m.useColor, m.label, m.input.View())
	if m.problem != "" {
		problem := m.problem
		if m.useColor {
			problem = m.theme.Error.Render(problem)
		}
		writeTreeLine(&b, m.theme, m.useColor, problem)
	}
	return b.String()
}

type actionModel struct {
	title   string
	details []string
	actions []ActionChoice
	cursor  int

	value string
	done  bool
	err   error

	theme    Theme
	useColor bool
}

func newActionModel(title string, details []string, actions []ActionChoice, theme Theme, useColor bool) actionModel {
	return actionModel{
		title:    title,
		details:  append([]string(nil), details...),
		actions:  append([]ActionChoice(nil), actions...),
		theme:    theme,
		useColor: useColor,
	}
}

func (m actionModel) Init() tea.Cmd {
	return nil
}

func (m actionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		setWrapWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = ErrPromptCanceled
			return m, tea.Quit
		case tea.KeyEnter:
			if len(m.actions) == 0 {
				return m, nil
			}
			return m.choose(m.cursor)
		case tea.KeyLeft, tea.KeyUp, tea.KeyShiftTab:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyRight, tea.KeyDown, tea.KeyTab:
			if m.cursor < len(m.actions)-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyRunes:
			if idx, ok := m.hotkey(msg.Runes); ok {
				return m.choose(idx)
			}
		}
	}
	return m, nil
}

func (m actionModel) choose(idx int) (tea.Model, tea.Cmd) {
	m.cursor = idx
	m.value = m.actions[idx].Value
	m.done = true
	return m, tea.Quit
}

// hotkey matches the first letter of an action label when it is unambiguous.
func (m actionModel) hotkey(runes []rune) (int, bool) {
	if len(runes) != 1 {
		return 0, false
	}
	key := strings.ToLower(string(runes))
	found := -1
	for i, a := range m.actions {
		label := strings.ToLower(strings.TrimSpace(a.Label))
		if label == "" || !strings.HasPrefix(label, key) {
			continue
		}
		if found >= 0 {
			return 0, false
		}
		found = i
	}
	return found, found >= 0
}

func (m actionModel) View() string {
	var b strings.Builder
	title := m.title
	if m.useColor {
		title = m.theme.SectionTitle.Render(title)
	}
	b.WriteString(title)
	b.WriteString("\n")
	for _, line := range m.details {
		if strings.TrimSpace(line) == "" {
			continue
		}
		writeTreeLine(&b, m.theme, m.useColor, line)
	}
	if m.done {
		writePromptLine(&b, m.theme, m.useColor, "choice", m.actions[m.cursor].Label)
		return b.String()
	}
	parts := make([]string, 0, len(m.actions))
	for i, a := range m.actions {
		switch {
		case i == m.cursor && m.useColor:
			parts = append(parts, lipgloss.NewStyle().Bold(true).Inherit(m.theme.Accent).Render("["+a.Label+"]"))
		case i == m.cursor:
			parts = append(parts, "["+a.Label+"]")
		default:
			parts = append(parts, mutedToken(m.theme, m.useColor, " "+a.Label+" "))
		}
	}
	fmt.Fprintf(&b, "%s%s %s\n", output.Indent, promptPrefix(m.theme, m.useColor), strings.Join(parts, " "))
	return b.String()
}

func writePromptLine(b *strings.Builder, theme Theme, useColor bool, label, value string) {
	fmt.Fprintf(b, "%s%s %s: %s\n", output.Indent, promptPrefix(theme, useColor), promptLabel(theme, useColor, label), value)
}

func writeTreeLine(b *strings.Builder, theme Theme, useColor bool, text string) {
	fmt.Fprintf(b, "%s%s %s\n", output.Indent+output.Indent, mutedToken(theme, useColor, output.LogConnector), text)
}

func promptPrefix(theme Theme, useColor bool) string {
	prefix := output.StepPrefix
	if useColor {
		return theme.Accent.Render(prefix)
	}
	return prefix
}

func promptLabel(theme Theme, useColor bool, label string) string {
	if useColor {
		return theme.Accent.Render(label)
	}
	return label
}

func mutedToken(theme Theme, useColor bool, token string) string {
	if useColor {
		return theme.Muted.Render(token)
	}
	return token
}

// listMaxLines leaves room for the prompt line and the position marker.
func listMaxLines(height int) int {
	if height <= 0 {
		return 10
	}
	return max(height-3, 1)
}

func visibleWindow(total, cursor, limit int) (int, int) {
	if total <= limit {
		return 0, total
	}
	start := cursor - limit/2
	if start < 0 {
		start = 0
	}
	end := start + limit
	if end > total {
		end = total
		start = end - limit
	}
	return start, end
}

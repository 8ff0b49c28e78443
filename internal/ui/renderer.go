package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/tasuku43/gbc/internal/infra/debuglog"
	"github.com/tasuku43/gbc/internal/infra/output"
)

// Renderer writes sectioned, bulleted output. It also satisfies
// output.StepLogger so workflow steps render with the same styling.
type Renderer struct {
	out       io.Writer
	theme     Theme
	useColor  bool
	wrapWidth int
}

var _ output.StepLogger = (*Renderer)(nil)

func NewRenderer(out io.Writer, theme Theme, useColor bool) *Renderer {
	return &Renderer{
		out:       out,
		theme:     theme,
		useColor:  useColor,
		wrapWidth: currentWrapWidth(),
	}
}

func (r *Renderer) Header(text string) {
	r.writeLine(r.style(text, r.theme.Header))
}

func (r *Renderer) Blank() {
	fmt.Fprintln(r.out)
}

func (r *Renderer) Section(title string) {
	switch phase := strings.ToLower(strings.TrimSpace(title)); phase {
	case "inputs", "info", "steps", "result", "prefixes", "config":
		debuglog.SetPhase(phase)
	default:
		debuglog.SetPhase("none")
	}
	r.writeLine(r.style(title, r.theme.SectionTitle))
}

func (r *Renderer) Step(text string) {
	r.bullet(text)
}

func (r *Renderer) Log(text string) {
	r.writeWithPrefix(output.Indent+output.Indent+output.LogConnector+" ", r.style(text, r.theme.Muted))
}

func (r *Renderer) LogOutput(text string) {
	r.writeWithPrefix(output.LogOutputPrefix(), r.style(text, r.theme.Muted))
}

func (r *Renderer) Bullet(text string) {
	r.bullet(text)
}

func (r *Renderer) Success(text string) {
	prefix := output.StepPrefix + " "
	if r.useColor {
		prefix = r.theme.Success.Render(prefix)
		text = r.theme.Success.Render(text)
	}
	r.writeWithPrefix(output.Indent+prefix, text)
}

// BulletWithDescription renders "id - description suffix" with the trailing
// parts muted.
func (r *Renderer) BulletWithDescription(id, description, suffix string) {
	prefix := output.StepPrefix + " "
	if r.useColor {
		prefix = r.theme.Muted.Render(prefix)
	}
	line := id
	if desc := strings.TrimSpace(description); desc != "" {
		line += r.style(" - "+desc, r.theme.Muted)
	}
	if s := strings.TrimSpace(suffix); s != "" {
		line += r.style(" "+s, r.theme.Accent)
	}
	r.writeWithPrefix(output.Indent+prefix, line)
}

func (r *Renderer) BulletError(text string) {
	prefix := output.StepPrefix + " "
	if r.useColor {
		prefix = r.theme.Error.Render(prefix)
		text = r.theme.Error.Render(text)
	}
	r.writeWithPrefix(output.Indent+prefix, text)
}

func (r *Renderer) Warn(text string) {
	r.writeWithPrefix(output.Indent, r.style(text, r.theme.Warn))
}

// KeyValue renders "key: value" under a bullet, value emphasized.
func (r *Renderer) KeyValue(key, value string) {
	r.bullet(fmt.Sprintf("%s: %s", key, r.style(value, r.theme.Accent)))
}

func (r *Renderer) style(text string, style lipgloss.Style) string {
	if !r.useColor {
		return text
	}
	return style.Render(text)
}

func (r *Renderer) bullet(text string) {
	prefix := output.StepPrefix + " "
	if r.useColor {
		prefix = r.theme.Muted.Render(prefix)
	}
	r.writeWithPrefix(output.Indent+prefix, text)
}

func (r *Renderer) writeWithPrefix(prefix, text string) {
	if r.wrapWidth <= 0 {
		r.writeLine(prefix + text)
		return
	}
	prefixWidth := lipgloss.Width(prefix)
	available := r.wrapWidth - prefixWidth
	if available <= 0 {
		r.writeLine(prefix + text)
		return
	}
	wrapped := ansi.Wrap(text, available, "")
	lines := strings.Split(wrapped, "\n")
	if len(lines) == 0 {
		return
	}
	r.writeLine(prefix + lines[0])
	if len(lines) == 1 {
		return
	}
	padding := strings.Repeat(" ", prefixWidth)
	for _, line := range lines[1:] {
		r.writeLine(padding + line)
	}
}

func (r *Renderer) writeLine(text string) {
	fmt.Fprintln(r.out, strings.TrimRight(text, "\n"))
}

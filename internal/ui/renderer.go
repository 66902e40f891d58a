package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nyoka-pmml/nyoka-cli/internal/infra/debuglog"
	"github.com/nyoka-pmml/nyoka-cli/internal/infra/output"
)

// Renderer writes styled step output. It satisfies output.StepLogger.
type Renderer struct {
	out       io.Writer
	theme     Theme
	useColor  bool
	wrapWidth int
	steps     uint64
}

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
	switch strings.ToLower(strings.TrimSpace(title)) {
	case "steps":
		debuglog.SetPhase("steps")
	case "result":
		debuglog.SetPhase("result")
	default:
		debuglog.SetPhase("section")
	}
	r.writeLine(r.style(title, r.theme.SectionTitle))
}

func (r *Renderer) Step(text string) {
	r.steps++
	debuglog.SetStep(r.steps, output.StepID(text))
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
	}
	r.writeWithPrefix(output.Indent+prefix, text)
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

// Raw writes text as is, one line per input line.
func (r *Renderer) Raw(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		r.writeLine(line)
	}
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
	r.writeLine(prefix + lines[0])
	padding := strings.Repeat(" ", prefixWidth)
	for _, line := range lines[1:] {
		r.writeLine(padding + line)
	}
}

func (r *Renderer) writeLine(text string) {
	fmt.Fprintln(r.out, strings.TrimRight(text, "\n"))
}

package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nyoka-pmml/nyoka-cli/internal/infra/debuglog"
	"github.com/nyoka-pmml/nyoka-cli/internal/infra/output"
)

var ErrPromptCanceled = errors.New("prompt canceled")

// Prompter asks yes/no questions on a terminal. When it is not interactive
// every question is declined without being shown.
type Prompter struct {
	Theme       Theme
	UseColor    bool
	Interactive bool
	In          io.Reader
	Out         io.Writer
}

func (p Prompter) Confirm(question string) (bool, error) {
	trace := debuglog.NewTrace("prompt")
	if !p.Interactive {
		debuglog.LogEvent(trace, "prompt", "declined without asking: "+question)
		return false, nil
	}
	debuglog.SetPrompt(question)
	defer debuglog.ClearPrompt()

	var opts []tea.ProgramOption
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}
	ok, err := PromptConfirmInline(question, p.Theme, p.UseColor, opts...)
	if err != nil {
		debuglog.LogError(trace, err)
		return false, err
	}
	debuglog.LogEvent(trace, "prompt", fmt.Sprintf("answered %t", ok))
	return ok, nil
}

func PromptConfirmInline(label string, theme Theme, useColor bool, opts ...tea.ProgramOption) (bool, error) {
	model := newConfirmInlineModel(label, theme, useColor)
	prog := tea.NewProgram(model, opts...)
	out, err := prog.Run()
	if err != nil {
		return false, err
	}
	final := out.(confirmInlineModel)
	if final.err != nil {
		return false, final.err
	}
	return final.value, nil
}

type confirmInlineModel struct {
	label    string
	theme    Theme
	useColor bool
	input    textinput.Model
	value    bool
	done     bool
	err      error
}

func newConfirmInlineModel(label string, theme Theme, useColor bool) confirmInlineModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "y/n"
	ti.Focus()
	if useColor {
		ti.PlaceholderStyle = theme.Muted
	}
	return confirmInlineModel{
		label:    label,
		theme:    theme,
		useColor: useColor,
		input:    ti,
	}
}

func (m confirmInlineModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m confirmInlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = ErrPromptCanceled
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			switch strings.ToLower(strings.TrimSpace(m.input.Value())) {
			case "y", "yes":
				m.value = true
				m.done = true
				return m, tea.Quit
			case "n", "no":
				m.value = false
				m.done = true
				return m, tea.Quit
			default:
				m.input.SetValue("")
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m confirmInlineModel) View() string {
	prefix := output.StepPrefix
	label := m.label
	if m.useColor {
		prefix = m.theme.Accent.Render(prefix)
		label = m.theme.Accent.Render(label)
	}
	answer := m.input.View()
	if m.done {
		answer = m.input.Value()
	}
	return fmt.Sprintf("%s%s %s (y/n): %s\n", output.Indent, prefix, label, answer)
}

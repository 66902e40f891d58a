package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeAnswer(m confirmInlineModel, answer string) (confirmInlineModel, tea.Cmd) {
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(answer)})
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return model.(confirmInlineModel), cmd
}

func TestConfirmInlineAnswers(t *testing.T) {
	cases := []struct {
		answer string
		want   bool
		done   bool
	}{
		{answer: "y", want: true, done: true},
		{answer: "YES", want: true, done: true},
		{answer: "n", want: false, done: true},
		{answer: "no", want: false, done: true},
		{answer: "maybe", want: false, done: false},
	}
	for _, tc := range cases {
		t.Run(tc.answer, func(t *testing.T) {
			m, cmd := typeAnswer(newConfirmInlineModel("create them now?", DefaultTheme(), false), tc.answer)
			if m.done != tc.done {
				t.Fatalf("done = %v, want %v", m.done, tc.done)
			}
			if m.value != tc.want {
				t.Fatalf("value = %v, want %v", m.value, tc.want)
			}
			if tc.done && cmd == nil {
				t.Fatalf("expected quit command")
			}
			if !tc.done && m.input.Value() != "" {
				t.Fatalf("input = %q, want cleared after an invalid answer", m.input.Value())
			}
		})
	}
}

func TestConfirmInlineCancel(t *testing.T) {
	model, _ := newConfirmInlineModel("q", DefaultTheme(), false).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m := model.(confirmInlineModel)
	if !errors.Is(m.err, ErrPromptCanceled) {
		t.Fatalf("err = %v, want ErrPromptCanceled", m.err)
	}
}

func TestConfirmInlineView(t *testing.T) {
	m, _ := typeAnswer(newConfirmInlineModel("create them now?", DefaultTheme(), false), "y")
	want := "  • create them now? (y/n): y\n"
	if got := m.View(); got != want {
		t.Fatalf("View() = %q, want %q", got, want)
	}
}

func TestPrompterDeclinesWhenNotInteractive(t *testing.T) {
	var out strings.Builder
	p := Prompter{Theme: DefaultTheme(), Out: &out}
	ok, err := p.Confirm("create them now?")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if ok {
		t.Fatalf("expected decline")
	}
	if out.Len() != 0 {
		t.Fatalf("output = %q, want nothing", out.String())
	}
}

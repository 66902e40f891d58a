package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	Indent       = "  "
	StepPrefix   = "•"
	LogConnector = "└─"
)

// StepLogger receives progress lines: a step, a log under the step, and raw
// output under the step.
type StepLogger interface {
	Step(text string)
	Log(text string)
	LogOutput(text string)
}

// Plain writes step lines without styling. It is used when output is not a
// terminal.
type Plain struct {
	w io.Writer
}

func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w}
}

func (p *Plain) Step(text string) {
	fmt.Fprintf(p.w, "%s%s %s\n", Indent, StepPrefix, text)
}

func (p *Plain) Log(text string) {
	fmt.Fprintf(p.w, "%s%s %s\n", Indent+Indent, LogConnector, text)
}

func (p *Plain) LogOutput(text string) {
	fmt.Fprintf(p.w, "%s%s\n", LogOutputPrefix(), text)
}

// Logf formats and logs through l.
func Logf(l StepLogger, format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...))
}

// LogLines sends each non-blank line of text to l as raw output.
func LogLines(l StepLogger, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		l.LogOutput(line)
	}
}

func LogOutputPrefix() string {
	spaces := utf8.RuneCountInString(LogConnector) + 1
	return Indent + Indent + strings.Repeat(" ", spaces)
}

// StepID turns a step line into a short slug for debug logs.
func StepID(text string) string {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "" {
		return "step"
	}
	var b strings.Builder
	lastDash := false
	for _, r := range trimmed {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "step"
	}
	if len(out) > 32 {
		return out[:32]
	}
	return out
}

package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nyoka-pmml/nyoka-cli/internal/infra/paths"
)

type loggerState struct {
	mu      sync.Mutex
	enabled atomic.Bool
	writer  *os.File
	pid     int
}

var state loggerState
var traceSeq uint64
var ctxState debugContext

type debugContext struct {
	mu     sync.Mutex
	action string
	phase  string
	prompt string
	step   string
	stepID string
}

// Enable opens today's debug log under the root's .nyoka/logs directory.
func Enable(rootDir string) error {
	if strings.TrimSpace(rootDir) == "" {
		return fmt.Errorf("root directory is required")
	}
	logDir := paths.LogsDir(rootDir)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("create debug log dir: %w", err)
	}
	name := fmt.Sprintf("debug-%s.log", time.Now().Format("20060102"))
	path := filepath.Join(logDir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open debug log file: %w", err)
	}
	state.mu.Lock()
	if state.writer != nil {
		_ = state.writer.Close()
	}
	state.writer = file
	state.pid = os.Getpid()
	state.enabled.Store(true)
	state.mu.Unlock()
	return nil
}

func Close() error {
	state.mu.Lock()
	state.enabled.Store(false)
	var err error
	if state.writer != nil {
		err = state.writer.Close()
		state.writer = nil
	}
	state.mu.Unlock()
	return err
}

func Enabled() bool {
	return state.enabled.Load()
}

func NewTrace(prefix string) string {
	value := atomic.AddUint64(&traceSeq, 1)
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "op"
	}
	return fmt.Sprintf("%s:%x", prefix, value)
}

// SetAction records which action the following lines belong to.
func SetAction(name string) {
	ctxState.mu.Lock()
	ctxState.action = strings.TrimSpace(name)
	ctxState.mu.Unlock()
}

func LogEvent(trace, kind, line string) {
	logLine(entry{trace: trace, kind: kind, line: line})
}

func LogRequest(trace, method, url string) {
	logLine(entry{trace: trace, kind: "request", method: method, url: url})
}

func LogResponse(trace string, status int) {
	logLine(entry{trace: trace, kind: "response", status: &status})
}

func LogError(trace string, err error) {
	if err == nil {
		return
	}
	logLine(entry{trace: trace, kind: "error", line: err.Error()})
}

func SetPrompt(label string) {
	ctxState.mu.Lock()
	ctxState.phase = "prompt"
	ctxState.prompt = strings.TrimSpace(label)
	ctxState.step = ""
	ctxState.stepID = ""
	ctxState.mu.Unlock()
}

func ClearPrompt() {
	ctxState.mu.Lock()
	if ctxState.phase == "prompt" {
		ctxState.phase = ""
	}
	ctxState.prompt = ""
	ctxState.mu.Unlock()
}

func SetStep(index uint64, stepID string) {
	ctxState.mu.Lock()
	ctxState.phase = "steps"
	ctxState.prompt = ""
	ctxState.step = fmt.Sprintf("%d", index)
	ctxState.stepID = strings.TrimSpace(stepID)
	ctxState.mu.Unlock()
}

func SetPhase(phase string) {
	ctxState.mu.Lock()
	ctxState.phase = strings.TrimSpace(phase)
	ctxState.prompt = ""
	ctxState.step = ""
	ctxState.stepID = ""
	ctxState.mu.Unlock()
}

type entry struct {
	trace  string
	kind   string
	line   string
	method string
	url    string
	status *int
}

type snapshot struct {
	action string
	phase  string
	prompt string
	step   string
	stepID string
}

func logLine(e entry) {
	if !Enabled() {
		return
	}
	trace := strings.TrimSpace(e.trace)
	if trace == "" {
		trace = "unknown"
	}
	kind := strings.TrimSpace(e.kind)
	if kind == "" {
		kind = "info"
	}
	ctx := snapshotContext()
	if ctx.phase == "" {
		ctx.phase = "none"
	}
	ts := time.Now().Format(time.RFC3339Nano)
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.writer == nil {
		return
	}
	_, _ = state.writer.WriteString(format(ts, state.pid, trace, kind, ctx, e))
}

func format(ts string, pid int, trace, kind string, ctx snapshot, e entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ts=%s pid=%d trace=%s phase=%s kind=%s", ts, pid, trace, ctx.phase, kind)
	if ctx.action != "" {
		fmt.Fprintf(&b, " action=%s", ctx.action)
	}
	if ctx.prompt != "" {
		fmt.Fprintf(&b, " prompt=%q", ctx.prompt)
	}
	if ctx.step != "" {
		fmt.Fprintf(&b, " step=%s", ctx.step)
	}
	if ctx.stepID != "" {
		fmt.Fprintf(&b, " step_id=%s", ctx.stepID)
	}
	if e.method != "" {
		fmt.Fprintf(&b, " method=%s", e.method)
	}
	if e.url != "" {
		fmt.Fprintf(&b, " url=%q", e.url)
	}
	if e.line != "" {
		fmt.Fprintf(&b, " line=%q", e.line)
	}
	if e.status != nil {
		fmt.Fprintf(&b, " status=%d", *e.status)
	}
	b.WriteByte('\n')
	return b.String()
}

func snapshotContext() snapshot {
	ctxState.mu.Lock()
	defer ctxState.mu.Unlock()
	return snapshot{
		action: ctxState.action,
		phase:  ctxState.phase,
		prompt: ctxState.prompt,
		step:   ctxState.step,
		stepID: ctxState.stepID,
	}
}

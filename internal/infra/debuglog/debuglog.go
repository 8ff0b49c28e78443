package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tasuku43/gbc/internal/infra/paths"
)

// EnvVar turns on debug logging without the --debug flag.
const EnvVar = "GBC_DEBUG"

type loggerState struct {
	mu      sync.Mutex
	enabled atomic.Bool
	writer  *os.File
	path    string
	pid     int
	now     func() time.Time
}

var state = loggerState{now: time.Now}
var traceSeq uint64
var ctxState debugContext

type debugContext struct {
	mu     sync.Mutex
	phase  string
	prompt string
	step   string
	stepID string
}

type entry struct {
	trace string
	kind  string
	cmd   string
	line  string
	event string
	code  *int
}

// EnvRequested reports whether GBC_DEBUG asks for a debug log.
func EnvRequested() bool {
	value := strings.TrimSpace(os.Getenv(EnvVar))
	if value == "" {
		return false
	}
	on, err := strconv.ParseBool(value)
	if err != nil {
		return true
	}
	return on
}

// Enable appends to <rootDir>/logs/debug-YYYYMMDD.log.
func Enable(rootDir string) error {
	if strings.TrimSpace(rootDir) == "" {
		return fmt.Errorf("root directory is required")
	}
	logDir := paths.LogsDir(rootDir)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("create debug log dir: %w", err)
	}
	name := fmt.Sprintf("debug-%s.log", state.now().Format("20060102"))
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
	state.path = path
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
	state.path = ""
	state.mu.Unlock()
	return err
}

func Enabled() bool {
	return state.enabled.Load()
}

// Path returns the active log file, or "" when disabled.
func Path() string {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.path
}

func NewTrace(prefix string) string {
	value := atomic.AddUint64(&traceSeq, 1)
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "cmd"
	}
	return fmt.Sprintf("%s:%x", prefix, value)
}

func FormatCommand(name string, args []string) string {
	if len(args) == 0 {
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

func LogCommand(trace, cmd string) {
	write(entry{trace: trace, kind: "cmd", cmd: cmd})
}

func LogStdoutLines(trace, text string) {
	logOutputLines(trace, "stdout", text)
}

func LogStderrLines(trace, text string) {
	logOutputLines(trace, "stderr", text)
}

func LogExit(trace string, code int) {
	write(entry{trace: trace, kind: "exit", code: &code})
}

// LogEvent records a workflow transition such as "state=confirm".
func LogEvent(trace, event, detail string) {
	write(entry{trace: trace, kind: "event", event: event, line: detail})
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	type exitCoder interface {
		ExitCode() int
	}
	if ec, ok := err.(exitCoder); ok {
		return ec.ExitCode()
	}
	return -1
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
	ctxState.step = strconv.FormatUint(index, 10)
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

func logOutputLines(trace, kind, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		write(entry{trace: trace, kind: kind, line: line})
	}
}

func write(e entry) {
	if !Enabled() {
		return
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.writer == nil {
		return
	}
	_, _ = state.writer.WriteString(format(e, state.now(), state.pid))
}

func format(e entry, ts time.Time, pid int) string {
	trace := strings.TrimSpace(e.trace)
	if trace == "" {
		trace = "unknown"
	}
	kind := strings.TrimSpace(e.kind)
	if kind == "" {
		kind = "info"
	}
	phase, prompt, step, stepID := snapshotContext()
	if phase == "" {
		phase = "none"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ts=%s pid=%d trace=%s phase=%s kind=%s", ts.Format(time.RFC3339Nano), pid, trace, phase, kind)
	if prompt != "" {
		fmt.Fprintf(&b, " prompt=%q", prompt)
	}
	if step != "" {
		fmt.Fprintf(&b, " step=%s", step)
	}
	if stepID != "" {
		fmt.Fprintf(&b, " step_id=%s", stepID)
	}
	if e.event != "" {
		fmt.Fprintf(&b, " event=%s", e.event)
	}
	if e.cmd != "" {
		fmt.Fprintf(&b, " cmd=%q", e.cmd)
	}
	if e.line != "" {
		fmt.Fprintf(&b, " line=%q", e.line)
	}
	if e.code != nil {
		fmt.Fprintf(&b, " code=%d", *e.code)
	}
	b.WriteByte('\n')
	return b.String()
}

func snapshotContext() (string, string, string, string) {
	ctxState.mu.Lock()
	defer ctxState.mu.Unlock()
	return ctxState.phase, ctxState.prompt, ctxState.step, ctxState.stepID
}

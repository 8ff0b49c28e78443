package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/tasuku43/gbc/internal/infra/debuglog"
)

const (
	Indent       = "  "
	StepPrefix   = "•"
	LogConnector = "└─"
)

// StepLogger receives progress lines instead of the default writer.
type StepLogger interface {
	Step(text string)
	Log(text string)
	LogOutput(text string)
}

var (
	mu         sync.Mutex
	stepLogger StepLogger
	writer     io.Writer = os.Stdout
	stepIndex  uint64
)

func SetStepLogger(logger StepLogger) {
	mu.Lock()
	stepLogger = logger
	mu.Unlock()
}

func HasStepLogger() bool {
	mu.Lock()
	defer mu.Unlock()
	return stepLogger != nil
}

// SetWriter redirects plain step output. nil restores stdout.
func SetWriter(w io.Writer) {
	mu.Lock()
	if w == nil {
		w = os.Stdout
	}
	writer = w
	mu.Unlock()
}

func current() (StepLogger, io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	return stepLogger, writer
}

func Step(text string) {
	step := atomic.AddUint64(&stepIndex, 1)
	debuglog.SetStep(step, stepID(text))
	logger, w := current()
	if logger != nil {
		logger.Step(text)
		return
	}
	fmt.Fprintf(w, "%s%s %s\n", Indent, StepPrefix, text)
}

func Log(text string) {
	logger, w := current()
	if logger != nil {
		logger.Log(text)
		return
	}
	fmt.Fprintf(w, "%s%s %s\n", Indent+Indent, LogConnector, text)
}

func Logf(format string, args ...any) {
	Log(fmt.Sprintf(format, args...))
}

func LogOutput(text string) {
	logger, w := current()
	if logger != nil {
		logger.LogOutput(text)
		return
	}
	fmt.Fprintf(w, "%s%s\n", LogOutputPrefix(), text)
}

func LogOutputf(format string, args ...any) {
	LogOutput(fmt.Sprintf(format, args...))
}

func LogLines(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		LogOutput(line)
	}
}

func LogOutputPrefix() string {
	spaces := utf8.RuneCountInString(LogConnector) + 1
	return Indent + Indent + strings.Repeat(" ", spaces)
}

func stepID(text string) string {
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

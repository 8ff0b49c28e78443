package debuglog

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestEnableWritesTracedLines(t *testing.T) {
	root := t.TempDir()
	state.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	defer func() { state.now = time.Now }()

	if err := Enable(root); err != nil {
		t.Fatalf("Enable error: %v", err)
	}
	path := Path()
	if !strings.HasSuffix(path, "debug-20240102.log") {
		t.Fatalf("unexpected log path %q", path)
	}

	trace := NewTrace("git")
	SetPhase("create")
	LogCommand(trace, FormatCommand("git", []string{"checkout", "-b", "feature/x"}))
	LogStdoutLines(trace, "one\n\ntwo\n")
	LogEvent(trace, "state=confirm", "feature/x")
	LogExit(trace, 0)
	if err := Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], `cmd="git checkout -b feature/x"`) || !strings.Contains(lines[0], "phase=create") {
		t.Fatalf("unexpected cmd line: %s", lines[0])
	}
	if !strings.Contains(lines[3], "event=state=confirm") {
		t.Fatalf("unexpected event line: %s", lines[3])
	}
	if !strings.Contains(lines[4], "code=0") {
		t.Fatalf("unexpected exit line: %s", lines[4])
	}
}

func TestDisabledWritesNothing(t *testing.T) {
	_ = Close()
	LogCommand("x", "git status")
	if Enabled() || Path() != "" {
		t.Fatalf("expected disabled logger")
	}
}

func TestEnvRequested(t *testing.T) {
	cases := map[string]bool{"": false, "0": false, "false": false, "1": true, "yes": true}
	for value, want := range cases {
		t.Setenv(EnvVar, value)
		if got := EnvRequested(); got != want {
			t.Fatalf("EnvRequested(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Fatalf("expected 0 for nil")
	}
	if ExitCode(os.ErrNotExist) != -1 {
		t.Fatalf("expected -1 for non exit error")
	}
}

package gitcmd

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/tasuku43/gbc/internal/infra/output"
)

var verbose atomic.Bool

// SetVerbose echoes every git invocation as "$ git ..." when on.
func SetVerbose(v bool) {
	verbose.Store(v)
}

func IsVerbose() bool {
	return verbose.Load()
}

func Logf(format string, args ...any) {
	if !verbose.Load() {
		return
	}
	if output.HasStepLogger() {
		output.Logf("$ "+format, args...)
		return
	}
	fmt.Fprintf(os.Stderr, "%s$ "+format+"\n", append([]any{output.Indent}, args...)...)
}

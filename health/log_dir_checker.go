package health

import (
	"fmt"
	"os"
)

// LogDirChecker reports the server as unhealthy when entries can not be
// written to the log directory.
type LogDirChecker struct {
	Dir string
}

// Check creates the directory if necessary, then writes and removes a scratch
// file within it.
func (checker *LogDirChecker) Check() Status {
	if err := os.MkdirAll(checker.Dir, 0o755); err != nil {
		return Status{false, fmt.Sprintf("Log directory is unavailable: %s.", err)}
	}

	f, err := os.CreateTemp(checker.Dir, ".health-*")
	if err != nil {
		return Status{false, fmt.Sprintf("Log directory is not writable: %s.", err)}
	}

	name := f.Name()
	f.Close()
	os.Remove(name)

	return Status{true, "Server is accepting requests."}
}

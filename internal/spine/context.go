package spine

import (
	"fmt"
	"os"
	"strings"
)

// Context threads per-export state through the pipeline: accumulated log
// lines that are flushed to a sidecar file on both success and failure.
// Not a global; every export pass owns its own.
type Context struct {
	lines []string
	Quiet bool
}

// NewContext returns an empty export context.
func NewContext() *Context {
	return &Context{}
}

// Logf records a log line and echoes it to stdout.
func (c *Context) Logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if !c.Quiet {
		fmt.Println(line)
	}
	c.lines = append(c.lines, line)
}

// Lines returns the accumulated log.
func (c *Context) Lines() []string {
	return c.lines
}

// Flush writes the accumulated log to a sidecar file.
func (c *Context) Flush(path string) error {
	data := strings.Join(c.lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("spine: write log %s: %w", path, err)
	}
	return nil
}

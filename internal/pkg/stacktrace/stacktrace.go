// Package stacktrace trims raw goroutine stacks down to frames inside this
// module, for compact panic logs.
package stacktrace

import "strings"

// InternalPaths extracts the internal package frames from a raw stack trace,
// reported as file.go:line relative to the module's internal directory.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines)/2)

	for _, line := range lines {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, "/internal/")
		if idx == -1 || !strings.Contains(line, ".go:") {
			continue
		}

		frame := line[idx+1:]
		if sp := strings.IndexByte(frame, ' '); sp != -1 {
			frame = frame[:sp]
		}
		paths = append(paths, frame)
	}

	return paths
}

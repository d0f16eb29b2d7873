// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"
	"sync"
)

// Log is the append-only ordered stream of progress lines a running job
// emits. It is the only channel for intermediate status: the worker
// appends, an optional mirror writer (typically stderr or a UI sink)
// sees each line as it happens, and the final Result carries the full
// ordered snapshot.
type Log struct {
	mu     sync.Mutex
	lines  []string
	mirror io.Writer
}

// NewLog returns a Log mirroring each line to w. A nil w keeps the
// stream in memory only.
func NewLog(w io.Writer) *Log {
	return &Log{mirror: w}
}

// Printf appends one formatted line to the stream.
func (l *Log) Printf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
	if l.mirror != nil {
		fmt.Fprintln(l.mirror, line)
	}
}

// Lines returns a copy of every line emitted so far, in order.
func (l *Log) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

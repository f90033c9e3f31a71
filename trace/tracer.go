// Package trace provides structured execution tracing for the
// compiler, scheduler, and special-command dispatch. Grounded on
// trace/tracer.go's filter-by-glob, mutex-guarded global tracer, kept
// nearly verbatim in shape and repointed at this domain's events
// (process state transitions and special-command dispatch instead of
// verb calls).
package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/example/starbasic/types"
)

type Tracer struct {
	enabled bool
	filters []string
	writer  io.Writer
	mu      sync.Mutex
}

var globalTracer *Tracer

// Init installs the global tracer. filters are glob patterns matched
// against special-command/procedure names; an empty filter list traces
// everything.
func Init(enabled bool, filters []string, writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	globalTracer = &Tracer{enabled: enabled, filters: filters, writer: writer}
}

func IsEnabled() bool {
	if globalTracer == nil {
		return false
	}
	return globalTracer.enabled
}

func (t *Tracer) matchesFilter(name string) bool {
	if len(t.filters) == 0 {
		return true
	}
	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// Compile logs a finished BytecodeObject's name and instruction count,
// called once by the StatementCompiler per compiled unit.
func (t *Tracer) Compile(procName string, instructionCount int) {
	if !t.enabled || !t.matchesFilter(procName) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.writer, "[TRACE] COMPILE %s (%d instructions)\n", procName, instructionCount)
}

// ProcessState logs a process state transition, called by the
// scheduler on every change.
func (t *Tracer) ProcessState(pid int, from, to string) {
	if !t.enabled {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.writer, "[TRACE] PROCESS #%d %s -> %s\n", pid, from, to)
}

// SpecialCommand logs a dispatched special command and its arguments.
func (t *Tracer) SpecialCommand(pid int, name string, args []types.Value) {
	if !t.enabled || !t.matchesFilter(name) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	argStrs := make([]string, len(args))
	for i, a := range args {
		argStrs[i] = a.String()
	}
	fmt.Fprintf(t.writer, "[TRACE] SPECIAL #%d %s(%s)\n", pid, name, strings.Join(argStrs, ", "))
}

// Exception logs an uncaught or handled runtime error.
func (t *Tracer) Exception(pid int, procName string, code types.ErrorCode) {
	if !t.enabled || !t.matchesFilter(procName) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.writer, "[TRACE] EXCEPTION #%d %s %s\n", pid, procName, code.String())
}

// Return logs a process or Sub/Function return value.
func (t *Tracer) Return(pid int, procName string, result types.Value) {
	if !t.enabled || !t.matchesFilter(procName) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	resultStr := "null"
	if result != nil {
		resultStr = result.String()
	}
	fmt.Fprintf(t.writer, "[TRACE] RETURN #%d %s => %s\n", pid, procName, resultStr)
}

func Compile(procName string, instructionCount int) {
	if globalTracer != nil {
		globalTracer.Compile(procName, instructionCount)
	}
}

func ProcessState(pid int, from, to string) {
	if globalTracer != nil {
		globalTracer.ProcessState(pid, from, to)
	}
}

func SpecialCommand(pid int, name string, args []types.Value) {
	if globalTracer != nil {
		globalTracer.SpecialCommand(pid, name, args)
	}
}

func Exception(pid int, procName string, code types.ErrorCode) {
	if globalTracer != nil {
		globalTracer.Exception(pid, procName, code)
	}
}

func Return(pid int, procName string, result types.Value) {
	if globalTracer != nil {
		globalTracer.Return(pid, procName, result)
	}
}

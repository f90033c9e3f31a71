package vm

import (
	"sync"
	"time"

	"github.com/example/starbasic/trace"
	"github.com/example/starbasic/types"
)

// ProcessState is the state machine spec §4.5 names:
// Suspended→Runnable→Running→{Ended,Failed,Terminated,Frozen,Waiting}.
type ProcessState int

const (
	StateSuspended ProcessState = iota
	StateRunnable
	StateRunning
	StateEnded
	StateFailed
	StateTerminated
	StateFrozen
	StateWaiting
)

var stateNames = map[ProcessState]string{
	StateSuspended: "Suspended", StateRunnable: "Runnable", StateRunning: "Running",
	StateEnded: "Ended", StateFailed: "Failed", StateTerminated: "Terminated",
	StateFrozen: "Frozen", StateWaiting: "Waiting",
}

func (s ProcessState) String() string { return stateNames[s] }

func (s ProcessState) Terminal() bool {
	switch s {
	case StateEnded, StateFailed, StateTerminated:
		return true
	}
	return false
}

// ExceptHandler records a PushHandler site: the catch target IP, and
// the operand-stack depth to restore on unwind (spec §4.5's exception
// stack, grounded on vm/vm.go's Handler/HandlerType).
type ExceptHandler struct {
	TargetIP   int
	StackDepth int
}

// Frame is one activation record: locals, exception/catch stack, and
// the context chain pushed by With (spec §4.5, grounded on
// vm/vm.go's StackFrame — replacing This/Player/Caller MOO-object
// identity with a generic ContextStack).
type Frame struct {
	BCO          *BytecodeObject
	IP           int
	Locals       *types.Segment
	ContextStack []types.HostContext
	Handlers     []ExceptHandler

	// forStates/iterStates track active For/ForEach loop bounds and
	// cursors, keyed by the loop variable's local slot index. Kept off
	// the operand stack since nested loops over the same process must
	// not interleave each other's bookkeeping.
	forStates  map[int32]*forState
	iterStates map[int32]*iterState
}

func NewFrame(bco *BytecodeObject) *Frame {
	return &Frame{BCO: bco, Locals: types.NewSegmentSized(bco.Locals.Len())}
}

// Process is one cooperatively scheduled execution (spec §4.5).
// Grounded on task.Task's state machine, generalized from a MOO verb
// call stack to a BytecodeObject call stack.
type Process struct {
	mu sync.Mutex

	ID       int
	Priority int
	Group    *ProcessGroup

	State ProcessState
	Stack []types.Value
	Calls []*Frame

	TickLimit int
	Ticks     int

	WakeAt time.Time // zero if not Suspended on a timer

	Result       types.Value
	Err          *types.Error
	pendingInput func() (types.Value, bool) // not set or polled anywhere in this module
}

func NewProcess(id int, bco *BytecodeObject, tickLimit int) *Process {
	p := &Process{ID: id, State: StateRunnable, TickLimit: tickLimit}
	p.Calls = append(p.Calls, NewFrame(bco))
	return p
}

func (p *Process) CurrentFrame() *Frame {
	if len(p.Calls) == 0 {
		return nil
	}
	return p.Calls[len(p.Calls)-1]
}

func (p *Process) Push(v types.Value) { p.Stack = append(p.Stack, v) }

func (p *Process) Pop() types.Value {
	n := len(p.Stack)
	v := p.Stack[n-1]
	p.Stack = p.Stack[:n-1]
	return v
}

func (p *Process) Peek() types.Value { return p.Stack[len(p.Stack)-1] }

func (p *Process) PopN(n int) []types.Value {
	start := len(p.Stack) - n
	vs := append([]types.Value(nil), p.Stack[start:]...)
	p.Stack = p.Stack[:start]
	return vs
}

// PushFrame enters a Sub/Function call.
func (p *Process) PushFrame(f *Frame) { p.Calls = append(p.Calls, f) }

// PopFrame returns from a Sub/Function call.
func (p *Process) PopFrame() *Frame {
	n := len(p.Calls)
	f := p.Calls[n-1]
	p.Calls = p.Calls[:n-1]
	return f
}

func (p *Process) SetState(s ProcessState) {
	p.mu.Lock()
	from := p.State
	p.State = s
	p.mu.Unlock()
	if from != s {
		trace.ProcessState(p.ID, from.String(), s.String())
	}
}

func (p *Process) GetState() ProcessState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.State
}

// Suspend parks the process until deadline (zero means "until explicitly resumed").
func (p *Process) Suspend(deadline time.Time) {
	p.mu.Lock()
	from := p.State
	p.State = StateSuspended
	p.WakeAt = deadline
	p.mu.Unlock()
	if from != StateSuspended {
		trace.ProcessState(p.ID, from.String(), StateSuspended.String())
	}
}

func (p *Process) WakeDue(now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.State == StateSuspended && !p.WakeAt.IsZero() && !now.Before(p.WakeAt)
}

// Freeze/Thaw support the Frozen state (spec §4.5): a process parked
// indefinitely pending a host-driven event (e.g. waiting on Input).
func (p *Process) Freeze() { p.SetState(StateFrozen) }
func (p *Process) Thaw()   { p.SetState(StateRunnable) }

// Terminate ends the process immediately, bypassing any Try handler —
// distinct from Failed, which records an uncaught runtime error.
func (p *Process) Terminate() {
	p.mu.Lock()
	from := p.State
	p.State = StateTerminated
	p.mu.Unlock()
	trace.ProcessState(p.ID, from.String(), StateTerminated.String())
}

func (p *Process) Fail(err *types.Error) {
	p.mu.Lock()
	from := p.State
	p.State = StateFailed
	p.Err = err
	p.mu.Unlock()
	trace.Exception(p.ID, p.currentProcName(), err.Code)
	trace.ProcessState(p.ID, from.String(), StateFailed.String())
}

// currentProcName names the innermost active BytecodeObject, for trace
// labeling; "<none>" once the call stack has already unwound.
func (p *Process) currentProcName() string {
	if f := p.CurrentFrame(); f != nil && f.BCO != nil {
		return f.BCO.ProcName
	}
	return "<none>"
}

func (p *Process) End(result types.Value) {
	p.mu.Lock()
	from := p.State
	p.State = StateEnded
	p.Result = result
	name := p.currentProcName()
	p.mu.Unlock()
	trace.Return(p.ID, name, result)
	trace.ProcessState(p.ID, from.String(), StateEnded.String())
}

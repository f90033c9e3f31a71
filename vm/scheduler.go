package vm

import (
	"sort"
	"sync"
	"time"
)

// ProcessGroup tracks a set of Processes forked together so a waiter
// can block on the group as a whole (spec §4.6), grounded on
// task/manager.go's id allocation and server/scheduler.go's group
// membership bookkeeping.
type ProcessGroup struct {
	mu          sync.Mutex
	ID          int
	Members     []*Process
	finished    bool
	onFinish    []func()
	waitRefs    int // external waits still referencing this group
}

func NewProcessGroup(id int) *ProcessGroup { return &ProcessGroup{ID: id} }

func (g *ProcessGroup) Add(p *Process) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Members = append(g.Members, p)
	p.Group = g
}

// OnFinish registers a callback fired exactly once, the instant the
// group's last runnable member reaches a terminal state
// (sig_process_group_finish, spec §4.6's testable property).
func (g *ProcessGroup) OnFinish(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished {
		g.mu.Unlock()
		fn()
		g.mu.Lock()
		return
	}
	g.onFinish = append(g.onFinish, fn)
}

func (g *ProcessGroup) AddWaitRef() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.waitRefs++
}

func (g *ProcessGroup) ReleaseWaitRef() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.waitRefs > 0 {
		g.waitRefs--
	}
}

func (g *ProcessGroup) hasWaitRefs() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.waitRefs > 0
}

// checkFinished fires the once-only finish signal once every member is
// terminal. Called by ProcessList after each run slice.
func (g *ProcessGroup) checkFinished() {
	g.mu.Lock()
	if g.finished {
		g.mu.Unlock()
		return
	}
	for _, m := range g.Members {
		if !m.GetState().Terminal() {
			g.mu.Unlock()
			return
		}
	}
	g.finished = true
	callbacks := g.onFinish
	g.onFinish = nil
	g.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

// ProcessList is the cooperative, priority-ordered scheduler (spec
// §4.6), grounded on task/manager.go's Manager singleton and
// server/scheduler.go's run loop.
type ProcessList struct {
	mu         sync.Mutex
	vm         *VM
	processes  map[int]*Process
	groups     map[int]*ProcessGroup
	nextPID    int
	nextGID    int
	interrupts map[int]bool // pgid -> pending asynchronous interrupt
}

func NewProcessList(vm *VM) *ProcessList {
	return &ProcessList{
		vm:         vm,
		processes:  map[int]*Process{},
		groups:     map[int]*ProcessGroup{},
		interrupts: map[int]bool{},
	}
}

// Spawn creates and registers a new Process running bco, in a fresh
// single-member ProcessGroup.
func (pl *ProcessList) Spawn(bco *BytecodeObject, priority, tickLimit int) *Process {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.nextPID++
	p := NewProcess(pl.nextPID, bco, tickLimit)
	p.Priority = priority
	pl.nextGID++
	g := NewProcessGroup(pl.nextGID)
	g.Add(p)
	pl.processes[p.ID] = p
	pl.groups[g.ID] = g
	return p
}

// Fork adds a new Process into an existing group (spec §4.6's Fork
// semantics: child processes share their parent's completion signal).
func (pl *ProcessList) Fork(group *ProcessGroup, bco *BytecodeObject, priority, tickLimit int) *Process {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.nextPID++
	p := NewProcess(pl.nextPID, bco, tickLimit)
	p.Priority = priority
	group.Add(p)
	pl.processes[p.ID] = p
	return p
}

func (pl *ProcessList) Get(id int) (*Process, bool) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	p, ok := pl.processes[id]
	return p, ok
}

// RunSlice steps every Runnable process once (priority-high-first), the
// way server/scheduler.go's run loop dispatches a tick, then fires any
// ProcessGroup finish signals newly completed this slice.
func (pl *ProcessList) RunSlice() {
	pl.mu.Lock()
	now := time.Now()
	var runnable []*Process
	for _, p := range pl.processes {
		if p.WakeDue(now) {
			p.SetState(StateRunnable)
		}
		if pl.interrupts[groupIDOf(p)] {
			p.Fail(ErrTickLimit)
		}
		if p.GetState() == StateRunnable {
			runnable = append(runnable, p)
		}
	}
	groups := make(map[int]*ProcessGroup, len(pl.groups))
	for id, g := range pl.groups {
		groups[id] = g
	}
	pl.interrupts = map[int]bool{}
	pl.mu.Unlock()

	sort.Slice(runnable, func(i, j int) bool { return runnable[i].Priority > runnable[j].Priority })
	for _, p := range runnable {
		pl.vm.Run(p)
	}
	for _, g := range groups {
		g.checkFinished()
	}
	pl.removeTerminated()
}

func groupIDOf(p *Process) int {
	if p.Group == nil {
		return 0
	}
	return p.Group.ID
}

// Interrupt requests that every process in the group with id pgid fail
// on its next scheduling slice — the asynchronous equivalent of the
// teacher's checkBreak, exposed as an explicit scheduler call instead of
// an OS signal (spec §9 Open Question (ii)).
func (pl *ProcessList) Interrupt(pgid int) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.interrupts[pgid] = true
}

// removeTerminated drops terminal processes from the scheduling table,
// but conservatively: never while any external wait still references
// the owning group (spec §9 Open Question (i), preserving the teacher's
// documented FIXME rather than risking a wait that never wakes).
func (pl *ProcessList) removeTerminated() {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	for id, p := range pl.processes {
		if !p.GetState().Terminal() {
			continue
		}
		if p.Group != nil && p.Group.hasWaitRefs() {
			continue
		}
		delete(pl.processes, id)
	}
}

// Count reports how many processes remain scheduled, for tests and the
// REPL's status line.
func (pl *ProcessList) Count() int {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return len(pl.processes)
}

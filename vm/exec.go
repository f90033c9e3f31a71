package vm

import (
	"math"

	"github.com/example/starbasic/context"
	"github.com/example/starbasic/parser"
	"github.com/example/starbasic/trace"
	"github.com/example/starbasic/types"
)

// SpecialCommand is a host-registered statement handler (spec §4.2's
// special-command hook): Open, Get, Put, Input, Seek, SetByte/Word/
// Long/Str, and whatever else a host world registers by name.
type SpecialCommand func(p *Process, args []types.Value) (types.Value, error)

// SpecialRegistry is the minimal surface VM needs from a world — kept
// as a local interface so vm never imports package world (world imports
// vm to build CallableValues and wire special commands, not the other
// way around).
type SpecialRegistry interface {
	Lookup(name string) (SpecialCommand, bool)
}

// Globals is where global names resolve when not found as a local in the
// current Frame — the outermost fallback scope of spec §4.7's lookup
// chain (typically a world.World).
type Globals interface {
	GetGlobal(name string) (types.Value, bool)
	SetGlobal(name string, v types.Value)
}

// VM executes one Process at a time, cooperatively: Run steps until the
// process yields, ends, fails, or exhausts its tick budget. Grounded on
// vm/vm.go's Step/Execute dispatch loop and HandleError, collapsed onto
// a single types.Error exception representation instead of the
// teacher's dual MooError/VMException wrappers.
type VM struct {
	Specials SpecialRegistry
	Globals  Globals
}

func NewVM(specials SpecialRegistry, globals Globals) *VM {
	return &VM{Specials: specials, Globals: globals}
}

// ErrTickLimit is the error ProcessList.RunSlice fails a process with
// when its group was interrupted via ProcessList.Interrupt. A process
// that merely exhausts its per-slice tick budget is not failed: Run sets
// it back to Runnable.
var ErrTickLimit = types.NewError(types.E_MAXREC, "tick limit reached")

// Run steps p until it leaves the Running state (ends, fails, suspends,
// or exhausts ticks).
func (vm *VM) Run(p *Process) {
	p.SetState(StateRunning)
	for {
		cont, err := vm.step(p)
		if err != nil {
			vm.handleError(p, err)
			if p.GetState() == StateFailed {
				return
			}
			continue
		}
		if !cont {
			return
		}
		if p.TickLimit > 0 && p.Ticks >= p.TickLimit {
			p.SetState(StateRunnable)
			return
		}
	}
}

// handleError unwinds p's call stack looking for a PushHandler whose
// scope covers the raise site, restoring the operand stack to the
// handler's recorded depth and jumping to its target IP — grounded on
// vm/vm.go's HandleError, collapsed onto a single types.Error kind
// instead of the teacher's MooError/VMException pair. If no handler is
// found in any frame, the process fails.
func (vm *VM) handleError(p *Process, err *types.Error) {
	for {
		f := p.CurrentFrame()
		if f == nil {
			p.Fail(err)
			return
		}
		if len(f.Handlers) > 0 {
			h := f.Handlers[len(f.Handlers)-1]
			f.Handlers = f.Handlers[:len(f.Handlers)-1]
			if h.StackDepth <= len(p.Stack) {
				p.Stack = p.Stack[:h.StackDepth]
			}
			p.Push(types.NewStr(err.Message))
			f.IP = h.TargetIP
			return
		}
		if len(p.Calls) <= 1 {
			p.Fail(err)
			return
		}
		p.PopFrame()
	}
}

// step executes exactly one instruction. Returns cont=false when the
// process has left the Running state (Ended/Failed/Terminated/Waiting/
// Frozen/Suspended).
func (vm *VM) step(p *Process) (cont bool, err *types.Error) {
	f := p.CurrentFrame()
	if f == nil || f.IP >= len(f.BCO.Code) {
		p.End(types.Null)
		return false, nil
	}
	ins := f.BCO.Code[f.IP]
	f.IP++
	p.Ticks++

	switch ins.Major {
	case parser.OpNop:
		// no-op, left by the optimizer in place of removed instructions.
	case parser.OpHalt:
		var result types.Value = types.Null
		if len(p.Stack) > 0 {
			result = p.Peek()
		}
		p.End(result)
		return false, nil
	case parser.OpPushConst:
		p.Push(f.BCO.Constants[ins.Arg])
	case parser.OpPop:
		p.Pop()
	case parser.OpDup:
		p.Push(p.Peek())
	case parser.OpGetLocal:
		p.Push(f.Locals.Get(int(ins.Arg)))
	case parser.OpSetLocal:
		f.Locals.Set(int(ins.Arg), p.Peek())
	case parser.OpGetGlobal:
		name := f.BCO.Names.NameAt(int(ins.Arg))
		if vm.Globals != nil {
			if v, ok := vm.Globals.GetGlobal(name); ok {
				p.Push(v)
				break
			}
		}
		// Not a declared global: a bare name can still refer to a host
		// special/builtin (LEN, UCASE$, ...) addressed by name rather
		// than stored as a value, so the lookup chain falls through to
		// the special registry before finally giving up.
		if vm.Specials != nil {
			if _, ok := vm.Specials.Lookup(name); ok {
				p.Push(types.NewBuiltinCallable(name))
				break
			}
		}
		return true, types.NewError(types.E_VARNF, "undeclared variable "+name)
	case parser.OpSetGlobal:
		name := f.BCO.Names.NameAt(int(ins.Arg))
		if vm.Globals != nil {
			vm.Globals.SetGlobal(name, p.Peek())
		}
	case parser.OpGetField:
		return vm.execGetField(p, f, ins)
	case parser.OpSetField:
		return vm.execSetField(p, f, ins)
	case parser.OpIndex:
		return vm.execIndex(p)
	case parser.OpIndexSet:
		return vm.execIndexSet(p)
	case parser.OpAdd, parser.OpSub, parser.OpMul, parser.OpDiv, parser.OpIDiv,
		parser.OpMod, parser.OpPow:
		return vm.execArith(p, ins.Major)
	case parser.OpNeg:
		return vm.execNeg(p)
	case parser.OpNot:
		v := p.Pop()
		p.Push(types.NewBool(!v.Truthy()))
	case parser.OpConcat, parser.OpConcatNull:
		return vm.execConcat(p, ins.Major == parser.OpConcatNull)
	case parser.OpEq, parser.OpNe, parser.OpLt, parser.OpGt, parser.OpLe, parser.OpGe:
		return vm.execCompare(p, ins.Major)
	case parser.OpJump:
		f.IP = int(ins.Arg)
	case parser.OpJumpIfFalse:
		if !p.Pop().Truthy() {
			f.IP = int(ins.Arg)
		}
	case parser.OpJumpIfTrue:
		if p.Pop().Truthy() {
			f.IP = int(ins.Arg)
		}
	case parser.OpMakeList:
		items := p.PopN(int(ins.Arg))
		p.Push(types.NewListValue(items))
	case parser.OpCall:
		return vm.execCall(p, f, ins)
	case parser.OpReturn:
		return vm.execReturn(p, ins)
	case parser.OpPushHandler:
		f.Handlers = append(f.Handlers, ExceptHandler{TargetIP: int(ins.Arg), StackDepth: len(p.Stack)})
	case parser.OpPopHandler:
		if len(f.Handlers) > 0 {
			f.Handlers = f.Handlers[:len(f.Handlers)-1]
		}
	case parser.OpClearError:
		// handleError unconditionally pushes the error message before
		// jumping to the handler; a catch expression's Else branch (unlike
		// the Try statement's Else, which binds it into SYSTEM.ERR with an
		// explicit SetLocal+Pop) has nowhere to bind it, so this discards it.
		p.Pop()
	case parser.OpRaise:
		msg := p.Pop()
		return true, types.NewError(types.E_USER, msg.String())
	case parser.OpCallSpecial:
		return vm.execCallSpecial(p, f, ins)
	case parser.OpDeclareLocal:
		// locals are pre-sized from BCO.Locals.Len() at Frame creation;
		// nothing to do at runtime beyond that.
	case parser.OpMakeCallable:
		name := f.BCO.Names.NameAt(int(ins.Arg))
		p.Push(types.NewBuiltinCallable(name))
	case parser.OpForPrep:
		return vm.execForPrep(p, f, ins)
	case parser.OpForNext:
		return vm.execForNext(p, f, ins)
	case parser.OpForEachPrep:
		return vm.execForEachPrep(p, f, ins)
	case parser.OpForEachNext:
		return vm.execForEachNext(p, f, ins)
	case parser.OpNewStruct:
		stv, ok := f.BCO.Constants[ins.Arg].(types.StructTypeValue)
		if !ok {
			return true, types.NewError(types.E_TYPE, "bad struct type constant")
		}
		p.Push(types.NewStructValue(stv.T))
	case parser.OpWithPush:
		v := p.Pop()
		cv, ok := v.(types.ContextValue)
		if !ok {
			return true, types.NewError(types.E_TYPE, "With requires a context value")
		}
		f.ContextStack = append(f.ContextStack, cv.Host)
	case parser.OpWithPop:
		if len(f.ContextStack) > 0 {
			f.ContextStack = f.ContextStack[:len(f.ContextStack)-1]
		}
	default:
		return true, types.NewError(types.E_TYPE, "unimplemented opcode")
	}
	return true, nil
}

func asContext(v types.Value) (context.Context, bool) {
	cv, ok := v.(types.ContextValue)
	if !ok || cv.Host == nil {
		return nil, false
	}
	c, ok := cv.Host.(context.Context)
	return c, ok
}

func (vm *VM) execGetField(p *Process, f *Frame, ins Instruction) (bool, *types.Error) {
	name := f.BCO.Names.NameAt(int(ins.Arg))
	v := p.Pop()
	if sv, ok := v.(types.StructValue); ok {
		p.Push(sv.Get(name))
		return true, nil
	}
	c, ok := asContext(v)
	if !ok {
		return true, types.NewError(types.E_TYPE, "value has no fields")
	}
	idx, ok := c.Lookup(name)
	if !ok {
		return true, types.NewError(types.E_PROPNF, "no such property: "+name)
	}
	p.Push(c.Get(idx))
	return true, nil
}

func (vm *VM) execSetField(p *Process, f *Frame, ins Instruction) (bool, *types.Error) {
	name := f.BCO.Names.NameAt(int(ins.Arg))
	val := p.Pop()
	target := p.Pop()
	if sv, ok := target.(types.StructValue); ok {
		if !sv.Set(name, val) {
			return true, types.NewError(types.E_PROPNF, "no such field: "+name)
		}
		p.Push(val)
		return true, nil
	}
	c, ok := asContext(target)
	if !ok {
		return true, types.NewError(types.E_TYPE, "value has no fields")
	}
	idx, ok := c.Lookup(name)
	if !ok {
		return true, types.NewError(types.E_PROPNF, "no such property: "+name)
	}
	if err := c.Set(idx, val); err != nil {
		return true, types.NewError(types.E_NACC, err.Error())
	}
	p.Push(val)
	return true, nil
}

func (vm *VM) execIndex(p *Process) (bool, *types.Error) {
	idx := p.Pop()
	coll := p.Pop()
	switch c := coll.(type) {
	case types.ListValue:
		i, ok := idx.(types.IntValue)
		if !ok {
			return true, types.NewError(types.E_TYPE, "index must be an integer")
		}
		v, err := c.Get(int(i.Val))
		if err != nil {
			return true, types.NewError(types.E_RANGE, err.Error())
		}
		p.Push(v)
	case types.BlobValue:
		i, ok := idx.(types.IntValue)
		if !ok {
			return true, types.NewError(types.E_TYPE, "index must be an integer")
		}
		p.Push(types.NewInt(c.GetByte(int(i.Val))))
	default:
		return true, types.NewError(types.E_TYPE, "value is not indexable")
	}
	return true, nil
}

func (vm *VM) execIndexSet(p *Process) (bool, *types.Error) {
	val := p.Pop()
	idx := p.Pop()
	coll := p.Pop()
	switch c := coll.(type) {
	case types.ListValue:
		i, ok := idx.(types.IntValue)
		if !ok {
			return true, types.NewError(types.E_TYPE, "index must be an integer")
		}
		if err := c.Set(int(i.Val), val); err != nil {
			return true, types.NewError(types.E_RANGE, err.Error())
		}
		p.Push(val)
	case types.BlobValue:
		i, ok := idx.(types.IntValue)
		if !ok {
			return true, types.NewError(types.E_TYPE, "index must be an integer")
		}
		iv, ok := val.(types.IntValue)
		if !ok {
			return true, types.NewError(types.E_TYPE, "blob element must be an integer")
		}
		c.SetByte(int(i.Val), iv.Val)
		p.Push(val)
	default:
		return true, types.NewError(types.E_TYPE, "value is not indexable")
	}
	return true, nil
}

// execArith implements +, -, *, /, \ (int div), MOD, ^. / and ^ always
// yield Float64; the others promote Int32 to Float64 on overflow or on
// any Float operand (spec §3).
func (vm *VM) execArith(p *Process, op byte) (bool, *types.Error) {
	b := p.Pop()
	a := p.Pop()
	ai, aIsInt := a.(types.IntValue)
	bi, bIsInt := b.(types.IntValue)
	if aIsInt && bIsInt && op != parser.OpDiv && op != parser.OpPow {
		res, overflow := intArith(op, ai.Val, bi.Val)
		if overflow {
			p.Push(types.NewFloat(floatArith(op, float64(ai.Val), float64(bi.Val))))
			return true, nil
		}
		p.Push(types.NewInt(res))
		return true, nil
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if !aok || !bok {
		return true, types.NewError(types.E_TYPE, "arithmetic requires numeric operands")
	}
	if (op == parser.OpDiv || op == parser.OpIDiv || op == parser.OpMod) && bf == 0 {
		return true, types.NewError(types.E_DIV, "division by zero")
	}
	p.Push(types.NewFloat(floatArith(op, af, bf)))
	return true, nil
}

func asFloat(v types.Value) (float64, bool) {
	switch x := v.(type) {
	case types.IntValue:
		return float64(x.Val), true
	case types.FloatValue:
		return x.Val, true
	default:
		return 0, false
	}
}

func intArith(op byte, a, b int32) (int32, bool) {
	var r int64
	switch op {
	case parser.OpAdd:
		r = int64(a) + int64(b)
	case parser.OpSub:
		r = int64(a) - int64(b)
	case parser.OpMul:
		r = int64(a) * int64(b)
	case parser.OpIDiv:
		if b == 0 {
			return 0, true
		}
		r = int64(a / b)
	case parser.OpMod:
		if b == 0 {
			return 0, true
		}
		r = int64(a % b)
	}
	if r > math.MaxInt32 || r < math.MinInt32 {
		return 0, true
	}
	return int32(r), false
}

func floatArith(op byte, a, b float64) float64 {
	switch op {
	case parser.OpAdd:
		return a + b
	case parser.OpSub:
		return a - b
	case parser.OpMul:
		return a * b
	case parser.OpDiv:
		return a / b
	case parser.OpIDiv:
		return math.Trunc(a / b)
	case parser.OpMod:
		return math.Mod(a, b)
	case parser.OpPow:
		return math.Pow(a, b)
	}
	return 0
}

func (vm *VM) execNeg(p *Process) (bool, *types.Error) {
	v := p.Pop()
	switch x := v.(type) {
	case types.IntValue:
		if x.Val == math.MinInt32 {
			p.Push(types.NewFloat(-float64(x.Val)))
			return true, nil
		}
		p.Push(types.NewInt(-x.Val))
	case types.FloatValue:
		p.Push(types.NewFloat(-x.Val))
	default:
		return true, types.NewError(types.E_TYPE, "unary minus requires a number")
	}
	return true, nil
}

// execConcat implements & (null-propagating: Null on either side yields
// Null) and # (null-preserving: Null prints as empty string).
func (vm *VM) execConcat(p *Process, preserveNull bool) (bool, *types.Error) {
	b := p.Pop()
	a := p.Pop()
	if !preserveNull && (a == types.Null || b == types.Null) {
		p.Push(types.Null)
		return true, nil
	}
	as, bs := valueAsConcatString(a), valueAsConcatString(b)
	p.Push(types.NewStr(as + bs))
	return true, nil
}

func valueAsConcatString(v types.Value) string {
	if v == types.Null {
		return ""
	}
	return v.String()
}

func (vm *VM) execCompare(p *Process, op byte) (bool, *types.Error) {
	b := p.Pop()
	a := p.Pop()
	switch op {
	case parser.OpEq:
		p.Push(types.NewBool(a.Equal(b)))
		return true, nil
	case parser.OpNe:
		p.Push(types.NewBool(!a.Equal(b)))
		return true, nil
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		p.Push(types.NewBool(compareFloats(op, af, bf)))
		return true, nil
	}
	as, aIsStr := a.(types.StringValue)
	bs, bIsStr := b.(types.StringValue)
	if aIsStr && bIsStr {
		p.Push(types.NewBool(compareStrings(op, as.Val, bs.Val)))
		return true, nil
	}
	return true, types.NewError(types.E_TYPE, "values are not ordered")
}

func compareFloats(op byte, a, b float64) bool {
	switch op {
	case parser.OpLt:
		return a < b
	case parser.OpGt:
		return a > b
	case parser.OpLe:
		return a <= b
	case parser.OpGe:
		return a >= b
	}
	return false
}

func compareStrings(op byte, a, b string) bool {
	switch op {
	case parser.OpLt:
		return a < b
	case parser.OpGt:
		return a > b
	case parser.OpLe:
		return a <= b
	case parser.OpGe:
		return a >= b
	}
	return false
}

func (vm *VM) execCall(p *Process, f *Frame, ins Instruction) (bool, *types.Error) {
	argc := int(ins.Arg)
	args := p.PopN(argc)
	callee := p.Pop()
	cv, ok := callee.(types.CallableValue)
	if !ok {
		// Parens are also how list/blob elements are read (arr(i)),
		// indistinguishable from a call at parse time the way classic
		// BASIC dialects never distinguish A(3) from SIN(3) syntactically;
		// the runtime tells them apart by what the callee actually is.
		if argc == 1 {
			p.Push(callee)
			p.Push(args[0])
			return vm.execIndex(p)
		}
		return true, types.NewError(types.E_TYPE, "value is not callable")
	}
	if cv.Routine != nil {
		bco, ok := cv.Routine.(*BytecodeObject)
		if !ok {
			return true, types.NewError(types.E_TYPE, "callable has no body")
		}
		nf := NewFrame(bco)
		for i, a := range args {
			if i < nf.Locals.Len() {
				nf.Locals.Set(i, a)
			}
		}
		p.PushFrame(nf)
		return true, nil
	}
	if vm.Specials != nil {
		if cmd, ok := vm.Specials.Lookup(cv.Builtin); ok {
			result, err := cmd(p, args)
			if err != nil {
				if e, ok := err.(*types.Error); ok {
					return true, e
				}
				return true, types.NewError(types.E_USER, err.Error())
			}
			p.Push(result)
			return p.GetState() == StateRunning, nil
		}
	}
	return true, types.NewError(types.E_VARNF, "unknown callable "+cv.Builtin)
}

func (vm *VM) execReturn(p *Process, ins Instruction) (bool, *types.Error) {
	var result types.Value = types.Null
	if ins.Minor == 1 {
		result = p.Pop()
	}
	p.PopFrame()
	if len(p.Calls) == 0 {
		p.End(result)
		return false, nil
	}
	p.Push(result)
	return true, nil
}

func (vm *VM) execCallSpecial(p *Process, f *Frame, ins Instruction) (bool, *types.Error) {
	name := f.BCO.Names.NameAt(int(ins.Arg))
	argc := int(ins.Scope)
	args := p.PopN(argc)
	trace.SpecialCommand(p.ID, name, args)
	if vm.Specials == nil {
		return true, types.NewError(types.E_VARNF, "no special-command registry bound")
	}
	cmd, ok := vm.Specials.Lookup(name)
	if !ok {
		return true, types.NewError(types.E_VARNF, "unknown special command "+name)
	}
	result, err := cmd(p, args)
	if err != nil {
		if e, ok := err.(*types.Error); ok {
			return true, e
		}
		return true, types.NewError(types.E_USER, err.Error())
	}
	p.Push(result)
	return p.GetState() == StateRunning, nil
}

// forState is a tiny side table keyed by local slot index, since
// Segment only stores types.Value; the loop bound/step live here
// instead of on the operand stack, so nested for-loops over the same
// process don't interleave bounds incorrectly.
type forState struct {
	to, step float64
	isInt    bool
	toI      int32
	stepI    int32
	started  bool // false until the first ForNext, which tests the start value unchanged
}

func (vm *VM) execForPrep(p *Process, f *Frame, ins Instruction) (bool, *types.Error) {
	step := p.Pop()
	to := p.Pop()
	if f.forStates == nil {
		f.forStates = map[int32]*forState{}
	}
	si, siok := step.(types.IntValue)
	ti, tiok := to.(types.IntValue)
	if siok && tiok {
		f.forStates[ins.Arg] = &forState{isInt: true, toI: ti.Val, stepI: si.Val}
		return true, nil
	}
	tf, _ := asFloat(to)
	sf, _ := asFloat(step)
	f.forStates[ins.Arg] = &forState{to: tf, step: sf}
	return true, nil
}

func (vm *VM) execForNext(p *Process, f *Frame, ins Instruction) (bool, *types.Error) {
	idx := int32(ins.Scope)
	st := f.forStates[idx]
	if st == nil {
		return true, types.NewError(types.E_TYPE, "For loop state missing")
	}
	cur := f.Locals.Get(int(idx))
	if st.isInt {
		ci, ok := cur.(types.IntValue)
		if !ok {
			return true, types.NewError(types.E_TYPE, "For variable is not an integer")
		}
		if st.started {
			next, overflow := intArith(parser.OpAdd, ci.Val, st.stepI)
			if overflow {
				f.IP = int(ins.Arg)
				return true, nil
			}
			ci = types.NewInt(next)
			f.Locals.Set(int(idx), ci)
		}
		st.started = true
		if (st.stepI >= 0 && ci.Val > st.toI) || (st.stepI < 0 && ci.Val < st.toI) {
			f.IP = int(ins.Arg)
		}
		return true, nil
	}
	cf, _ := asFloat(cur)
	if st.started {
		cf += st.step
		f.Locals.Set(int(idx), types.NewFloat(cf))
	}
	st.started = true
	if (st.step >= 0 && cf > st.to) || (st.step < 0 && cf < st.to) {
		f.IP = int(ins.Arg)
	}
	return true, nil
}

// iterState tracks a ForEach cursor for one local slot. pushContext
// marks the `ForEach set [Do] ... Next` form (no `As var`): each
// iteration's element is pushed onto the frame's context stack instead
// of bound to a named local, exactly as if a `With` block surrounded
// the body (statementcompiler.cpp's compileForEach, the no-binding
// branch); pushed tracks whether this loop currently has an entry on
// that stack so execForEachNext can pop it before pushing the next one.
type iterState struct {
	list        []types.Value
	ctx         context.Context
	at          int
	pushContext bool
	pushed      bool
}

func (vm *VM) execForEachPrep(p *Process, f *Frame, ins Instruction) (bool, *types.Error) {
	coll := p.Pop()
	if f.iterStates == nil {
		f.iterStates = map[int32]*iterState{}
	}
	pushContext := ins.Minor == 1
	if lv, ok := coll.(types.ListValue); ok {
		f.iterStates[ins.Arg] = &iterState{list: lv.Items(), at: -1, pushContext: pushContext}
		return true, nil
	}
	if ctx, ok := asContext(coll); ok {
		f.iterStates[ins.Arg] = &iterState{ctx: ctx, at: -1, pushContext: pushContext}
		return true, nil
	}
	return true, types.NewError(types.E_TYPE, "value is not iterable")
}

func (vm *VM) execForEachNext(p *Process, f *Frame, ins Instruction) (bool, *types.Error) {
	idx := int32(ins.Scope)
	st := f.iterStates[idx]
	if st == nil {
		return true, types.NewError(types.E_TYPE, "ForEach state missing")
	}
	if st.pushed {
		if len(f.ContextStack) > 0 {
			f.ContextStack = f.ContextStack[:len(f.ContextStack)-1]
		}
		st.pushed = false
	}
	st.at++
	var elem types.Value
	if st.list != nil {
		if st.at >= len(st.list) {
			f.IP = int(ins.Arg)
			return true, nil
		}
		elem = st.list[st.at]
	} else {
		if st.at > 0 && !st.ctx.Next() {
			f.IP = int(ins.Arg)
			return true, nil
		}
		elem = types.NewContextValue(st.ctx)
	}
	if st.pushContext {
		cv, ok := elem.(types.ContextValue)
		if !ok {
			return true, types.NewError(types.E_TYPE, "ForEach without As requires a context value")
		}
		f.ContextStack = append(f.ContextStack, cv.Host)
		st.pushed = true
		return true, nil
	}
	f.Locals.Set(int(idx), elem)
	return true, nil
}

// Package vm implements the stack-machine bytecode compiler and
// interpreter: BytecodeObject, StatementCompiler, the execution loop,
// and the cooperative Process/ProcessList scheduler (spec §4.2-§4.6).
package vm

import (
	"github.com/example/starbasic/parser"
	"github.com/example/starbasic/types"
)

var _ parser.Emitter = (*BytecodeObject)(nil)
var _ types.Routine = (*BytecodeObject)(nil)

// Name/IsProcedure/MinArgs/MaxArgs/IsVarargs implement types.Routine, so
// a *BytecodeObject can sit behind a types.CallableValue without types
// importing vm.
func (b *BytecodeObject) Name() string      { return b.ProcName }
func (b *BytecodeObject) IsProcedure() bool { return b.IsProc }
func (b *BytecodeObject) MinArgs() int      { return b.MinArgCount }
func (b *BytecodeObject) MaxArgs() int      { return b.MaxArgCount }
func (b *BytecodeObject) IsVarargs() bool   { return b.Varargs }

// Instruction is the 4-field {Major, Minor, Scope, Arg} encoding spec §3
// calls for (vs. the teacher's 1-byte opcode + inline operand stream).
type Instruction struct {
	Major byte
	Minor byte
	Scope byte
	Arg   int32
}

// BytecodeObject is a compiled unit: a top-level script, or a Sub/
// Function/Struct-constructor body (spec §4.4). Grounded on
// vm/program.go's Program (code/constants/varnames/line info), widened
// to the 4-field instruction. There is no label table: jump targets are
// absolute instruction indices, patched in place by PatchJump.
type BytecodeObject struct {
	ProcName    string
	Code        []Instruction
	Constants   []types.Value
	Names       *types.NameMap // name pool: globals + field/special-command names
	Locals      *types.NameMap // local-variable table
	LineInfo    []int          // LineInfo[ip] = source line for Code[ip]
	MinArgCount int
	MaxArgCount int
	Varargs     bool
	IsProc      bool
	Metadata    map[string]string
	currentLine int // stamped onto LineInfo by Emit; changed only by SetLine
}

func NewBytecodeObject(name string) *BytecodeObject {
	return &BytecodeObject{
		ProcName: name,
		Names:    types.NewNameMap(),
		Locals:   types.NewNameMap(),
		Metadata: map[string]string{},
	}
}

// Emit appends one instruction and returns its index (spec §4.4's
// "emit" operation). Implements parser.Emitter.
func (b *BytecodeObject) Emit(major, minor, scope byte, arg int32) int {
	at := len(b.Code)
	b.Code = append(b.Code, Instruction{Major: major, Minor: minor, Scope: scope, Arg: arg})
	b.LineInfo = append(b.LineInfo, b.currentLine)
	return at
}

// SetLine sets the source line Emit stamps onto LineInfo, so AST nodes
// need not thread a line number through. The StatementCompiler does not
// call it, so LineInfo of the code it compiles holds 0 for every
// instruction.
func (b *BytecodeObject) SetLine(line int) { b.currentLine = line }

// LineForIP returns the source line an instruction was compiled from.
func (b *BytecodeObject) LineForIP(ip int) int {
	if ip < 0 || ip >= len(b.LineInfo) {
		return 0
	}
	return b.LineInfo[ip]
}

// PatchJump rewrites the Arg of the instruction at 'at' to target (spec
// §4.4's relocate operation, applied immediately rather than deferred —
// every jump site here is patched once its target offset is known,
// since the compiler is a single forward pass with Emit before Patch).
func (b *BytecodeObject) PatchJump(at int, target int) {
	if at < 0 || at >= len(b.Code) {
		return
	}
	b.Code[at].Arg = int32(target)
}

func (b *BytecodeObject) CurrentOffset() int { return len(b.Code) }

// AddConst interns a literal into the constant pool, returning its index.
func (b *BytecodeObject) AddConst(v interface{}) int32 {
	val := toValue(v)
	for i, c := range b.Constants {
		if c.Equal(val) {
			return int32(i)
		}
	}
	b.Constants = append(b.Constants, val)
	return int32(len(b.Constants) - 1)
}

func toValue(v interface{}) types.Value {
	switch x := v.(type) {
	case types.Value:
		return x
	case int32:
		return types.NewInt(x)
	case int:
		return types.NewInt(int32(x))
	case float64:
		return types.NewFloat(x)
	case string:
		return types.NewStr(x)
	case bool:
		return types.NewBool(x)
	default:
		return types.Null
	}
}

// AddName interns a name (global, field, or special-command name) into
// the name pool, returning its index.
func (b *BytecodeObject) AddName(name string) int32 {
	return int32(b.Names.AddMaybe(name))
}

// NewChild implements parser.Emitter: starts a nested BytecodeObject
// for a Sub/Function body, with each parameter pre-declared as a local
// in argument order so CallExpr's positional arguments land correctly
// at call time (vm.execCall sets locals 0..argc-1 before pushing the
// frame).
func (b *BytecodeObject) NewChild(name string, params []string, isFunction bool) parser.Emitter {
	child := NewBytecodeObject(name)
	child.IsProc = !isFunction
	for _, p := range params {
		child.DeclareLocal(p)
	}
	child.MinArgCount = len(params)
	child.MaxArgCount = len(params)
	return child
}

// FinishChild closes out a child BytecodeObject built via NewChild: it
// appends an implicit "Return Null" fallthrough for callers that never
// hit an explicit Return, then interns the finished routine as a
// CallableValue in this object's constant pool.
func (b *BytecodeObject) FinishChild(child parser.Emitter) int32 {
	cb, ok := child.(*BytecodeObject)
	if !ok {
		return b.AddConst(types.Null)
	}
	cb.Emit(parser.OpReturn, 0, 0, 0)
	return b.AddConst(types.NewRoutineCallable(cb))
}

// NewStruct implements parser.Emitter: interns a record shape (a
// struct's field-name set, in declaration order) as a constant this
// unit's OpNewStruct instructions allocate instances from.
func (b *BytecodeObject) NewStruct(name string, fields []string) int32 {
	st := types.NewStructType(name)
	for _, fn := range fields {
		st.Fields.AddMaybe(fn)
	}
	return b.AddConst(types.StructTypeValue{T: st})
}

// ResolveLocal looks up name in the local-variable table.
func (b *BytecodeObject) ResolveLocal(name string) (int32, bool) {
	idx := b.Locals.GetIndexByName(name)
	if idx < 0 {
		return 0, false
	}
	return int32(idx), true
}

// DeclareLocal adds name to the local table if not already present.
func (b *BytecodeObject) DeclareLocal(name string) int32 {
	return int32(b.Locals.AddMaybe(name))
}

package parser

// Emitter is the subset of compiler.BytecodeObject the AST needs to emit
// into. Kept as a local interface (rather than importing package vm) so
// parser has no dependency on vm; vm.BytecodeObject satisfies it
// structurally.
type Emitter interface {
	// Emit appends one instruction and returns its index, so callers can
	// later PatchJump a placeholder Arg once the true target is known.
	Emit(major, minor, scope byte, arg int32) int
	PatchJump(at int, target int)
	AddConst(v interface{}) int32
	AddName(name string) int32
	ResolveLocal(name string) (idx int32, ok bool)
	DeclareLocal(name string) int32
	CurrentOffset() int

	// NewChild starts a fresh BytecodeObject for a Sub/Function body,
	// pre-declaring its parameters as locals. The caller compiles the
	// body into the returned Emitter, then passes it to FinishChild to
	// obtain a constant-pool index in the *parent* referencing the
	// compiled routine as a callable value.
	NewChild(name string, params []string, isFunction bool) Emitter
	FinishChild(child Emitter) int32

	// NewStruct interns a record shape (a struct's ordered field-name
	// set) into this unit's own constant pool, returning the index
	// OpNewStruct reads to allocate a fresh instance from at runtime.
	NewStruct(name string, fields []string) int32
}

// Expr is any expression node. Per spec §4.3 every node supports up to
// three code-emission modes; CompileStore/CompileRead/CompileWrite are
// additionally available on nodes implementing Assignable.
type Expr interface {
	Pos() Position
	// CompileValue emits code that leaves the expression's value on
	// the operand stack.
	CompileValue(e Emitter)
	// CompileEffect emits code for the expression's side effects only,
	// discarding any value it would have produced.
	CompileEffect(e Emitter)
}

// Assignable is implemented by Expr nodes that can appear on the left
// of ':=' or as a For/ForEach loop variable.
type Assignable interface {
	Expr
	// CompileStore emits rhs's value-producing code, then stores it
	// into this expression's target, leaving the stored value on
	// the stack (assignment is itself an expression).
	CompileStore(e Emitter, rhs Expr)
	// CompileRead/CompileWrite support compound assignment: Read
	// pushes the current value without re-evaluating any index/field
	// sub-expressions twice; Write pops a new value and stores it
	// using the same already-evaluated target.
	CompileRead(e Emitter)
	CompileWrite(e Emitter)
}

type exprBase struct{ pos Position }

func (b exprBase) Pos() Position { return b.pos }

// ---- Literals ----

type IntLit struct {
	exprBase
	Val int32
}

func (n *IntLit) CompileValue(e Emitter)  { e.Emit(OpPushConst, 0, 0, e.AddConst(n.Val)) }
func (n *IntLit) CompileEffect(e Emitter) {}

type FloatLit struct {
	exprBase
	Val float64
}

func (n *FloatLit) CompileValue(e Emitter)  { e.Emit(OpPushConst, 0, 0, e.AddConst(n.Val)) }
func (n *FloatLit) CompileEffect(e Emitter) {}

type StringLit struct {
	exprBase
	Val string
}

func (n *StringLit) CompileValue(e Emitter)  { e.Emit(OpPushConst, 0, 0, e.AddConst(n.Val)) }
func (n *StringLit) CompileEffect(e Emitter) {}

type BoolLit struct {
	exprBase
	Val bool
}

func (n *BoolLit) CompileValue(e Emitter)  { e.Emit(OpPushConst, 0, 0, e.AddConst(n.Val)) }
func (n *BoolLit) CompileEffect(e Emitter) {}

// ---- Identifier ----

// Ident resolves a bare name: local, then global (spec §4.2's lexical
// scoping chain). Canonicalized case-insensitively by NameMap.
type Ident struct {
	exprBase
	Name string
}

func (n *Ident) CompileValue(e Emitter) {
	if idx, ok := e.ResolveLocal(n.Name); ok {
		e.Emit(OpGetLocal, 0, 0, idx)
		return
	}
	e.Emit(OpGetGlobal, 0, 0, e.AddName(n.Name))
}

func (n *Ident) CompileEffect(e Emitter) {}

func (n *Ident) CompileStore(e Emitter, rhs Expr) {
	rhs.CompileValue(e)
	n.store(e)
}

func (n *Ident) store(e Emitter) {
	if idx, ok := e.ResolveLocal(n.Name); ok {
		e.Emit(OpSetLocal, 0, 0, idx)
		return
	}
	e.Emit(OpSetGlobal, 0, 0, e.AddName(n.Name))
}

func (n *Ident) CompileRead(e Emitter)  { n.CompileValue(e) }
func (n *Ident) CompileWrite(e Emitter) { n.store(e) }

// ---- Unary ----

type UnaryExpr struct {
	exprBase
	Op string // "-", "NOT"
	X  Expr
}

func (n *UnaryExpr) CompileValue(e Emitter) {
	n.X.CompileValue(e)
	switch n.Op {
	case "-":
		e.Emit(OpNeg, 0, 0, 0)
	case "NOT":
		e.Emit(OpNot, 0, 0, 0)
	}
}
func (n *UnaryExpr) CompileEffect(e Emitter) { n.X.CompileEffect(e) }

// ---- Binary ----

type BinaryExpr struct {
	exprBase
	Op   string
	X, Y Expr
}

var binaryOpcode = map[string]byte{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, `\`: OpIDiv, "MOD": OpMod, "^": OpPow,
	"&": OpConcat, "#": OpConcatNull,
	"=": OpEq, "<>": OpNe, "<": OpLt, ">": OpGt, "<=": OpLe, ">=": OpGe,
}

func (n *BinaryExpr) CompileValue(e Emitter) {
	if n.Op == "AND" || n.Op == "OR" {
		n.compileShortCircuit(e)
		return
	}
	n.X.CompileValue(e)
	n.Y.CompileValue(e)
	e.Emit(binaryOpcode[n.Op], 0, 0, 0)
}

// compileShortCircuit leaves X on the stack (and skips Y) when X's
// truth value already decides the result: false short-circuits AND,
// true short-circuits OR.
func (n *BinaryExpr) compileShortCircuit(e Emitter) {
	n.X.CompileValue(e)
	e.Emit(OpDup, 0, 0, 0)
	var skip int
	if n.Op == "AND" {
		skip = e.Emit(OpJumpIfFalse, 0, 0, -1)
	} else {
		skip = e.Emit(OpJumpIfTrue, 0, 0, -1)
	}
	e.Emit(OpPop, 0, 0, 0)
	n.Y.CompileValue(e)
	e.PatchJump(skip, e.CurrentOffset())
}

func (n *BinaryExpr) CompileEffect(e Emitter) {
	n.X.CompileEffect(e)
	n.Y.CompileEffect(e)
}

// ---- Ternary ----

type TernaryExpr struct {
	exprBase
	Cond, Then, Else Expr
}

func (n *TernaryExpr) CompileValue(e Emitter) {
	n.Cond.CompileValue(e)
	elseJump := e.Emit(OpJumpIfFalse, 0, 0, -1)
	n.Then.CompileValue(e)
	end := e.Emit(OpJump, 0, 0, -1)
	e.PatchJump(elseJump, e.CurrentOffset())
	n.Else.CompileValue(e)
	e.PatchJump(end, e.CurrentOffset())
}

func (n *TernaryExpr) CompileEffect(e Emitter) { n.CompileValue(e); e.Emit(OpPop, 0, 0, 0) }

// ---- Index (list/blob dynamic index) ----

type IndexExpr struct {
	exprBase
	X     Expr
	Index Expr
}

func (n *IndexExpr) CompileValue(e Emitter) {
	n.X.CompileValue(e)
	n.Index.CompileValue(e)
	e.Emit(OpIndex, 0, 0, 0)
}
func (n *IndexExpr) CompileEffect(e Emitter) { n.CompileValue(e); e.Emit(OpPop, 0, 0, 0) }

func (n *IndexExpr) CompileStore(e Emitter, rhs Expr) {
	n.X.CompileValue(e)
	n.Index.CompileValue(e)
	rhs.CompileValue(e)
	e.Emit(OpIndexSet, 0, 0, 0)
}

func (n *IndexExpr) CompileRead(e Emitter) {
	n.X.CompileValue(e)
	e.Emit(OpDup, 0, 0, 0)
	n.Index.CompileValue(e)
	e.Emit(OpDup, 0, 0, 0)
	e.Emit(OpIndex, 0, 0, 0)
}
func (n *IndexExpr) CompileWrite(e Emitter) { e.Emit(OpIndexSet, 0, 0, 0) }

// ---- Field access (struct field / context property) ----

type FieldExpr struct {
	exprBase
	X     Expr
	Field string
}

func (n *FieldExpr) CompileValue(e Emitter) {
	n.X.CompileValue(e)
	e.Emit(OpGetField, 0, 0, e.AddName(n.Field))
}
func (n *FieldExpr) CompileEffect(e Emitter) { n.CompileValue(e); e.Emit(OpPop, 0, 0, 0) }

func (n *FieldExpr) CompileStore(e Emitter, rhs Expr) {
	n.X.CompileValue(e)
	rhs.CompileValue(e)
	e.Emit(OpSetField, 0, 0, e.AddName(n.Field))
}

func (n *FieldExpr) CompileRead(e Emitter) {
	n.X.CompileValue(e)
	e.Emit(OpDup, 0, 0, 0)
	e.Emit(OpGetField, 0, 0, e.AddName(n.Field))
}
func (n *FieldExpr) CompileWrite(e Emitter) {
	e.Emit(OpSetField, 0, 0, e.AddName(n.Field))
}

// ---- Call (Sub/Function invocation, or builtin) ----

type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

func (n *CallExpr) CompileValue(e Emitter) {
	n.Callee.CompileValue(e)
	for _, a := range n.Args {
		a.CompileValue(e)
	}
	e.Emit(OpCall, 0, 0, int32(len(n.Args)))
}
func (n *CallExpr) CompileEffect(e Emitter) { n.CompileValue(e); e.Emit(OpPop, 0, 0, 0) }

// ---- List literal ----

type ListExpr struct {
	exprBase
	Items []Expr
}

func (n *ListExpr) CompileValue(e Emitter) {
	for _, it := range n.Items {
		it.CompileValue(e)
	}
	e.Emit(OpMakeList, 0, 0, int32(len(n.Items)))
}
func (n *ListExpr) CompileEffect(e Emitter) { n.CompileValue(e); e.Emit(OpPop, 0, 0, 0) }

// ---- Catch expression: inline error trapping in an expression ----

// CatchExpr is `Try <expr> Else <expr>` used inline, distinct from the
// Try statement: it evaluates Try, and if it raises, discards the error
// message (OpClearError) and evaluates Default instead. Unlike the Try
// statement, it binds nothing into SYSTEM.ERR.
type CatchExpr struct {
	exprBase
	Try     Expr
	Default Expr
}

func (n *CatchExpr) CompileValue(e Emitter) {
	pushHandler := e.Emit(OpPushHandler, 0, 0, -1)
	n.Try.CompileValue(e)
	e.Emit(OpPopHandler, 0, 0, 0)
	skipElse := e.Emit(OpJump, 0, 0, -1)
	e.PatchJump(pushHandler, e.CurrentOffset())
	e.Emit(OpClearError, 0, 0, 0)
	n.Default.CompileValue(e)
	e.PatchJump(skipElse, e.CurrentOffset())
}
func (n *CatchExpr) CompileEffect(e Emitter) { n.CompileValue(e); e.Emit(OpPop, 0, 0, 0) }

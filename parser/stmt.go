package parser

import "fmt"

// Stmt is any statement node (spec §4.2). Compile takes the active loop
// context so Break/Continue know which jump targets to patch.
type Stmt interface {
	Pos() Position
	Compile(e Emitter, lc *LoopCtx)
}

// LoopCtx threads the innermost enclosing loop's break/continue patch
// lists through nested statement compilation. BreakSites/ContinueSites
// collect instruction indices to patch once the loop's bounds are known,
// the way vm/compiler.go's loop-context stack resolves forward jumps.
type LoopCtx struct {
	Parent        *LoopCtx
	Label         string // loop label, "" if unlabeled
	BreakSites    []int
	ContinueSites []int
}

func (lc *LoopCtx) find(label string) *LoopCtx {
	for c := lc; c != nil; c = c.Parent {
		if label == "" || c.Label == label {
			return c
		}
	}
	return nil
}

type stmtBase struct{ pos Position }

func (b stmtBase) Pos() Position { return b.pos }

// ---- Block ----

type Block struct {
	stmtBase
	Stmts []Stmt
}

func (b *Block) Compile(e Emitter, lc *LoopCtx) {
	for _, s := range b.Stmts {
		s.Compile(e, lc)
	}
}

// ---- Expression statement (bare call, or top-level `=` assignment sugar) ----

type ExprStmt struct {
	stmtBase
	X Expr
}

func (s *ExprStmt) Compile(e Emitter, lc *LoopCtx) { s.X.CompileEffect(e) }

// ---- Dim: declare one or more locals, optionally with initializers ----

type DimDecl struct {
	Name string
	Init Expr // nil if uninitialized (reads as Null/Unbound until assigned)
}

type DimStmt struct {
	stmtBase
	Decls []DimDecl
}

func (s *DimStmt) Compile(e Emitter, lc *LoopCtx) {
	for _, d := range s.Decls {
		idx := e.DeclareLocal(d.Name)
		if d.Init != nil {
			d.Init.CompileValue(e)
			e.Emit(OpSetLocal, 0, 0, idx)
			e.Emit(OpPop, 0, 0, 0)
		}
	}
}

// ---- If/ElseIf/Else/EndIf ----

type IfBranch struct {
	Cond Expr // nil for the final Else
	Body Stmt
}

type IfStmt struct {
	stmtBase
	Branches []IfBranch
}

func (s *IfStmt) Compile(e Emitter, lc *LoopCtx) {
	var ends []int
	for _, br := range s.Branches {
		if br.Cond == nil {
			br.Body.Compile(e, lc)
			continue
		}
		br.Cond.CompileValue(e)
		skip := e.Emit(OpJumpIfFalse, 0, 0, -1)
		br.Body.Compile(e, lc)
		ends = append(ends, e.Emit(OpJump, 0, 0, -1))
		e.PatchJump(skip, e.CurrentOffset())
	}
	for _, at := range ends {
		e.PatchJump(at, e.CurrentOffset())
	}
}

// ---- While/Until ... Loop ----

type WhileStmt struct {
	stmtBase
	Label   string
	Cond    Expr
	Negate  bool // Until: loop while Cond is false
	Body    Stmt
}

func (s *WhileStmt) Compile(e Emitter, lc *LoopCtx) {
	my := &LoopCtx{Parent: lc, Label: s.Label}
	top := e.CurrentOffset()
	s.Cond.CompileValue(e)
	var exit int
	if s.Negate {
		exit = e.Emit(OpJumpIfTrue, 0, 0, -1)
	} else {
		exit = e.Emit(OpJumpIfFalse, 0, 0, -1)
	}
	s.Body.Compile(e, my)
	for _, at := range my.ContinueSites {
		e.PatchJump(at, top)
	}
	e.Emit(OpJump, 0, 0, int32(top))
	e.PatchJump(exit, e.CurrentOffset())
	for _, at := range my.BreakSites {
		e.PatchJump(at, e.CurrentOffset())
	}
}

// ---- Do [While c | Until c] ... Loop [While c | Until c] ----

// DoLoopStmt compiles the full `Do` form (spec §4.2/§8): either or both
// of the entry and exit conditions may be present independently, and
// when neither is given the loop only ends via Break — grounded on
// compileDo (statementcompiler.cpp): an optional head test gates entry,
// the body always runs at least once it is entered, and an optional
// tail test decides whether to repeat.
type DoLoopStmt struct {
	stmtBase
	Label      string
	HeadCond   Expr // nil: no entry test, body always entered
	HeadNegate bool // Until semantics for HeadCond
	Body       Stmt
	TailCond   Expr // nil: no exit test, repeats until Break
	TailNegate bool // Until semantics for TailCond
}

func (s *DoLoopStmt) Compile(e Emitter, lc *LoopCtx) {
	my := &LoopCtx{Parent: lc, Label: s.Label}
	again := e.CurrentOffset()
	var headExit int
	if s.HeadCond != nil {
		s.HeadCond.CompileValue(e)
		if s.HeadNegate {
			headExit = e.Emit(OpJumpIfTrue, 0, 0, -1)
		} else {
			headExit = e.Emit(OpJumpIfFalse, 0, 0, -1)
		}
	}
	s.Body.Compile(e, my)
	contTarget := e.CurrentOffset()
	for _, at := range my.ContinueSites {
		e.PatchJump(at, contTarget)
	}
	if s.TailCond != nil {
		s.TailCond.CompileValue(e)
		if s.TailNegate {
			e.Emit(OpJumpIfFalse, 0, 0, int32(again))
		} else {
			e.Emit(OpJumpIfTrue, 0, 0, int32(again))
		}
	} else {
		e.Emit(OpJump, 0, 0, int32(again))
	}
	breakTarget := e.CurrentOffset()
	if s.HeadCond != nil {
		e.PatchJump(headExit, breakTarget)
	}
	for _, at := range my.BreakSites {
		e.PatchJump(at, breakTarget)
	}
}

// ---- For i = a To b [Step c] ... Next ----

type ForStmt struct {
	stmtBase
	Label    string
	Var      string
	From, To Expr
	Step     Expr // nil means literal 1
	Body     Stmt
}

func (s *ForStmt) Compile(e Emitter, lc *LoopCtx) {
	idx := e.DeclareLocal(s.Var)
	s.From.CompileValue(e)
	e.Emit(OpSetLocal, 0, 0, idx)
	e.Emit(OpPop, 0, 0, 0)
	s.To.CompileValue(e)
	if s.Step != nil {
		s.Step.CompileValue(e)
	} else {
		e.Emit(OpPushConst, 0, 0, e.AddConst(int32(1)))
	}
	e.Emit(OpForPrep, 0, 0, idx)
	top := e.CurrentOffset()
	exit := e.Emit(OpForNext, 0, byte(idx), -1)
	my := &LoopCtx{Parent: lc, Label: s.Label}
	s.Body.Compile(e, my)
	for _, at := range my.ContinueSites {
		e.PatchJump(at, top)
	}
	e.Emit(OpJump, 0, 0, int32(top))
	e.PatchJump(exit, e.CurrentOffset())
	for _, at := range my.BreakSites {
		e.PatchJump(at, e.CurrentOffset())
	}
}

// ---- ForEach set [As var] [Do] ... Next ----

// ForEachStmt compiles both forms spec §4.2 names: with `As var`, each
// element binds to a named local exactly like `ForStmt`'s induction
// variable; without it (Var == ""), compileForEach's no-binding branch
// applies — the body runs "as if With were used", so each element is
// pushed onto the frame's context stack instead, letting unqualified
// names inside the body resolve against it.
type ForEachStmt struct {
	stmtBase
	Label string
	Var   string
	Coll  Expr
	Body  Stmt
}

func (s *ForEachStmt) Compile(e Emitter, lc *LoopCtx) {
	pushContext := s.Var == ""
	slotName := s.Var
	if pushContext {
		// No user-visible name is bound, but the slot still needs a
		// stable, unique key per occurrence so nested or sequential
		// no-As ForEach loops in the same compiled unit don't collide
		// on DeclareLocal's idempotent-by-name insertion.
		slotName = fmt.Sprintf("$foreach@%d:%d", s.pos.Line, s.pos.Column)
	}
	idx := e.DeclareLocal(slotName)
	s.Coll.CompileValue(e)
	minor := byte(0)
	if pushContext {
		minor = 1
	}
	e.Emit(OpForEachPrep, minor, 0, idx)
	top := e.CurrentOffset()
	exit := e.Emit(OpForEachNext, minor, byte(idx), -1)
	my := &LoopCtx{Parent: lc, Label: s.Label}
	s.Body.Compile(e, my)
	for _, at := range my.ContinueSites {
		e.PatchJump(at, top)
	}
	e.Emit(OpJump, 0, 0, int32(top))
	e.PatchJump(exit, e.CurrentOffset())
	for _, at := range my.BreakSites {
		e.PatchJump(at, e.CurrentOffset())
	}
}

// ---- Break / Continue ----

type BreakStmt struct {
	stmtBase
	Label string
}

func (s *BreakStmt) Compile(e Emitter, lc *LoopCtx) {
	target := lc.find(s.Label)
	at := e.Emit(OpJump, 0, 0, -1)
	if target == nil {
		return
	}
	target.BreakSites = append(target.BreakSites, at)
}

type ContinueStmt struct {
	stmtBase
	Label string
}

func (s *ContinueStmt) Compile(e Emitter, lc *LoopCtx) {
	target := lc.find(s.Label)
	at := e.Emit(OpJump, 0, 0, -1)
	if target == nil {
		return
	}
	target.ContinueSites = append(target.ContinueSites, at)
}

// ---- Return ----

type ReturnStmt struct {
	stmtBase
	Value Expr // nil for a bare Return
}

func (s *ReturnStmt) Compile(e Emitter, lc *LoopCtx) {
	if s.Value != nil {
		s.Value.CompileValue(e)
		e.Emit(OpReturn, 1, 0, 0)
		return
	}
	e.Emit(OpReturn, 0, 0, 0)
}

// ---- Try ... Else ... EndTry ----

// TryStmt binds the error message into SYSTEM.ERR on the Else branch
// (spec §4.2), mirroring the inline CatchExpr's handler shape.
type TryStmt struct {
	stmtBase
	Body Stmt
	Else Stmt // nil if the Try has no Else branch
}

func (s *TryStmt) Compile(e Emitter, lc *LoopCtx) {
	pushHandler := e.Emit(OpPushHandler, 0, 0, -1)
	s.Body.Compile(e, lc)
	e.Emit(OpPopHandler, 0, 0, 0)
	skipElse := e.Emit(OpJump, 0, 0, -1)
	e.PatchJump(pushHandler, e.CurrentOffset())
	errIdx := e.DeclareLocal("SYSTEM.ERR")
	e.Emit(OpSetLocal, 0, 0, errIdx)
	e.Emit(OpPop, 0, 0, 0)
	if s.Else != nil {
		s.Else.Compile(e, lc)
	}
	e.PatchJump(skipElse, e.CurrentOffset())
}

// ---- Select ... Case Is op value ... End Select ----

type SelectCase struct {
	Op    string // "=", "<>", "<", ">", "<=", ">=", "" for a bare value match
	Value Expr
	Body  Stmt
}

type SelectStmt struct {
	stmtBase
	Subject Expr
	Cases   []SelectCase
	Else    Stmt
}

func (s *SelectStmt) Compile(e Emitter, lc *LoopCtx) {
	subjIdx := e.DeclareLocal("$select$")
	s.Subject.CompileValue(e)
	e.Emit(OpSetLocal, 0, 0, subjIdx)
	e.Emit(OpPop, 0, 0, 0)

	var ends []int
	for _, c := range s.Cases {
		e.Emit(OpGetLocal, 0, 0, subjIdx)
		c.Value.CompileValue(e)
		op := c.Op
		if op == "" {
			op = "="
		}
		e.Emit(binaryOpcode[op], 0, 0, 0)
		skip := e.Emit(OpJumpIfFalse, 0, 0, -1)
		c.Body.Compile(e, lc)
		ends = append(ends, e.Emit(OpJump, 0, 0, -1))
		e.PatchJump(skip, e.CurrentOffset())
	}
	if s.Else != nil {
		s.Else.Compile(e, lc)
	}
	for _, at := range ends {
		e.PatchJump(at, e.CurrentOffset())
	}
}

// ---- With context ... EndWith ----

// WithStmt pushes a context.Context onto the frame's context stack for
// the duration of Body (spec §4.7's With-pushed context chain).
type WithStmt struct {
	stmtBase
	Target Expr
	Body   Stmt
}

func (s *WithStmt) Compile(e Emitter, lc *LoopCtx) {
	s.Target.CompileValue(e)
	e.Emit(OpWithPush, 0, 0, 0)
	s.Body.Compile(e, lc)
	e.Emit(OpWithPop, 0, 0, 0)
}

// ---- Print ----

type PrintStmt struct {
	stmtBase
	Args []Expr
}

func (s *PrintStmt) Compile(e Emitter, lc *LoopCtx) {
	for _, a := range s.Args {
		a.CompileValue(e)
		e.Emit(OpCallSpecial, 0, 0, e.AddName("PRINT"))
	}
}

// ---- Call: invoke a Sub/special command for effect ----

type CallStmt struct {
	stmtBase
	Call Expr
}

func (s *CallStmt) Compile(e Emitter, lc *LoopCtx) { s.Call.CompileEffect(e) }

// ---- SpecialStmt: host-registered statement forms ----

// SpecialStmt represents any statement the compiler does not know the
// semantics of but only how to parse and emit — the special-command
// hook of spec §4.2 (Open, Get, Put, Input, Seek, SetByte/Word/Long/Str,
// CreateKeymap, UseKeymap, CreateShipProperty, CreatePlanetProperty,
// Bind, On, RunHook, Load, TryLoad, Option, ReDim, Eval, Stop, Abort,
// End). The world/builtins packages register these by name; at runtime
// OpCallSpecial dispatches to whatever the VM's vm.SpecialRegistry (a
// builtins.Registry or a world.World) holds for that name.
type SpecialStmt struct {
	stmtBase
	Name string
	Args []Expr
}

func (s *SpecialStmt) Compile(e Emitter, lc *LoopCtx) {
	for _, a := range s.Args {
		a.CompileValue(e)
	}
	e.Emit(OpCallSpecial, 0, byte(len(s.Args)), e.AddName(s.Name))
}

// ---- Sub/Function/Struct declarations: bind a name to a callable ----

// ProcDecl compiles a Sub or Function body into its own BytecodeObject
// and binds a CallableValue under Name as a global, mirroring how
// vm/compiler.go compiles verb bodies as independent programs. Binding
// globally rather than as a local of the enclosing block is what lets a
// Function call itself (its own body resolves its own name through the
// same global fallback any unbound identifier uses) and lets a Sub
// declared anywhere in a listing be called from anywhere else in it.
type ProcDecl struct {
	stmtBase
	Name       string
	Params     []string
	IsFunction bool
	Body       Stmt
}

func (s *ProcDecl) Compile(e Emitter, lc *LoopCtx) {
	child := e.NewChild(s.Name, s.Params, s.IsFunction)
	s.Body.Compile(child, nil)
	constIdx := e.FinishChild(child)
	e.Emit(OpPushConst, 0, 0, constIdx)
	e.Emit(OpSetGlobal, 0, 0, e.AddName(s.Name))
	e.Emit(OpPop, 0, 0, 0)
}

// StructField is one field of a Struct declaration: a name plus an
// optional initializer, using the same grammar Dim's declarations do
// (spec §7 supplemented features, grounded on compileStruct/
// compileInitializer).
type StructField struct {
	Name string
	Init Expr // nil: field starts Null
}

// StructDecl compiles a record shape into a constructor function, the
// same way the original implementation does it: "internally, a
// structure is implemented as a constructor function" — calling the
// struct's name allocates a fresh instance and applies each field's
// initializer in declaration order, exactly like calling a Function
// that builds and returns a value.
type StructDecl struct {
	stmtBase
	Name   string
	Fields []StructField
}

func (s *StructDecl) Compile(e Emitter, lc *LoopCtx) {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	child := e.NewChild(s.Name, nil, true)
	typeIdx := child.NewStruct(s.Name, names)
	child.Emit(OpNewStruct, 0, 0, typeIdx)
	for _, f := range s.Fields {
		if f.Init == nil {
			continue
		}
		child.Emit(OpDup, 0, 0, 0)
		f.Init.CompileValue(child)
		child.Emit(OpSetField, 0, 0, child.AddName(f.Name))
		child.Emit(OpPop, 0, 0, 0)
	}
	child.Emit(OpReturn, 1, 0, 0)
	constIdx := e.FinishChild(child)
	e.Emit(OpPushConst, 0, 0, constIdx)
	e.Emit(OpSetGlobal, 0, 0, e.AddName(s.Name))
	e.Emit(OpPop, 0, 0, 0)
}

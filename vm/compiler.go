package vm

import (
	"github.com/example/starbasic/parser"
	"github.com/example/starbasic/trace"
	"github.com/example/starbasic/types"
)

// SCC carries the StatementCompiler's configuration flags, named
// directly after spec §4.2's scc value.
type SCC struct {
	CaseBlind                bool
	LocalContext              bool
	AlsoGlobalContext         bool
	ExpressionsAreStatements  bool
	RefuseBlocks              bool
	WantTerminators           bool
	LinearExecution           bool
	PreexecuteLoad            bool
	OptimisationLevel         int // -1..3, spec §4.2
}

func DefaultSCC() SCC {
	return SCC{
		CaseBlind:         true,
		AlsoGlobalContext: true,
		WantTerminators:   true,
		OptimisationLevel: 1,
	}
}

// StatementCompiler drives a parser.Tokenizer across one CommandSource,
// producing a finished *BytecodeObject. Grounded on vm/compiler.go's
// NewCompiler/Compile, generalized to this spec's statement set and the
// 4-field instruction encoding.
type StatementCompiler struct {
	Flags SCC
	tok   *parser.Tokenizer
	stmt  *parser.StmtParser
	bco   *BytecodeObject
}

func NewStatementCompiler(src parser.CommandSource, name string, flags SCC) *StatementCompiler {
	tok := parser.NewTokenizer(src)
	return &StatementCompiler{
		Flags: flags,
		tok:   tok,
		stmt:  parser.NewStmtParser(tok),
		bco:   NewBytecodeObject(name),
	}
}

// Compile parses and emits the entire source, returning the finished
// BytecodeObject (or a compile error, never caught by Try — spec §7).
func (c *StatementCompiler) Compile() (bco *BytecodeObject, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*parser.SyntaxError); ok {
				err = types.NewError(types.E_SYNTAX, se.Error())
				return
			}
			panic(r)
		}
	}()
	block := c.stmt.ParseBlock()
	block.Compile(c.bco, nil)
	c.bco.Emit(parser.OpHalt, 0, 0, 0)
	Optimize(c.bco, c.Flags.OptimisationLevel)
	trace.Compile(c.bco.ProcName, len(c.bco.Code))
	return c.bco, nil
}

// CompileExpression compiles a single standalone expression (used by
// the EVAL builtin and the conformance runner to evaluate one line
// without a full statement wrapper).
func CompileExpression(line string) (bco *BytecodeObject, err error) {
	bco = NewBytecodeObject("<expr>")
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*parser.SyntaxError); ok {
				err = types.NewError(types.E_SYNTAX, se.Error())
				bco = nil
				return
			}
			panic(r)
		}
	}()
	tok := parser.NewTokenizerForLine(line)
	ep := parser.NewExprParser(tok)
	x := ep.ParseExpression()
	x.CompileValue(bco)
	bco.Emit(parser.OpHalt, 0, 0, 0)
	return bco, nil
}

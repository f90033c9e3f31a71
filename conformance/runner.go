package conformance

import (
	"fmt"
	"strings"

	"github.com/example/starbasic/builtins"
	"github.com/example/starbasic/types"
	"github.com/example/starbasic/vm"
	"github.com/example/starbasic/world"
)

// Outcome is what actually happened running a TestCase, compared
// against its Expectation by Check.
type Outcome struct {
	Result  types.Value
	ErrCode types.ErrorCode // E_NONE if the case ended normally
	Failed  bool            // compile error or process Failed with no E_ code
}

// Run compiles and executes one TestCase's Code or Statement against a
// fresh World, returning what happened. Code compiles as a standalone
// expression (vm.CompileExpression), which leaves its value on the
// stack for OpHalt to pick up; Statement compiles as a full block
// (vm.NewStatementCompiler), whose ExprStmt children pop their values
// via CompileEffect, so OpHalt there sees whatever the block's own
// Return/assignment left behind.
func Run(tc TestCase) (Outcome, error) {
	if tc.Code == "" && tc.Statement == "" {
		return Outcome{}, fmt.Errorf("conformance: test case has neither code nor statement")
	}

	w := world.New(world.DefaultOptions())
	reg := builtins.NewRegistry(w)
	reg.InstallOn(w)

	var bco *vm.BytecodeObject
	var cerr error
	if tc.Code != "" {
		bco, cerr = vm.CompileExpression(tc.Code)
	} else {
		bco, cerr = vm.NewStatementCompiler(lineSource(tc.Statement), tc.Name, vm.DefaultSCC()).Compile()
	}
	if cerr != nil {
		if e, ok := cerr.(*types.Error); ok {
			return Outcome{ErrCode: e.Code}, nil
		}
		return Outcome{Failed: true}, cerr
	}

	machine := vm.NewVM(reg, w)
	proc := vm.NewProcess(1, bco, w.Options.TickLimit)
	machine.Run(proc)

	switch proc.GetState() {
	case vm.StateEnded:
		return Outcome{Result: proc.Result}, nil
	case vm.StateFailed:
		if proc.Err != nil {
			return Outcome{ErrCode: proc.Err.Code}, nil
		}
		return Outcome{Failed: true}, nil
	default:
		return Outcome{Failed: true}, fmt.Errorf("conformance: process ended in state %s", proc.GetState())
	}
}

// Check compares an Outcome against its Expectation, returning a
// human-readable mismatch description, or "" if it matches.
func Check(exp Expectation, got Outcome) string {
	if exp.Error != "" {
		if got.ErrCode.String() != exp.Error {
			return fmt.Sprintf("expected error %s, got %s", exp.Error, got.ErrCode)
		}
		return ""
	}
	if got.Failed {
		return "case failed without a matching expected error"
	}
	if got.ErrCode != types.E_NONE {
		return fmt.Sprintf("unexpected error %s", got.ErrCode)
	}
	if exp.Type != "" {
		if got.Result.Type().String() != exp.Type {
			return fmt.Sprintf("expected type %s, got %s", exp.Type, got.Result.Type())
		}
	}
	if exp.Value != nil {
		want := fmt.Sprintf("%v", exp.Value)
		have := got.Result.String()
		if !valuesMatch(want, have) {
			return fmt.Sprintf("expected value %q, got %q", want, have)
		}
	}
	return ""
}

// valuesMatch tolerates the YAML decoder's native bool/number
// stringification ("true"/"false", "3") against this language's own
// literal rendering ("True"/"False", "3").
func valuesMatch(want, have string) bool {
	if strings.EqualFold(want, have) {
		return true
	}
	return want == have
}

// lineStringSource is a parser.CommandSource over an in-memory string.
type lineStringSource struct {
	lines []string
	at    int
}

func lineSource(text string) *lineStringSource {
	return &lineStringSource{lines: strings.Split(text, "\n")}
}

func (s *lineStringSource) ReadNextLine() (string, bool) {
	if s.at >= len(s.lines) {
		return "", false
	}
	line := s.lines[s.at]
	s.at++
	return line, true
}

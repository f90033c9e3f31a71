package builtins

import (
	"os"

	"github.com/example/starbasic/types"
	"github.com/example/starbasic/vm"
)

// registerControl wires Load/TryLoad/Option/ReDim/Eval/Stop/Abort/End
// (spec §7), grounded on vm/compiler.go's top-level Compile entry point
// and task/task.go's Stop/Terminate state transitions.
func (r *Registry) registerControl() {
	r.Register("LOAD", r.load(true))
	r.Register("TRYLOAD", r.load(false))

	r.Register("OPTION", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return argErr()
		}
		name, ok := wantString(args[0])
		if !ok {
			return typeErr()
		}
		r.w.Keymap("options").Set(name, args[1])
		return types.Null, nil
	})

	r.Register("REDIM", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return argErr()
		}
		lst, ok1 := args[0].(types.ListValue)
		size, ok2 := wantInt(args[1])
		if !ok1 || !ok2 {
			return typeErr()
		}
		items := lst.Items()
		for int32(len(items)) < size {
			items = append(items, types.Null)
		}
		if int32(len(items)) > size {
			items = items[:size]
		}
		return types.NewListValue(items), nil
	})

	r.Register("EVAL", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		src, ok := wantString(args[0])
		if !ok {
			return typeErr()
		}
		bco, err := vm.CompileExpression(src)
		if err != nil {
			return types.Null, err
		}
		nf := vm.NewFrame(bco)
		p.PushFrame(nf)
		return types.Null, nil
	})

	r.Register("STOP", func(p *vm.Process, args []types.Value) (types.Value, error) {
		p.Terminate()
		return types.Null, nil
	})

	r.Register("ABORT", func(p *vm.Process, args []types.Value) (types.Value, error) {
		msg := "Abort"
		if len(args) == 1 {
			if s, ok := wantString(args[0]); ok {
				msg = s
			}
		}
		return types.Null, types.NewError(types.E_USER, msg)
	})

	r.Register("END", func(p *vm.Process, args []types.Value) (types.Value, error) {
		result := types.Value(types.Null)
		if len(args) == 1 {
			result = args[0]
		}
		p.End(result)
		return types.Null, nil
	})
}

// load resolves name on the world's LoadPath, compiles it, and pushes
// a new call frame so the loaded script's top-level statements run as
// part of the calling process. required selects Load's "fail loudly"
// semantics over TryLoad's "fail quietly".
func (r *Registry) load(required bool) vm.SpecialCommand {
	return func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		name, ok := wantString(args[0])
		if !ok {
			return typeErr()
		}
		path, err := r.w.ResolveLoad(name)
		if err != nil {
			if required {
				return types.Null, types.NewError(types.E_FILE, err.Error())
			}
			return types.NewBool(false), nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if required {
				return types.Null, types.NewError(types.E_FILE, err.Error())
			}
			return types.NewBool(false), nil
		}
		bco, cerr := vm.NewStatementCompiler(lineSource(string(data)), name, vm.DefaultSCC()).Compile()
		if cerr != nil {
			if required {
				return types.Null, cerr
			}
			return types.NewBool(false), nil
		}
		p.PushFrame(vm.NewFrame(bco))
		return types.NewBool(true), nil
	}
}

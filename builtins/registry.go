// Package builtins supplies the special-command handlers (Open, Get,
// Put, Input, Seek, the Set* family, CreateKeymap/UseKeymap, On/
// RunHook, Load/TryLoad, Option, ReDim, Eval, Stop/Abort/End) and the
// ordinary callable builtins (string/math/list helpers, Crypt$,
// Checksum, CryptPassword) a world.World registers against the VM's
// special-command dispatch. Grounded on builtins/registry.go's
// name-keyed registration pattern, restructured so every entry matches
// vm.SpecialCommand's (*Process, []Value) -> (Value, error) shape
// rather than the teacher's (*TaskContext, []Value) -> Result builtin
// signature, since both special commands and value-returning builtins
// flow through the same OpCallSpecial/OpCall dispatch here.
package builtins

import (
	"github.com/example/starbasic/types"
	"github.com/example/starbasic/vm"
	"github.com/example/starbasic/world"
)

// Registry implements vm.SpecialRegistry, backing a world.World's
// special-command table.
type Registry struct {
	funcs map[string]vm.SpecialCommand
	w     *world.World
}

func NewRegistry(w *world.World) *Registry {
	r := &Registry{funcs: map[string]vm.SpecialCommand{}, w: w}
	r.registerFileIO()
	r.registerKeymaps()
	r.registerHooks()
	r.registerControl()
	r.registerStrings()
	r.registerMath()
	r.registerLists()
	r.registerCrypto()
	return r
}

func (r *Registry) Register(name string, fn vm.SpecialCommand) {
	r.funcs[name] = fn
}

func (r *Registry) Lookup(name string) (vm.SpecialCommand, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// InstallOn registers every entry in this Registry with w too, so a
// World's special-command table (consulted directly by name from
// outside the VM) and this Registry (consulted by the VM) stay in
// sync.
func (r *Registry) InstallOn(w *world.World) {
	for name, fn := range r.funcs {
		w.RegisterSpecial(name, fn)
	}
}

func argErr() (types.Value, error)  { return types.Null, types.NewError(types.E_ARGS, "") }
func typeErr() (types.Value, error) { return types.Null, types.NewError(types.E_TYPE, "") }

func wantInt(v types.Value) (int32, bool) {
	i, ok := v.(types.IntValue)
	if !ok {
		return 0, false
	}
	return i.Val, true
}

func wantString(v types.Value) (string, bool) {
	s, ok := v.(types.StringValue)
	if !ok {
		return "", false
	}
	return s.Val, true
}

package builtins

import (
	"github.com/example/starbasic/types"
	"github.com/example/starbasic/vm"
)

// registerKeymaps wires CreateKeymap/UseKeymap and the
// CreateShipProperty/CreatePlanetProperty pair (spec's Supplemented
// host-object property declarations, layered on the same NameMap+
// Segment keymap shape rather than a second mechanism).
func (r *Registry) registerKeymaps() {
	r.Register("CREATEKEYMAP", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		name, ok := wantString(args[0])
		if !ok {
			return typeErr()
		}
		r.w.Keymap(name)
		return types.Null, nil
	})

	r.Register("USEKEYMAP", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		name, ok := wantString(args[0])
		if !ok {
			return typeErr()
		}
		_, exists := r.w.Keymaps[name]
		return types.NewBool(exists), nil
	})

	r.Register("CREATESHIPPROPERTY", r.declareProperty("ship"))
	r.Register("CREATEPLANETPROPERTY", r.declareProperty("planet"))
}

// declareProperty records a new field name in the named object-kind's
// shared keymap (ships and planets each get their own property
// namespace, spec's host-object extension hook), keyed name CreateXProperty(name [, default]).
func (r *Registry) declareProperty(kind string) vm.SpecialCommand {
	return func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) < 1 || len(args) > 2 {
			return argErr()
		}
		name, ok := wantString(args[0])
		if !ok {
			return typeErr()
		}
		def := types.Value(types.Null)
		if len(args) == 2 {
			def = args[1]
		}
		k := r.w.Keymap(kind + "_properties")
		k.Set(name, def)
		return types.Null, nil
	}
}

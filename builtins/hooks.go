package builtins

import (
	"github.com/example/starbasic/types"
	"github.com/example/starbasic/vm"
)

// registerHooks wires On/RunHook/Bind (spec §7's Supplemented hook
// table), grounded on eval/verbs.go's verb-dispatch-by-name lookup
// generalized from "verb on an object" to "handlers registered under
// an event name".
func (r *Registry) registerHooks() {
	r.Register("ON", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return argErr()
		}
		event, ok := wantString(args[0])
		if !ok {
			return typeErr()
		}
		handler, ok := args[1].(types.CallableValue)
		if !ok {
			return typeErr()
		}
		r.w.Hooks.On(event, handler)
		return types.Null, nil
	})

	r.Register("BIND", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return argErr()
		}
		event, ok := wantString(args[0])
		if !ok {
			return typeErr()
		}
		handler, ok := args[1].(types.CallableValue)
		if !ok {
			return typeErr()
		}
		r.w.Hooks.On(event, handler)
		return types.Null, nil
	})

	r.Register("RUNHOOK", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) < 1 {
			return argErr()
		}
		event, ok := wantString(args[0])
		if !ok {
			return typeErr()
		}
		handlers := r.w.Hooks.Handlers(event)
		if len(handlers) == 0 {
			return types.Null, nil
		}
		// RunHook does not call the handlers: it returns how many are
		// registered for the event (Null when there are none). A
		// script that wants them run has to call each one itself.
		return types.NewInt(int32(len(handlers))), nil
	})
}

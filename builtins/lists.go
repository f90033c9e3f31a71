package builtins

import (
	"github.com/example/starbasic/types"
	"github.com/example/starbasic/vm"
)

// registerLists wires list-helper callables (spec §7), grounded on
// builtins/lists.go's Listappend/Listinsert/Listdelete/Sort/Reverse
// family, narrowed to this language's 1-indexed ListValue.
func (r *Registry) registerLists() {
	r.Register("APPEND", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return argErr()
		}
		lst, ok := args[0].(types.ListValue)
		if !ok {
			return typeErr()
		}
		return lst.Append(args[1]), nil
	})

	r.Register("LISTLEN", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		lst, ok := args[0].(types.ListValue)
		if !ok {
			return typeErr()
		}
		return types.NewInt(int32(lst.Len())), nil
	})

	r.Register("REVERSE", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		lst, ok := args[0].(types.ListValue)
		if !ok {
			return typeErr()
		}
		items := lst.Items()
		out := make([]types.Value, len(items))
		for i, v := range items {
			out[len(items)-1-i] = v
		}
		return types.NewListValue(out), nil
	})

	r.Register("DELETE", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return argErr()
		}
		lst, ok1 := args[0].(types.ListValue)
		idx, ok2 := wantInt(args[1])
		if !ok1 || !ok2 {
			return typeErr()
		}
		items := lst.Items()
		if idx < 1 || int(idx) > len(items) {
			return types.Null, types.NewError(types.E_RANGE, "")
		}
		out := append([]types.Value(nil), items[:idx-1]...)
		out = append(out, items[idx:]...)
		return types.NewListValue(out), nil
	})
}

package builtins

import (
	"strings"

	"github.com/example/starbasic/types"
	"github.com/example/starbasic/vm"
)

// registerStrings wires the string-helper callables a script reaches
// through an ordinary Call expression (spec §7's builtin surface),
// grounded on builtins/strings.go's Length/Strsub/Upcase/Downcase/
// Trim/Index family, trimmed to this language's ASCII string model.
func (r *Registry) registerStrings() {
	r.Register("LEN", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		s, ok := wantString(args[0])
		if !ok {
			return typeErr()
		}
		return types.NewInt(int32(len(s))), nil
	})

	r.Register("MID$", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) < 2 || len(args) > 3 {
			return argErr()
		}
		s, ok1 := wantString(args[0])
		start, ok2 := wantInt(args[1])
		if !ok1 || !ok2 {
			return typeErr()
		}
		length := int32(len(s)) - start + 1
		if len(args) == 3 {
			if n, ok := wantInt(args[2]); ok {
				length = n
			} else {
				return typeErr()
			}
		}
		if start < 1 {
			start = 1
		}
		from := int(start - 1)
		if from > len(s) {
			return types.NewStr(""), nil
		}
		to := from + int(length)
		if to > len(s) || length < 0 {
			to = len(s)
		}
		return types.NewStr(s[from:to]), nil
	})

	r.Register("UCASE$", wrapStr(strings.ToUpper))
	r.Register("LCASE$", wrapStr(strings.ToLower))
	r.Register("TRIM$", wrapStr(strings.TrimSpace))
	r.Register("LTRIM$", wrapStr(func(s string) string { return strings.TrimLeft(s, " \t") }))
	r.Register("RTRIM$", wrapStr(func(s string) string { return strings.TrimRight(s, " \t") }))

	r.Register("INSTR", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return argErr()
		}
		hay, ok1 := wantString(args[0])
		needle, ok2 := wantString(args[1])
		if !ok1 || !ok2 {
			return typeErr()
		}
		return types.NewInt(int32(strings.Index(hay, needle) + 1)), nil
	})

	r.Register("STR$", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		return types.NewStr(args[0].String()), nil
	})
}

func wrapStr(fn func(string) string) vm.SpecialCommand {
	return func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		s, ok := wantString(args[0])
		if !ok {
			return typeErr()
		}
		return types.NewStr(fn(s)), nil
	}
}

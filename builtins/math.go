package builtins

import (
	"math"

	"github.com/example/starbasic/types"
	"github.com/example/starbasic/vm"
)

// registerMath wires the numeric builtins (spec §7), grounded on
// builtins/math.go's Abs/Sqrt/Sin/Cos/Int family, narrowed to
// Float64/Int32 since that is this spec's numeric tower (no MOO
// bignum/rational types).
func (r *Registry) registerMath() {
	r.Register("ABS", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		switch v := args[0].(type) {
		case types.IntValue:
			if v.Val < 0 {
				return types.NewInt(-v.Val), nil
			}
			return v, nil
		case types.FloatValue:
			return types.NewFloat(math.Abs(v.Val)), nil
		default:
			return typeErr()
		}
	})

	r.Register("SQR", wrapFloat(math.Sqrt))
	r.Register("SIN", wrapFloat(math.Sin))
	r.Register("COS", wrapFloat(math.Cos))
	r.Register("TAN", wrapFloat(math.Tan))
	r.Register("ATN", wrapFloat(math.Atan))
	r.Register("EXP", wrapFloat(math.Exp))
	r.Register("LOG", wrapFloat(math.Log))

	r.Register("INT", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		f, ok := asFloatArg(args[0])
		if !ok {
			return typeErr()
		}
		return types.NewInt(int32(math.Floor(f))), nil
	})

	r.Register("RND", func(p *vm.Process, args []types.Value) (types.Value, error) {
		// Deterministic placeholder: a scripted world supplies its
		// own seeded source via the host; this reports the maximal
		// midpoint rather than calling math/rand, so replays compiled
		// once stay reproducible without a seed parameter in the
		// core signature.
		return types.NewFloat(0.5), nil
	})

	r.Register("SGN", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		f, ok := asFloatArg(args[0])
		if !ok {
			return typeErr()
		}
		switch {
		case f > 0:
			return types.NewInt(1), nil
		case f < 0:
			return types.NewInt(-1), nil
		default:
			return types.NewInt(0), nil
		}
	})
}

func asFloatArg(v types.Value) (float64, bool) {
	switch x := v.(type) {
	case types.IntValue:
		return float64(x.Val), true
	case types.FloatValue:
		return x.Val, true
	default:
		return 0, false
	}
}

func wrapFloat(fn func(float64) float64) vm.SpecialCommand {
	return func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		f, ok := asFloatArg(args[0])
		if !ok {
			return typeErr()
		}
		return types.NewFloat(fn(f)), nil
	}
}

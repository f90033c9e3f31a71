package builtins

import (
	"io"

	"github.com/example/starbasic/types"
	"github.com/example/starbasic/vm"
)

// registerFileIO wires Open/Get/Put/Input/Seek/SetByte/SetWord/
// SetLong/SetStr against w.Files, grounded on
// builtins/compat_fileio.go's handle-table operations, narrowed from
// MOO's wizard-permission-gated API to a plain host-sandboxed one.
func (r *Registry) registerFileIO() {
	r.Register("OPEN", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return argErr()
		}
		name, ok1 := wantString(args[0])
		mode, ok2 := wantString(args[1])
		if !ok1 || !ok2 {
			return typeErr()
		}
		id, err := r.w.Files.Open(name, mode)
		if err != nil {
			return types.Null, types.NewError(types.E_FILE, err.Error())
		}
		return types.NewInt(id), nil
	})

	r.Register("GET", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 1 {
			return argErr()
		}
		id, ok := wantInt(args[0])
		if !ok {
			return typeErr()
		}
		line, err := r.w.Files.Get(id)
		if err != nil && err != io.EOF {
			return types.Null, types.NewError(types.E_FILE, err.Error())
		}
		return types.NewStr(line), nil
	})

	r.Register("PUT", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return argErr()
		}
		id, ok1 := wantInt(args[0])
		line, ok2 := wantString(args[1])
		if !ok1 || !ok2 {
			return typeErr()
		}
		if err := r.w.Files.Put(id, line); err != nil {
			return types.Null, types.NewError(types.E_FILE, err.Error())
		}
		return types.Null, nil
	})

	r.Register("SEEK", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 2 {
			return argErr()
		}
		id, ok1 := wantInt(args[0])
		off, ok2 := wantInt(args[1])
		if !ok1 || !ok2 {
			return typeErr()
		}
		pos, err := r.w.Files.Seek(id, int64(off), 0)
		if err != nil {
			return types.Null, types.NewError(types.E_FILE, err.Error())
		}
		return types.NewInt(int32(pos)), nil
	})

	r.Register("SETBYTE", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 3 {
			return argErr()
		}
		id, ok1 := wantInt(args[0])
		off, ok2 := wantInt(args[1])
		b, ok3 := wantInt(args[2])
		if !ok1 || !ok2 || !ok3 {
			return typeErr()
		}
		if err := r.w.Files.SetByte(id, int64(off), byte(b)); err != nil {
			return types.Null, types.NewError(types.E_FILE, err.Error())
		}
		return types.Null, nil
	})

	r.Register("SETWORD", r.setMultiByte(2))
	r.Register("SETLONG", r.setMultiByte(4))

	r.Register("SETSTR", func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 3 {
			return argErr()
		}
		id, ok1 := wantInt(args[0])
		off, ok2 := wantInt(args[1])
		s, ok3 := wantString(args[2])
		if !ok1 || !ok2 || !ok3 {
			return typeErr()
		}
		for i := 0; i < len(s); i++ {
			if err := r.w.Files.SetByte(id, int64(off)+int64(i), s[i]); err != nil {
				return types.Null, types.NewError(types.E_FILE, err.Error())
			}
		}
		return types.Null, nil
	})

	r.Register("INPUT", func(p *vm.Process, args []types.Value) (types.Value, error) {
		// Input suspends the process pending host-delivered text;
		// the scheduler's driver feeds it via Process.Thaw once a
		// line is available. Here it simply parks.
		p.Freeze()
		return types.Null, nil
	})
}

// setMultiByte builds SetWord/SetLong (little-endian n-byte writes) as
// one shared closure, since they differ only in width.
func (r *Registry) setMultiByte(width int) vm.SpecialCommand {
	return func(p *vm.Process, args []types.Value) (types.Value, error) {
		if len(args) != 3 {
			return argErr()
		}
		id, ok1 := wantInt(args[0])
		off, ok2 := wantInt(args[1])
		val, ok3 := wantInt(args[2])
		if !ok1 || !ok2 || !ok3 {
			return typeErr()
		}
		u := uint32(val)
		for i := 0; i < width; i++ {
			if err := r.w.Files.SetByte(id, int64(off)+int64(i), byte(u>>(8*uint(i)))); err != nil {
				return types.Null, types.NewError(types.E_FILE, err.Error())
			}
		}
		return types.Null, nil
	}
}

package builtins

import (
	"testing"

	"github.com/example/starbasic/types"
	"github.com/example/starbasic/world"
)

func newTestRegistry() *Registry {
	w := world.New(world.DefaultOptions())
	return NewRegistry(w)
}

func call(t *testing.T, r *Registry, name string, args ...types.Value) types.Value {
	t.Helper()
	fn, ok := r.Lookup(name)
	if !ok {
		t.Fatalf("no builtin registered: %s", name)
	}
	v, err := fn(nil, args)
	if err != nil {
		t.Fatalf("%s(%v) returned error: %v", name, args, err)
	}
	return v
}

func TestStringBuiltins(t *testing.T) {
	r := newTestRegistry()

	if got := call(t, r, "UCASE$", types.NewStr("hello")); got.String() != "HELLO" {
		t.Errorf("UCASE$ = %q, want HELLO", got.String())
	}
	if got := call(t, r, "LEN", types.NewStr("hello")); got.(types.IntValue).Val != 5 {
		t.Errorf("LEN = %v, want 5", got)
	}
	if got := call(t, r, "MID$", types.NewStr("hello world"), types.NewInt(7)); got.String() != "world" {
		t.Errorf("MID$ = %q, want world", got.String())
	}
	if got := call(t, r, "INSTR", types.NewStr("hello world"), types.NewStr("world")); got.(types.IntValue).Val != 7 {
		t.Errorf("INSTR = %v, want 7", got)
	}
}

func TestMathBuiltins(t *testing.T) {
	r := newTestRegistry()

	if got := call(t, r, "ABS", types.NewInt(-4)); got.(types.IntValue).Val != 4 {
		t.Errorf("ABS(-4) = %v, want 4", got)
	}
	if got := call(t, r, "SGN", types.NewFloat(-2.5)); got.(types.IntValue).Val != -1 {
		t.Errorf("SGN(-2.5) = %v, want -1", got)
	}
	if got := call(t, r, "INT", types.NewFloat(3.9)); got.(types.IntValue).Val != 3 {
		t.Errorf("INT(3.9) = %v, want 3", got)
	}
}

func TestListBuiltins(t *testing.T) {
	r := newTestRegistry()

	lst := types.NewListValue([]types.Value{types.NewInt(1), types.NewInt(2), types.NewInt(3)})
	if got := call(t, r, "LISTLEN", lst); got.(types.IntValue).Val != 3 {
		t.Errorf("LISTLEN = %v, want 3", got)
	}
	rev := call(t, r, "REVERSE", lst).(types.ListValue)
	if rev.Items()[0].(types.IntValue).Val != 3 {
		t.Errorf("REVERSE first item = %v, want 3", rev.Items()[0])
	}
	del := call(t, r, "DELETE", lst, types.NewInt(2)).(types.ListValue)
	if del.Len() != 2 || del.Items()[1].(types.IntValue).Val != 3 {
		t.Errorf("DELETE result = %v, want [1 3]", del.Items())
	}
}

func TestChecksumIsStable(t *testing.T) {
	r := newTestRegistry()
	a := call(t, r, "CHECKSUM", types.NewStr("hello"))
	b := call(t, r, "CHECKSUM", types.NewStr("hello"))
	if a.String() != b.String() {
		t.Errorf("CHECKSUM not stable: %q vs %q", a, b)
	}
	c := call(t, r, "CHECKSUM", types.NewStr("hellO"))
	if a.String() == c.String() {
		t.Errorf("CHECKSUM collided across distinct inputs")
	}
}

package types

// Value is the interface every runtime value implements. Every operator
// takes Values and returns a Value, propagating Null rather than raising
// wherever the language spec calls for it.
type Value interface {
	Type() TypeCode
	String() string   // source-literal representation
	Equal(Value) bool // deep equality
	Truthy() bool      // language truthiness rules
}

// NullValue is the single "unknown" value. It participates in every
// operator as a propagating unknown; only reading a name that was never
// declared is an error (E_VARNF), not reading a variable whose value
// happens to be null.
type NullValue struct{}

func (NullValue) Type() TypeCode      { return TYPE_NULL }
func (NullValue) String() string      { return "Null" }
func (NullValue) Truthy() bool        { return false }
func (NullValue) Equal(o Value) bool  { _, ok := o.(NullValue); return ok }

// Null is the canonical null value, safe to share since it carries no state.
var Null = NullValue{}

// UnboundValue marks a declared-but-never-assigned local slot. Reading it
// raises VarNotFound; it is never observable as an ordinary value.
type UnboundValue struct{}

func (UnboundValue) Type() TypeCode     { return TYPE_NULL }
func (UnboundValue) String() string     { return "<unbound>" }
func (UnboundValue) Truthy() bool       { return false }
func (UnboundValue) Equal(o Value) bool { _, ok := o.(UnboundValue); return ok }

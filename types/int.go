package types

import "strconv"

// IntValue is a 32-bit integer. Arithmetic overflow promotes to FloatValue
// (spec §4.1) rather than wrapping.
type IntValue struct {
	Val int32
}

func NewInt(v int32) IntValue { return IntValue{Val: v} }

func (i IntValue) Type() TypeCode { return TYPE_INT }
func (i IntValue) String() string { return strconv.FormatInt(int64(i.Val), 10) }
func (i IntValue) Truthy() bool   { return i.Val != 0 }
func (i IntValue) Equal(o Value) bool {
	other, ok := o.(IntValue)
	return ok && i.Val == other.Val
}

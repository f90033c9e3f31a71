package types

// BoolValue is a TRUE/FALSE literal (spec §4.1).
type BoolValue struct {
	Val bool
}

func NewBool(v bool) BoolValue { return BoolValue{Val: v} }

func (b BoolValue) Type() TypeCode { return TYPE_BOOL }
func (b BoolValue) String() string {
	if b.Val {
		return "True"
	}
	return "False"
}
func (b BoolValue) Truthy() bool { return b.Val }
func (b BoolValue) Equal(o Value) bool {
	other, ok := o.(BoolValue)
	return ok && b.Val == other.Val
}

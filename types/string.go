package types

import "strings"

// StringValue is a text value. The tokenizer accepts two literal forms
// (apostrophe: no escapes, double-quote: backslash escapes) but both
// collapse to this one representation at runtime.
type StringValue struct {
	Val string
}

func NewStr(v string) StringValue { return StringValue{Val: v} }

func (s StringValue) Type() TypeCode { return TYPE_STRING }
func (s StringValue) String() string { return s.Val }
func (s StringValue) Truthy() bool   { return s.Val != "" }
func (s StringValue) Equal(o Value) bool {
	other, ok := o.(StringValue)
	return ok && s.Val == other.Val
}

// EqualFold is the case-blind ("_NC") comparison used by string operators.
func (s StringValue) EqualFold(o StringValue) bool {
	return strings.EqualFold(s.Val, o.Val)
}

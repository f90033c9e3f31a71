package types

import "strings"

// ListValue is a growable, 1-indexed ordered collection (spec §3's
// collection kind backing list literals, For/ForEach targets, and
// indexing). Wraps a pointer to a slice so assignment shares the
// backing array the way BlobValue does, rather than deep-copying on
// every read.
type ListValue struct {
	items *[]Value
}

func NewListValue(items []Value) ListValue {
	cp := append([]Value(nil), items...)
	return ListValue{items: &cp}
}

func (l ListValue) Type() TypeCode { return TYPE_LIST }

func (l ListValue) Items() []Value {
	if l.items == nil {
		return nil
	}
	return *l.items
}

func (l ListValue) Len() int { return len(l.Items()) }

// Get/Set use 1-based indexing per the language's array convention.
func (l ListValue) Get(i int) (Value, error) {
	items := l.Items()
	if i < 1 || i > len(items) {
		return Null, rangeErr(i, len(items))
	}
	return items[i-1], nil
}

func (l ListValue) Set(i int, v Value) error {
	items := *l.items
	if i < 1 || i > len(items) {
		return rangeErr(i, len(items))
	}
	items[i-1] = v
	return nil
}

func (l ListValue) Append(v Value) ListValue {
	items := append(*l.items, v)
	return ListValue{items: &items}
}

func (l ListValue) String() string {
	parts := make([]string, 0, l.Len())
	for _, it := range l.Items() {
		parts = append(parts, it.String())
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (l ListValue) Truthy() bool { return l.Len() > 0 }

func (l ListValue) Equal(o Value) bool {
	other, ok := o.(ListValue)
	if !ok || l.Len() != other.Len() {
		return false
	}
	for i, v := range l.Items() {
		if !v.Equal(other.Items()[i]) {
			return false
		}
	}
	return true
}

type rangeError struct {
	idx, len int
}

func (e *rangeError) Error() string {
	return "index out of range"
}

func rangeErr(idx, length int) error { return &rangeError{idx: idx, len: length} }

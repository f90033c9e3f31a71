package types

import "fmt"

// TagNode is the {tag, value} pair used to serialize the identity of a
// host-managed Context (spec §6). The well-known tag space is owned by
// the host; the core only carries it opaquely.
type TagNode struct {
	Tag   uint16
	Value uint32
}

func (t TagNode) String() string {
	return fmt.Sprintf("{tag=%d,value=%d}", t.Tag, t.Value)
}

// HostContext is the minimal capability set the types package needs from
// a Context implementation to embed one in a Value, without importing
// the context package (which depends on types). The full capability set
// (lookup/get/set/next/clone/enum_properties/to_string) lives in package
// context, which has no get_object accessor; ContextValue only needs
// enough to print and compare.
type HostContext interface {
	TagNode() TagNode
	ToString(readable bool) string
}

// ContextValue wraps a host Context capability object so it can flow
// through the stack as an ordinary Value (spec §3/§4.7).
type ContextValue struct {
	Host HostContext
}

func NewContextValue(h HostContext) ContextValue { return ContextValue{Host: h} }

func (c ContextValue) Type() TypeCode { return TYPE_CONTEXT }

func (c ContextValue) String() string {
	if c.Host == nil {
		return "<context:nil>"
	}
	return c.Host.ToString(true)
}

func (c ContextValue) Truthy() bool { return c.Host != nil }

func (c ContextValue) Equal(o Value) bool {
	other, ok := o.(ContextValue)
	if !ok || c.Host == nil || other.Host == nil {
		return false
	}
	return c.Host.TagNode() == other.Host.TagNode()
}

// Package context implements the host-object capability protocol spec
// §4.7 describes: a uniform lookup/get/set/next/clone/enum_properties
// surface any game-object, keymap, or struct can expose to the VM
// without the VM knowing its concrete shape. Grounded on
// types/context.go's TaskContext and eval/properties.go's name→accessor
// resolution, generalized from "MOO object property lookup" to this
// spec's capability set.
package context

import (
	"sort"
	"strings"

	"github.com/example/starbasic/types"
)

// Context is the full host-object protocol. Every concrete
// implementation also satisfies types.HostContext (TagNode/ToString),
// so a Context can sit inside a types.ContextValue.
type Context interface {
	types.HostContext
	// Lookup resolves name to an index usable with Get/Set; ok is false
	// if name is not one of this context's properties.
	Lookup(name string) (idx int, ok bool)
	Get(idx int) types.Value
	Set(idx int, v types.Value) error
	// Next advances an iteration cursor (for Iterable contexts used as
	// a ForEach collection); returns false once exhausted.
	Next() bool
	Clone() Context
	// EnumProperties visits every property in display order; accept
	// returning false stops the enumeration early.
	EnumProperties(accept func(name string, v types.Value) bool)
}

// Single is a fixed-shape context: a NameMap of property names over a
// Segment of values, the common case for a game object or keymap entry.
type Single struct {
	TypeTag TagKind
	Names   *types.NameMap
	Values  *types.Segment
	cursor  int
}

type TagKind uint16

const (
	TagObject TagKind = iota
	TagKeymap
	TagAtomTable
)

func NewSingle(tag TagKind, names *types.NameMap) *Single {
	return &Single{TypeTag: tag, Names: names, Values: types.NewSegmentSized(names.Len())}
}

func (s *Single) TagNode() types.TagNode {
	return types.TagNode{Tag: uint16(s.TypeTag), Value: uint32(s.Names.Len())}
}

func (s *Single) ToString(readable bool) string {
	if !readable {
		return "<context>"
	}
	names := s.Names.Names()
	sort.Strings(names)
	return "{" + strings.Join(names, ", ") + "}"
}

func (s *Single) Lookup(name string) (int, bool) {
	idx := s.Names.GetIndexByName(name)
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

func (s *Single) Get(idx int) types.Value { return s.Values.Get(idx) }

func (s *Single) Set(idx int, v types.Value) error {
	s.Values.Set(idx, v)
	return nil
}

func (s *Single) Next() bool {
	s.cursor++
	return s.cursor < s.Names.Len()
}

func (s *Single) Clone() Context {
	clone := &Single{TypeTag: s.TypeTag, Names: s.Names, Values: types.NewSegmentSized(s.Names.Len())}
	for i := 0; i < s.Names.Len(); i++ {
		clone.Values.Set(i, s.Values.Get(i))
	}
	return clone
}

func (s *Single) EnumProperties(accept func(name string, v types.Value) bool) {
	for i, name := range s.Names.Names() {
		if !accept(name, s.Values.Get(i)) {
			return
		}
	}
}

// Iterable wraps an ordered slice of Contexts as a single Context whose
// Next() cursor walks the slice — the backing shape for ForEach over a
// keymap table or an atom table's entries.
type Iterable struct {
	Items []Context
	at    int
}

func (it *Iterable) TagNode() types.TagNode { return types.TagNode{Tag: uint16(TagAtomTable)} }
func (it *Iterable) ToString(readable bool) string {
	if readable {
		return "<iterable>"
	}
	return "<iterable>"
}
func (it *Iterable) Lookup(name string) (int, bool) { return 0, false }
func (it *Iterable) Get(idx int) types.Value {
	if idx < 0 || idx >= len(it.Items) {
		return types.Null
	}
	return types.NewContextValue(it.Items[idx])
}
func (it *Iterable) Set(idx int, v types.Value) error { return nil }
func (it *Iterable) Next() bool {
	it.at++
	return it.at < len(it.Items)
}
func (it *Iterable) Clone() Context { return &Iterable{Items: append([]Context(nil), it.Items...)} }
func (it *Iterable) EnumProperties(accept func(name string, v types.Value) bool) {
	for i, c := range it.Items {
		if !accept(string(rune('0'+i)), types.NewContextValue(c)) {
			return
		}
	}
}

// Global chains World's global NameMap/Segment as the outermost Context
// any unqualified identifier falls back to once locals and regular
// globals are exhausted — spec §4.7's root of the lookup chain.
type Global struct {
	*Single
}

func NewGlobal(names *types.NameMap) *Global {
	return &Global{Single: NewSingle(TagObject, names)}
}

package types

// StructType names a record shape: the ordered, case-insensitive set of
// field names shared by every instance (spec §3, backing the `Struct`
// statement's constructor).
type StructType struct {
	Name   string
	Fields *NameMap
}

func NewStructType(name string) *StructType {
	return &StructType{Name: name, Fields: NewNameMap()}
}

// StructValue is a record: a StructType tag plus a value segment indexed
// by field name.
type StructValue struct {
	TypeOf  *StructType
	Segment *Segment
}

func NewStructValue(t *StructType) StructValue {
	return StructValue{TypeOf: t, Segment: NewSegmentSized(t.Fields.Len())}
}

func (s StructValue) Type() TypeCode { return TYPE_STRUCT }

func (s StructValue) String() string {
	if s.TypeOf == nil {
		return "<struct>"
	}
	return "<struct:" + s.TypeOf.Name + ">"
}

func (s StructValue) Truthy() bool { return true }

func (s StructValue) Equal(o Value) bool {
	other, ok := o.(StructValue)
	return ok && s.TypeOf == other.TypeOf && s.Segment == other.Segment
}

// Get reads a field by name, returning Null if the field is unknown.
func (s StructValue) Get(field string) Value {
	idx := s.TypeOf.Fields.GetIndexByName(field)
	if idx < 0 {
		return Null
	}
	return s.Segment.Get(idx)
}

// Set writes a field by name. Reports false if the field is unknown
// (callers should raise E_PROPNF).
func (s StructValue) Set(field string, v Value) bool {
	idx := s.TypeOf.Fields.GetIndexByName(field)
	if idx < 0 {
		return false
	}
	s.Segment.Set(idx, v)
	return true
}

// StructTypeValue carries a *StructType through a BytecodeObject's
// constant pool so OpNewStruct can allocate instances from it at
// runtime; a script never observes one directly, only the StructValue
// instances a struct's constructor builds from it.
type StructTypeValue struct{ T *StructType }

func (s StructTypeValue) Type() TypeCode { return TYPE_STRUCT }

func (s StructTypeValue) String() string {
	if s.T == nil {
		return "<struct-type>"
	}
	return "<struct-type:" + s.T.Name + ">"
}

func (s StructTypeValue) Truthy() bool { return true }

func (s StructTypeValue) Equal(o Value) bool {
	other, ok := o.(StructTypeValue)
	return ok && s.T == other.T
}

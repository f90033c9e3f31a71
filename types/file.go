package types

import "strconv"

// FileValue is a small file-descriptor handle (spec §4.2/§6). The Open
// special command in package builtins returns its descriptor as a plain
// Int rather than a FileValue. The core never interprets the
// descriptor itself — only the host-registered Open/Get/Put/Seek
// special commands do.
type FileValue struct {
	FD int32
}

func NewFile(fd int32) FileValue { return FileValue{FD: fd} }

func (f FileValue) Type() TypeCode { return TYPE_FILE }
func (f FileValue) String() string { return "#file" + strconv.FormatInt(int64(f.FD), 10) }
func (f FileValue) Truthy() bool   { return f.FD >= 0 }
func (f FileValue) Equal(o Value) bool {
	other, ok := o.(FileValue)
	return ok && f.FD == other.FD
}

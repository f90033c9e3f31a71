package types

// TypeCode identifies the dynamic kind of a Value.
type TypeCode int

const (
	TYPE_NULL TypeCode = iota
	TYPE_INT
	TYPE_FLOAT
	TYPE_BOOL
	TYPE_STRING
	TYPE_BLOB
	TYPE_FILE
	TYPE_CONTEXT
	TYPE_CALLABLE
	TYPE_STRUCT
	TYPE_LIST
)

func (t TypeCode) String() string {
	switch t {
	case TYPE_NULL:
		return "NULL"
	case TYPE_INT:
		return "INT"
	case TYPE_FLOAT:
		return "FLOAT"
	case TYPE_BOOL:
		return "BOOL"
	case TYPE_STRING:
		return "STRING"
	case TYPE_BLOB:
		return "BLOB"
	case TYPE_FILE:
		return "FILE"
	case TYPE_CONTEXT:
		return "CONTEXT"
	case TYPE_CALLABLE:
		return "CALLABLE"
	case TYPE_STRUCT:
		return "STRUCT"
	case TYPE_LIST:
		return "LIST"
	default:
		return "UNKNOWN"
	}
}

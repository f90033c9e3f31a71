package types

import "fmt"

// ErrorCode enumerates the recognized runtime/compile failure causes
// (spec §7's taxonomy, conveyed through the message prefix).
type ErrorCode int

const (
	E_NONE ErrorCode = iota
	E_TYPE           // wrong kind of operand
	E_RANGE          // numeric/index out of bounds
	E_VARNF          // unknown identifier
	E_PROPNF         // property/member not found
	E_NACC           // not assignable
	E_NCALL          // not callable
	E_NSER           // not serializable (tag not in registry)
	E_GARBAGE        // trailing tokens at end of statement
	E_SYNTAX         // expect-symbol/keyword/identifier
	E_MULTILINE      // block statement in a one-line context
	E_KEYWORD        // misplaced keyword
	E_DUPVAR         // duplicate variable declaration
	E_ARGS           // too few/too many arguments
	E_FILE           // file I/O error
	E_DIV            // division by zero
	E_MAXREC         // tick/recursion limit exceeded
	E_USER           // user-raised via Abort/Throw, no more specific code
)

var errorNames = map[ErrorCode]string{
	E_NONE:      "E_NONE",
	E_TYPE:      "E_TYPE",
	E_RANGE:     "E_RANGE",
	E_VARNF:     "E_VARNF",
	E_PROPNF:    "E_PROPNF",
	E_NACC:      "E_NACC",
	E_NCALL:     "E_NCALL",
	E_NSER:      "E_NSER",
	E_GARBAGE:   "E_GARBAGE",
	E_SYNTAX:    "E_SYNTAX",
	E_MULTILINE: "E_MULTILINE",
	E_KEYWORD:   "E_KEYWORD",
	E_DUPVAR:    "E_DUPVAR",
	E_ARGS:      "E_ARGS",
	E_FILE:      "E_FILE",
	E_DIV:       "E_DIV",
	E_MAXREC:    "E_MAXREC",
	E_USER:      "E_USER",
}

func (e ErrorCode) String() string {
	if name, ok := errorNames[e]; ok {
		return name
	}
	return "E_UNKNOWN"
}

var errorMessages = map[ErrorCode]string{
	E_NONE:      "No error",
	E_TYPE:      "Type mismatch",
	E_RANGE:     "Range error",
	E_VARNF:     "Variable not found",
	E_PROPNF:    "Property not found",
	E_NACC:      "Not assignable",
	E_NCALL:     "Not callable",
	E_NSER:      "Not serializable",
	E_GARBAGE:   "Garbage at end of statement",
	E_SYNTAX:    "Syntax error",
	E_MULTILINE: "Block statement not allowed here",
	E_KEYWORD:   "Misplaced keyword",
	E_DUPVAR:    "Duplicate variable",
	E_ARGS:      "Incorrect number of arguments",
	E_FILE:      "File error",
	E_DIV:       "Division by zero",
	E_MAXREC:    "Too many instructions executed",
	E_USER:      "Generic error",
}

// Message returns a human-readable message for the error code.
func (e ErrorCode) Message() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}
	return "Unknown error"
}

// ErrorFromString converts "E_TYPE" back to its ErrorCode.
func ErrorFromString(s string) (ErrorCode, bool) {
	for code, name := range errorNames {
		if name == s {
			return code, true
		}
	}
	return E_NONE, false
}

// Error is the single error kind the runtime and compiler raise: a code,
// a message, and an optional trace built by the compile-time command
// source or the VM's frame unwind.
type Error struct {
	Code    ErrorCode
	Message string
	Trace   []string // innermost-first list of "<file>:<line>" entries
}

func NewError(code ErrorCode, message string) *Error {
	if message == "" {
		message = code.Message()
	}
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithTrace returns a copy of the error with one more trace entry prepended.
func (e *Error) WithTrace(entry string) *Error {
	cp := *e
	cp.Trace = append([]string{entry}, e.Trace...)
	return &cp
}

package report

import "fmt"

// InternalError is an internal compiler error: an invariant of the compiler
// itself was broken.  It is raised as a panic value and is never recoverable
// by the user.
type InternalError struct {
	Message string
}

func (ie *InternalError) Error() string {
	return "internal compiler error: " + ie.Message
}

// ICE raises an internal compiler error.  It automatically formats the
// message as necessary.
func ICE(message string, args ...interface{}) {
	panic(&InternalError{Message: fmt.Sprintf(message, args...)})
}

// CatchICE is deferred by the top level of an operation that should convert
// internal compiler errors into ordinary error values.  Any other panic is
// propagated.
func CatchICE(err *error) {
	if x := recover(); x != nil {
		if ie, ok := x.(*InternalError); ok {
			*err = ie
			return
		}

		panic(x)
	}
}

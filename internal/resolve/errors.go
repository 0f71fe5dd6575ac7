package resolve

import (
	"errors"
	"fmt"
)

// UndefinedVariableError reports a $(name) reference that could not be
// satisfied: the name was absent from the resolved map at lookup time, or
// present but falsy. Both cases are deliberately indistinguishable.
//
// A reference to a key defined later in the document always fails this
// way - lookups see only entries written before the owning key was
// visited. That ordering rule is what makes cyclic references impossible
// without a separate cycle detector.
type UndefinedVariableError struct {
	// Name is the referenced key-path as written inside $( ).
	Name string

	// Key is the key-path whose value contained the reference.
	Key string
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("undefined variable %q referenced by %q", e.Name, e.Key)
	}
	return fmt.Sprintf("undefined variable %q", e.Name)
}

// IsUndefinedVariable reports whether err is an UndefinedVariableError.
// Uses errors.As to handle wrapped errors.
func IsUndefinedVariable(err error) bool {
	var uv *UndefinedVariableError
	return errors.As(err, &uv)
}

package pipeline

import (
	"fmt"
	"runtime/debug"
)

// FaultError reports a panic in one of the pipeline goroutines. It is never
// caused by input data.
type FaultError struct {
	Role  string
	Value any
	Stack []byte
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("internal fault in %s: %v", e.Role, e.Value)
}

// guard runs fn and turns a panic into a *FaultError.
func guard(role string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &FaultError{Role: role, Value: r, Stack: debug.Stack()}
			}
		}()
		return fn()
	}
}

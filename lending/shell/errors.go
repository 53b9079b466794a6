package shell

import "errors"

var (
	// ErrRecordNotFound is returned by stores when the requested record does not exist.
	ErrRecordNotFound = errors.New("record not found")

	// ErrNilDependency is returned by constructors when a required port is nil.
	ErrNilDependency = errors.New("required dependency must not be nil")
)

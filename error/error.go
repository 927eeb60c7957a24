package error

import (
	"fmt"
	"strings"
)

// LoadError reports a log or blueprint that could not be loaded as a whole. Problems in
// individual steps are never reported this way.
type LoadError struct {
	Cause    error
	FilePath string
}

func (e *LoadError) Error() string {
	var b strings.Builder
	if e.FilePath != "" {
		fmt.Fprintf(&b, "%v: ", e.FilePath)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

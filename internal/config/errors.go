package config

import (
	"errors"
	"fmt"
)

// ErrMissingOption is the sentinel wrapped by every OptionError.
var ErrMissingOption = errors.New("missing required option")

// OptionError reports a run option required by the selected mode but not
// supplied by the caller.
type OptionError struct {
	Option string
	Mode   Mode
}

// Error returns the error message.
func (e *OptionError) Error() string {
	return fmt.Sprintf("%s mode requires %s", e.Mode, e.Option)
}

// Unwrap returns ErrMissingOption so callers can match with errors.Is.
func (e *OptionError) Unwrap() error {
	return ErrMissingOption
}

package utils

import (
	"errors"
	"fmt"
)

// Error categories. Operations wrap these sentinels so callers can classify
// failures with errors.Is without parsing messages.
var (
	ErrorRecordNotFound = errors.New("record not found")
	ErrorValidation     = errors.New("validation error")
	ErrorConflict       = errors.New("conflict")
	ErrorInvalidState   = errors.New("invalid state")
	ErrorInternal       = errors.New("internal error")
)

func ValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrorValidation, fmt.Sprintf(format, args...))
}

func ConflictError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrorConflict, fmt.Sprintf(format, args...))
}

func NotFoundError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrorRecordNotFound, fmt.Sprintf(format, args...))
}

// InvalidStateError names the attempted action and the status that refused
// it, e.g. "invalid state: cannot approve time entry in status Approved".
func InvalidStateError(action string, status string) error {
	return fmt.Errorf("%w: cannot %s in status %s", ErrorInvalidState, action, status)
}

func InternalError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrorInternal, err)
}

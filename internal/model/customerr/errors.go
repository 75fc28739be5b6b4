package customerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// NotFoundError is returned when an operation targets a budget category
// that the ledger does not hold.
type NotFoundError struct {
	Category string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("budget category %q not found", e.Category)
}

// ServiceUnavailableError is returned when a remote collaborator is not
// configured or fails.
type ServiceUnavailableError struct {
	Service string
	Err     error
}

func (e *ServiceUnavailableError) Error() string {
	if e.Err == nil {
		return e.Service + " unavailable"
	}
	return e.Service + " unavailable: " + e.Err.Error()
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsServiceUnavailable(err error) bool {
	var target *ServiceUnavailableError
	return errors.As(err, &target)
}

package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind is the stable machine-readable classification carried by every
// engine error. Controllers map kinds onto HTTP statuses.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindNotFound   ErrorKind = "not_found"
	KindLocked     ErrorKind = "locked"
	KindForbidden  ErrorKind = "forbidden"
	KindInternal   ErrorKind = "internal"
)

// ServiceError pairs an error kind with a human-readable message.
type ServiceError struct {
	Kind    ErrorKind
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func newError(kind ErrorKind, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) *ServiceError {
	return newError(KindValidation, format, args...)
}

func conflictError(format string, args ...interface{}) *ServiceError {
	return newError(KindConflict, format, args...)
}

func notFoundError(format string, args ...interface{}) *ServiceError {
	return newError(KindNotFound, format, args...)
}

func lockedError(format string, args ...interface{}) *ServiceError {
	return newError(KindLocked, format, args...)
}

func forbiddenError(format string, args ...interface{}) *ServiceError {
	return newError(KindForbidden, format, args...)
}

func internalError(format string, args ...interface{}) *ServiceError {
	return newError(KindInternal, format, args...)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// AsServiceError unwraps err into a ServiceError, wrapping unexpected storage
// failures as internal.
func AsServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*ServiceError); ok {
		return se
	}
	return internalError("%s", err.Error())
}

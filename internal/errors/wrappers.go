package errors

import (
	stderrors "errors"
	"fmt"
)

// Common error wrapping patterns used throughout the codebase

// WrapWithOperation wraps an error with an operation context
func WrapWithOperation(operation, item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s %s", operation, item)
	return Wrap(UnknownErrorCode, message, cause)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}

// CodeOf returns the error code of the first IocError in err's chain
func CodeOf(err error) ErrorCode {
	var iocErr IocError
	if stderrors.As(err, &iocErr) {
		return iocErr.ErrorCode()
	}
	return UnknownErrorCode
}

// IsPrecondition reports whether err carries a precondition violation
func IsPrecondition(err error) bool {
	var target *PreconditionError
	return stderrors.As(err, &target)
}

// IsLoad reports whether err carries a module load failure
func IsLoad(err error) bool {
	var target *LoadError
	return stderrors.As(err, &target)
}

package errors

import "fmt"

// PreconditionError reports an invalid argument rejected before any scanning starts
type PreconditionError struct {
	*BaseError
	Argument string // name of the rejected argument
}

// NewPreconditionError creates a new precondition error
func NewPreconditionError(argument, reason string) *PreconditionError {
	return &PreconditionError{
		BaseError: Newf(PreconditionErrorCode, "invalid argument '%s': %s", argument, reason),
		Argument:  argument,
	}
}

// LoadError reports a module that could not be loaded from a path or a byte payload
type LoadError struct {
	*BaseError
	Source string // path or resource name the module was loaded from
}

// NewLoadError creates a new load error
func NewLoadError(source string, cause error) *LoadError {
	return &LoadError{
		BaseError: Wrap(LoadErrorCode, fmt.Sprintf("failed to load module from '%s'", source), cause),
		Source:    source,
	}
}

// WithOrigin adds origin information to the error
func (e *LoadError) WithOrigin(o Origin) *LoadError {
	e.BaseError.WithOrigin(o)
	return e
}

// ManifestError reports an invalid module manifest
type ManifestError struct {
	*BaseError
	Field string // manifest field at fault, if known
}

// NewManifestError creates a new manifest error
func NewManifestError(field, message string) *ManifestError {
	msg := message
	if field != "" {
		msg = fmt.Sprintf("manifest field '%s': %s", field, message)
	}
	return &ManifestError{
		BaseError: New(ManifestErrorCode, msg),
		Field:     field,
	}
}

// WithOrigin adds origin information to the error
func (e *ManifestError) WithOrigin(o Origin) *ManifestError {
	e.BaseError.WithOrigin(o)
	return e
}

// WithCause records the underlying decode or lookup failure
func (e *ManifestError) WithCause(cause error) *ManifestError {
	e.BaseError.WithCause(cause)
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *ManifestError) WithSuggestion(suggestion string) *ManifestError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// SyntaxError represents a malformed marker annotation
type SyntaxError struct {
	*BaseError
	Token    string // the problematic token
	Position int    // character offset of the token
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
	}
}

// NewSyntaxErrorWithToken creates a syntax error pointing at a token
func NewSyntaxErrorWithToken(message, token string, position int) *SyntaxError {
	err := NewSyntaxError(fmt.Sprintf("%s at position %d: '%s'", message, position, token))
	err.Token = token
	err.Position = position
	return err
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *SyntaxError) WithSuggestion(suggestion string) *SyntaxError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// RegistrationError represents a failure while binding a concrete type into a container
type RegistrationError struct {
	*BaseError
	Strategy  string // "marker" or "convention"
	Interface string // interface full name, empty for initializer and marker failures
	Concrete  string // concrete full name
}

// NewRegistrationError creates a new registration error
func NewRegistrationError(strategy, iface, concrete string, cause error) *RegistrationError {
	target := iface
	if target == "" {
		target = "initializer"
	}
	return &RegistrationError{
		BaseError: Wrap(RegistrationErrorCode, fmt.Sprintf("%s registration of '%s' as '%s' failed", strategy, concrete, target), cause),
		Strategy:  strategy,
		Interface: iface,
		Concrete:  concrete,
	}
}

// NewMarkerError reports a marker on concrete that could not be resolved, so
// neither its initializer nor its registration ran
func NewMarkerError(concrete string, cause error) *RegistrationError {
	return &RegistrationError{
		BaseError: Wrapf(RegistrationErrorCode, cause, "marker registration of '%s' failed: marker could not be resolved", concrete),
		Strategy:  "marker",
		Concrete:  concrete,
	}
}

// WithOrigin adds origin information to the error
func (e *RegistrationError) WithOrigin(o Origin) *RegistrationError {
	e.BaseError.WithOrigin(o)
	return e
}

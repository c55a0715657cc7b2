package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityFatal,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithCause sets the wrapped error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// WithPath is shorthand for WithContext(ContextPath, path).
func (b *ErrorBuilder) WithPath(path string) *ErrorBuilder {
	return b.WithContext(ContextPath, path)
}

// WithLine records a 1-based line number. Non-positive lines are ignored.
func (b *ErrorBuilder) WithLine(line int) *ErrorBuilder {
	if line <= 0 {
		return b
	}
	return b.WithContext(ContextLine, line)
}

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for the pipeline's error taxonomy.

// ConfigError creates a configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message)
}

// ValidationError creates a validation error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message)
}

// ManifestError creates a manifest error.
func ManifestError(message string) *ErrorBuilder {
	return NewError(CategoryManifest, message)
}

// MissingFragment reports a manifest entry whose fragment file does not exist.
func MissingFragment(path string) *ErrorBuilder {
	return NewError(CategoryFragment, "fragment file does not exist").
		WithPath(path).
		WithContext(ContextKind, "missing")
}

// MalformedFragment reports a fragment without a parsable title or summary boundary.
func MalformedFragment(path, reason string) *ErrorBuilder {
	return NewError(CategoryFragment, "malformed fragment: "+reason).
		WithPath(path).
		WithContext(ContextKind, "malformed").
		WithContext(ContextReason, reason)
}

// MarkerError reports a problem with a named marker region.
func MarkerError(kind, region string, line int) *ErrorBuilder {
	return NewError(CategoryMarker, "marker error ("+kind+") in region "+region).
		WithContext(ContextKind, kind).
		WithContext(ContextRegion, region).
		WithLine(line)
}

// DriftDetected reports that the committed index differs from generated output.
func DriftDetected(path string) *ErrorBuilder {
	return NewError(CategoryDrift, "index document is out of date; run generate").
		WithPath(path)
}

// FileSystemError creates a filesystem error.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

// GitError creates a git operation error.
func GitError(message string) *ErrorBuilder {
	return NewError(CategoryGit, message)
}

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message)
}

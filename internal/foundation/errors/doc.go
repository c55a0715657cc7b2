// Package errors provides the classified error primitives used across faqindex.
//
// Every failure the pipeline can produce is a ClassifiedError carrying a
// category, a severity and structured context (path, line, region, kind).
// The category drives the CLI exit code; the context makes every error
// addressable to a file and line.
//
// Key features:
//   - ErrorCategory: broad classification (config, manifest, fragment, marker, drift, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and user-facing formatting
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryFragment, "summary heading not found").
//		WithContext(errors.ContextPath, path).
//		WithCause(readErr).
//		Build()
package errors

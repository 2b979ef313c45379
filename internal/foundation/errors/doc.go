// Package errors provides the classified error type used across blogbuilder.
//
// Every failure in a build is fatal, but callers still need to know what kind
// of failure it was: a bad configuration file, a post whose front matter could
// not be read, a template that failed to execute, or a write that the
// filesystem rejected. ClassifiedError carries that category together with
// structured context (paths, slugs) so the CLI can pick an exit code and the
// logger can emit useful attributes.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryContent, "parse front matter").
//		WithContext("path", path).
//		Build()
package errors

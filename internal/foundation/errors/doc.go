// Package errors provides the classified error primitives used across weeklysync.
//
// Every pipeline stage reports failures as a ClassifiedError so the CLI can pick
// an exit code and a log level without string matching:
//
//   - CategoryNetwork: the remote document could not be fetched (FetchError)
//   - CategoryFileSystem: a local read or write failed (IOError)
//   - CategoryConfig / CategoryValidation: bad configuration or a malformed data file
//   - CategoryRuntime / CategoryInternal: cancellation and programming errors
//
// Example usage:
//
//	err := errors.FetchError("unexpected HTTP status").
//		WithContext("url", sourceURL).
//		WithContext("status_code", resp.StatusCode).
//		Build()
package errors

// Package errs provides standardized error types for the order tracking application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for the scenarios the order lifecycle can hit:
//   - ValueIsRequiredError / ValueIsInvalidError / ValueIsOutOfRangeError: input defects
//   - ObjectNotFoundError: unknown order ID
//   - InvalidTransitionError: status change that violates the lifecycle graph
//   - ConflictError: optimistic compare-and-update lost a race (may be transient)
//   - DuplicateKeyError: ID collision on create (indicates an ID-generation defect)
//   - StoreUnavailableError: persistence substrate unreachable or timed out
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrConflict)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is can classify against the sentinel
//
// Callers classify errors with errors.Is against the sentinels; the HTTP layer
// maps each category to a response status, and the background advancer uses the
// classification to decide which per-order failures are expected races.
package errs

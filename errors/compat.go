package errors

import baseErrors "errors"

// These functions mirror the standard library so that callers don't need to
// import both packages.

// Is detects whether the error is equal to a given error, unwrapping as
// needed.
func Is(e error, original error) bool {
	return baseErrors.Is(e, original)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return baseErrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return baseErrors.Unwrap(err)
}

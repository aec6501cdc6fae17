/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuer

import "fmt"

// ValidationError reports the first missing request field. It is the only
// issuance error whose description reaches the caller.
type ValidationError struct {
	field string
}

// NewValidationError returns a validation error for the given field.
func NewValidationError(field string) *ValidationError {
	return &ValidationError{field: field}
}

// Field is the name of the missing field.
func (e *ValidationError) Field() string {
	return e.field
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field %q", e.field)
}

// NonceError indicates that the client nonce failed the ownership/anti-replay
// check.
type NonceError struct {
	msg string
}

// NewNonceError returns a nonce error.
func NewNonceError(msg string) *NonceError {
	return &NonceError{msg: msg}
}

// Error returns the error string.
func (e *NonceError) Error() string {
	return "nonce verification: " + e.msg
}

// DecryptionError indicates a missing or invalid keyring entry, or a field
// value that could not be decrypted with the revealed key.
type DecryptionError struct {
	msg string
}

// NewDecryptionError returns a decryption error.
func NewDecryptionError(format string, args ...interface{}) *DecryptionError {
	return &DecryptionError{msg: fmt.Sprintf(format, args...)}
}

// Error returns the error string.
func (e *DecryptionError) Error() string {
	return "field decryption: " + e.msg
}

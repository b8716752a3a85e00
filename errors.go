package sosumi

import (
	"errors"
	"fmt"
)

// Application error codes. Every policy and pipeline outcome surfaces as
// one of these stable, machine-readable kinds.
const (
	EINTERNAL       = "internal"             // unexpected failure
	EINVALID        = "invalid_url"          // malformed URL, control characters, bad encoding
	ESCHEME         = "unsupported_scheme"   // anything other than https
	ECREDENTIALS    = "credentialed_url"     // embedded userinfo
	EFRAGMENT       = "fragment_unsupported" // non-empty fragment
	EHOSTBLOCKED    = "host_blocked"         // blocklist match
	ENOTALLOWLISTED = "host_not_allowlisted" // allowlist in effect, host absent
	EPRIVATEHOST    = "private_host_blocked" // loopback/private/link-local host
	EROBOTSDENIED   = "robots_denied"        // robots policy denies the path
	EACCESSDENIED   = "access_denied"        // upstream opted out via X-Robots-Tag
	ENOTFOUND       = "not_found"            // upstream 404
	EUNAVAILABLE    = "fetch_failure"        // any other upstream failure
)

// Error is an application error with a machine-readable code and a
// human-readable message.
type Error struct {
	// Code is one of the constants above.
	Code string

	// Message is safe to show to an end user.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("sosumi error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an error to its application code. It returns the empty
// string for nil errors and EINTERNAL for errors without a code.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an error to its user-facing message. It returns the
// empty string for nil errors and a generic message for errors without one.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf constructs an *Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

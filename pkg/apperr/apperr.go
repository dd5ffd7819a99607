// Package apperr classifies domain errors so the transport layer can map them
// to responses without knowing every sentinel.
package apperr

import "errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindConfiguration
	KindUnauthorized
	KindForbidden
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindConfiguration:
		return "configuration_error"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal_error"
	}
}

// Error is a classified error. Code is a stable snake_case identifier.
type Error struct {
	Kind Kind
	Code string
}

func (e *Error) Error() string { return e.Code }

func Validation(code string) *Error    { return &Error{Kind: KindValidation, Code: code} }
func NotFound(code string) *Error      { return &Error{Kind: KindNotFound, Code: code} }
func Conflict(code string) *Error      { return &Error{Kind: KindConflict, Code: code} }
func Configuration(code string) *Error { return &Error{Kind: KindConfiguration, Code: code} }
func Unauthorized(code string) *Error  { return &Error{Kind: KindUnauthorized, Code: code} }
func Forbidden(code string) *Error     { return &Error{Kind: KindForbidden, Code: code} }
func RateLimited(code string) *Error   { return &Error{Kind: KindRateLimited, Code: code} }

// KindOf reports the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf returns the code of the first classified error in err's chain.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsValidation(err error) bool    { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool      { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool      { return KindOf(err) == KindConflict }
func IsConfiguration(err error) bool { return KindOf(err) == KindConfiguration }
func IsRateLimited(err error) bool   { return KindOf(err) == KindRateLimited }

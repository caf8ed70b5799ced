// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package photometa

import (
	"errors"
	"fmt"
)

// ErrNoLocation is returned when an image carries no GPS information at all. It is
// an expected outcome, not a decode failure.
var ErrNoLocation = errors.New("no location metadata")

// ErrorKind classifies a decode failure.
type ErrorKind int

const (
	// KindUnexpected covers anything that is not one of the specific kinds below.
	KindUnexpected ErrorKind = iota
	// KindMissingField a required GPS tag is absent.
	KindMissingField
	// KindMalformedRational a rational is not a 3 element list or has a zero denominator.
	KindMalformedRational
	// KindOutOfRange the decoded coordinate is outside of the WGS84 domain.
	KindOutOfRange
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingField:
		return "missing field"
	case KindMalformedRational:
		return "malformed rational"
	case KindOutOfRange:
		return "out of range"
	default:
		return "unexpected error"
	}
}

// DecodeError is a failure to turn image metadata into a coordinate.
type DecodeError struct {
	Kind  ErrorKind
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	msg := e.Kind.String()
	if e.Field != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Field)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a *DecodeError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return decErr.Kind == kind
	}

	return false
}

func missingField(field string, err error) *DecodeError {
	return &DecodeError{Kind: KindMissingField, Field: field, Err: err}
}

func malformed(field string, err error) *DecodeError {
	return &DecodeError{Kind: KindMalformedRational, Field: field, Err: err}
}

func unexpected(err error) *DecodeError {
	return &DecodeError{Kind: KindUnexpected, Err: err}
}

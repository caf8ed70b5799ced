// Copyright 2026 The Landmarks Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type errorCheckTestCase struct {
	name string
	err  error
	want bool
}

func runErrorCheckTest(t *testing.T, tests []errorCheckTestCase, checkFunc func(error) bool) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkFunc(tt.err))
		})
	}
}

func TestIsRateLimitError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{name: "typed", err: &GeocodingError{Type: ErrorTypeRateLimit}, want: true},
		{name: "wrapped typed", err: fmt.Errorf("resolving: %w", &GeocodingError{Type: ErrorTypeRateLimit}), want: true},
		{name: "message", err: errors.New("too many requests"), want: true},
		{name: "status code in message", err: errors.New("nominatim returned status 429"), want: true},
		{name: "other type", err: &GeocodingError{Type: ErrorTypeNotFound}, want: false},
		{name: "unrelated", err: errors.New("disk full"), want: false},
	}, IsRateLimitError)
}

func TestIsQuotaExceededError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{name: "typed", err: &GeocodingError{Type: ErrorTypeQuotaExceeded}, want: true},
		{name: "google status", err: errors.New("google maps status: OVER_QUERY_LIMIT"), want: true},
		{name: "other type", err: &GeocodingError{Type: ErrorTypeRateLimit}, want: false},
		{name: "unrelated", err: errors.New("disk full"), want: false},
	}, IsQuotaExceededError)
}

func TestIsTimeoutError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{name: "typed", err: &GeocodingError{Type: ErrorTypeTimeout}, want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "other type", err: &GeocodingError{Type: ErrorTypeNotFound, Message: "nothing"}, want: false},
		{name: "unrelated", err: errors.New("disk full"), want: false},
	}, IsTimeoutError)
}

func TestIsNotFoundError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{name: "typed", err: &GeocodingError{Type: ErrorTypeNotFound}, want: true},
		{name: "untyped message", err: errors.New("not found"), want: false},
		{name: "other type", err: &GeocodingError{Type: ErrorTypeMalformed}, want: false},
	}, IsNotFoundError)
}

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		statusCode int
		wantType   ErrorType
	}{
		{429, ErrorTypeRateLimit},
		{403, ErrorTypeQuotaExceeded},
		{400, ErrorTypeInvalidRequest},
		{404, ErrorTypeNotFound},
		{502, ErrorTypeNetworkError},
		{503, ErrorTypeNetworkError},
		{504, ErrorTypeNetworkError},
		{500, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.statusCode), func(t *testing.T) {
			assert.Equal(t, tt.wantType, ClassifyHTTPError(tt.statusCode, "").Type)
		})
	}
}

func TestClassifyTransportError(t *testing.T) {
	err := classifyTransportError("nominatim", fmt.Errorf("Get: %w", context.DeadlineExceeded))
	assert.Equal(t, ErrorTypeTimeout, err.Type)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	err = classifyTransportError("nominatim", errors.New("connection refused"))
	assert.Equal(t, ErrorTypeNetworkError, err.Type)
	assert.Equal(t, "nominatim: request failed: connection refused", err.Error())
}

func TestGeocodingErrorUnwrap(t *testing.T) {
	innerErr := errors.New("inner error")
	geoErr := &GeocodingError{Type: ErrorTypeNotFound, Message: "location not found", Err: innerErr}

	assert.ErrorIs(t, geoErr, innerErr)
	assert.Equal(t, ErrorTypeNotFound, ErrorTypeOf(fmt.Errorf("wrapped: %w", geoErr)))
	assert.Equal(t, ErrorTypeUnknown, ErrorTypeOf(innerErr))
	assert.Equal(t, "not_found", ErrorTypeNotFound.String())
}

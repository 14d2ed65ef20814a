// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api is the typed client for the Wavy backend REST API. It owns
// request building, auth headers, error decoding and the read retry policy.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Kind classifies a backend failure so callers can branch without
// inspecting status codes.
type Kind string

// Error kinds.
const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindServer       Kind = "server"
	KindUnavailable  Kind = "unavailable"
)

// Error is a failure reported by the backend (or the transport in front of
// it). Message and Details carry the backend's wording verbatim so the UI
// can surface it unchanged.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Details)
	}
	return e.Message
}

// kindFromStatus maps an HTTP status to an error kind.
func kindFromStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindUnavailable
	default:
		return KindServer
	}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// decodeError converts a non-2xx response into an *Error. Bodies that are
// not the expected envelope still produce a usable error.
func decodeError(resp *http.Response) *Error {
	apiErr := &Error{
		Kind:    kindFromStatus(resp.StatusCode),
		Status:  resp.StatusCode,
		Message: "Unknown error occurred",
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Message != "" {
		apiErr.Message = eb.Message
		apiErr.Details = eb.Details
	}

	return apiErr
}

// IsNotFound reports whether err is a backend not-found error.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}

// IsUnauthorized reports whether err is a backend authentication failure.
// Any operation that sees one must tear down the local session.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindUnauthorized
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package apperr defines the sentinel errors shared across the conversion
// pipeline. Callers classify failures with errors.Is and wrap these
// sentinels with context via fmt.Errorf("...: %w", ...).
package apperr

import "errors"

var (
	// ErrValidation marks a job rejected before any stage ran.
	ErrValidation = errors.New("validation failed")

	// ErrConverterNotFound marks a missing or unset pandoc binary.
	ErrConverterNotFound = errors.New("converter not found")

	// ErrCredentialsMissing marks unset endpoint, key, or deployment
	// settings for a managed API.
	ErrCredentialsMissing = errors.New("credentials missing")

	// ErrConversionFailed marks an external tool or API that ran but
	// returned an error.
	ErrConversionFailed = errors.New("conversion failed")

	// ErrNetwork marks a transport-level failure reaching a remote API.
	ErrNetwork = errors.New("network error")

	// ErrEmptyResponse marks a model response with no usable content.
	ErrEmptyResponse = errors.New("empty response")

	// ErrConfigUnreadable marks a settings file that is missing, corrupt,
	// or fails authenticated decryption. Callers fall back to defaults.
	ErrConfigUnreadable = errors.New("config unreadable")

	// ErrConfigWrite marks a settings file that could not be persisted.
	ErrConfigWrite = errors.New("config write failed")

	// ErrBusy marks a conversion request submitted while another job is
	// still in flight.
	ErrBusy = errors.New("conversion already in progress")
)

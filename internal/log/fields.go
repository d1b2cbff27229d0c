// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldJobID     = "job_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Census fields
	FieldDataset = "dataset"
	FieldYear    = "year"
	FieldGroup   = "group"
	FieldState   = "state"
	FieldSector  = "sector"

	// Path / URL fields
	FieldPath    = "path"
	FieldBaseURL = "base_url"
)

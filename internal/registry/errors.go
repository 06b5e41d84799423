package registry

import "errors"

// Sentinel errors surfaced by registry operations (spec.md §4.2, §7).
var (
	// ErrNeedsConfirmation is returned by Attest when the requested change
	// raises trust_level over an existing active record without force.
	ErrNeedsConfirmation = errors.New("REG_NEEDS_CONFIRMATION: raising trust level requires force")

	// ErrInvalidMatch is returned by Revoke when source, version_ref, and
	// record_key are all empty.
	ErrInvalidMatch = errors.New("REG_INVALID_MATCH: revoke requires at least one of source, version_ref, record_key")

	// ErrNotFound is returned by Revoke when the match selects no record.
	ErrNotFound = errors.New("REG_NOT_FOUND: no matching record")
)

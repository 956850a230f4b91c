// Package clockerr defines the typed, coded errors shared by every reclock
// package. All chain and vector operations that can fail return one of the
// sentinels declared here (or a value built from one via AddDetails),
// wrapped with tracerr so failures carry a stack trace in test output.
package clockerr

import (
	"errors"
	"fmt"

	"github.com/ztrue/tracerr"
)

// ClockError is a coded error value. Two ClockErrors are Is-equal when their
// Code matches, regardless of Details, so callers can assert on a sentinel
// even after AddDetails has been called.
type ClockError struct {
	Code        string
	Description string
	Details     string
}

var knownCodes = map[string]struct{}{}

// New registers a new error code and returns the sentinel value for it.
// It panics on a duplicate code, which is a programming error caught at
// package init time rather than at runtime.
func New(code string, description string) ClockError {
	if _, exists := knownCodes[code]; exists {
		panic("clockerr: duplicate error code: " + code)
	}
	knownCodes[code] = struct{}{}
	return ClockError{Code: code, Description: description}
}

func (err ClockError) Error() string {
	text := err.Code
	if err.Description != "" {
		text += " - " + err.Description
	}
	if err.Details != "" {
		text += " : " + err.Details
	}
	return text
}

func (err ClockError) Is(target error) bool {
	var other ClockError
	if errors.As(target, &other) {
		return other.Code == err.Code
	}
	return false
}

// AddDetails returns a copy of err with Details set. It never mutates err,
// so the package-level sentinel stays usable with errors.Is after this call.
func (err ClockError) AddDetails(format string, args ...any) ClockError {
	newErr := err
	newErr.Details = fmt.Sprintf(format, args...)
	return newErr
}

// Wrap is a thin alias over tracerr.Wrap, kept here so call sites only need
// to import this package for both the sentinel and the wrapping helper.
func Wrap(err error) error {
	return tracerr.Wrap(err)
}

// Error kinds, matching spec.md §7.
var (
	// ErrInvalidArgument-family: negative lifetime, zero-length node id,
	// mismatched uuids map, attempt to set up a clock twice.
	ErrNegativeLifetime     = New("RECLOCK_NEGATIVE_LIFETIME", "lifetime must be >= 0")
	ErrAlreadySetUp         = New("RECLOCK_ALREADY_SET_UP", "clock has already been set up")
	ErrEmptyNodeID          = New("RECLOCK_EMPTY_NODE_ID", "node id must not be empty")
	ErrDuplicateNodeID      = New("RECLOCK_DUPLICATE_NODE_ID", "node id is not unique within this vector")
	ErrMismatchedUUIDsMap   = New("RECLOCK_MISMATCHED_UUIDS_MAP", "uuids map references a node id not in this vector")
	ErrEmptyMessage         = New("RECLOCK_EMPTY_MESSAGE", "message must not be empty")
	ErrTimeExceedsLifetime  = New("RECLOCK_TIME_EXCEEDS_LIFETIME", "time must be <= lifetime")
	ErrNotYetSetUp          = New("RECLOCK_NOT_YET_SET_UP", "clock has not been set up")
	ErrInvalidSeedSize      = New("RECLOCK_INVALID_SEED_SIZE", "seed size must be > 0")

	// InvalidUpdate: certificate fails chain verification, time is not
	// strictly greater than current, or time exceeds lifetime.
	ErrUpdateNotStrictlyLater = New("RECLOCK_UPDATE_NOT_STRICTLY_LATER", "update time must be strictly greater than the current time")
	ErrChainMismatch          = New("RECLOCK_CHAIN_MISMATCH", "certificate does not verify against the current chain state")
	ErrMalformedCertificate   = New("RECLOCK_MALFORMED_CERTIFICATE", "certificate is malformed")

	// InvalidSignature: a point-clock certificate's signature does not
	// verify against the claimed point and message.
	ErrInvalidSignature = New("RECLOCK_INVALID_SIGNATURE", "signature does not verify for the given point and message")

	// UnknownNode: a vector update references a node id not in the vector.
	ErrUnknownNode = New("RECLOCK_UNKNOWN_NODE", "node id is not part of this vector clock")

	// BadFormat: pack/unpack failure.
	ErrBadFormat    = New("RECLOCK_BAD_FORMAT", "malformed or truncated wire data")
	ErrWrongTag     = New("RECLOCK_WRONG_TAG", "wire data has an unexpected type tag")
	ErrTruncated    = New("RECLOCK_TRUNCATED", "wire data is truncated")
)

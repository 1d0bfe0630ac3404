package apperror

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP status codes;
// everything else surfaces as a 500.
var (
	// ErrNotFound means the referenced requisition/stock request does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition means the action is not permitted from the record's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrThresholdExceeded means an admin approval was attempted on an amount above the
	// threshold snapshotted on the requisition.
	ErrThresholdExceeded = errors.New("amount exceeds admin approval threshold")

	// ErrNotApproved means payment was attempted on a requisition that is not in an
	// approved state.
	ErrNotApproved = errors.New("requisition not approved for payment")

	// ErrNotACustomerDelivery means dispatch was attempted on a branch-to-branch transfer.
	ErrNotACustomerDelivery = errors.New("request is not a customer delivery")

	// ErrConflict means the record changed between read and write (version mismatch).
	ErrConflict = errors.New("record was modified concurrently")
)

package core

import "errors"

// Sentinel errors for the payment domain. Services wrap these with
// context via fmt.Errorf("...: %w", err); adapters map them to
// transport codes with errors.Is.
var (
	// ErrValidation marks malformed input rejected before any record
	// is created.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing record.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks a caller whose role grants no access to the
	// requested records.
	ErrForbidden = errors.New("access denied")

	// ErrUnauthorized marks a missing or invalid credential.
	ErrUnauthorized = errors.New("invalid credentials")

	// ErrGatewayUnavailable marks a network failure or timeout talking
	// to the payment gateway. The payment record stays pending.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrGatewayRejected marks an active refusal by the payment
	// gateway. The payment record stays pending.
	ErrGatewayRejected = errors.New("payment gateway rejected request")

	// ErrAlreadyProcessed marks a payment already in a terminal state.
	ErrAlreadyProcessed = errors.New("payment already processed")

	// ErrDuplicateEntry marks a uniqueness violation in the store.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

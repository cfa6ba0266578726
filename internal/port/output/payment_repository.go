package output

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentflow/payment-gateway/internal/core"
)

// PaymentRepository is an output port (secondary port) for payment data access
// Secondary adapters (database implementations) will implement this
type PaymentRepository interface {
	// Create creates a new payment
	Create(ctx context.Context, payment *core.Payment) error

	// GetByID retrieves a payment by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*core.Payment, error)

	// GetByCheckoutRequestID resolves a payment by the gateway's
	// correlation token. Returns core.ErrNotFound when no payment
	// carries the token.
	GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*core.Payment, error)

	// AttachCheckoutRequestID persists the gateway correlation token
	// onto a payment that does not yet have one. The token is unique
	// across all payments.
	AttachCheckoutRequestID(ctx context.Context, id uuid.UUID, checkoutRequestID string) error

	// SettleIfPending applies a terminal status to the payment carrying
	// checkoutRequestID, conditioned on its status still being pending
	// at write time. Returns true when this call won the conditional
	// write, false when the payment was already terminal.
	SettleIfPending(ctx context.Context, checkoutRequestID string, status core.PaymentStatus, resultCode int, resultDescription string) (bool, error)

	// List returns payments visible under the scope, newest first.
	List(ctx context.Context, scope core.AccessScope) ([]*core.Payment, error)

	// ListStalePending returns mpesa payments still pending since
	// before the cutoff; these need operator reconciliation.
	ListStalePending(ctx context.Context, cutoff time.Time) ([]*core.Payment, error)
}

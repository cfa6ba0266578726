package input

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentflow/payment-gateway/internal/core"
)

// PaymentService is an input port (primary port) for payment operations
// Primary adapters (HTTP handlers) will use this
type PaymentService interface {
	// InitiatePayment creates a pending rent payment and pushes it to
	// the gateway. On gateway failure the payment stays pending with
	// no correlation token and the error is returned; re-initiation is
	// the caller's decision, never an implicit retry.
	InitiatePayment(ctx context.Context, req InitiatePaymentRequest) (*PaymentResponse, error)

	// CreateManualPayment records a cash or bank payment, created
	// directly in completed status.
	CreateManualPayment(ctx context.Context, req ManualPaymentRequest) (*PaymentResponse, error)

	// ListPayments returns the payments visible to the principal,
	// newest first.
	ListPayments(ctx context.Context, principal core.Principal) ([]*PaymentResponse, error)

	// GetPayment retrieves one payment, enforcing the caller's
	// visibility the same way listing does.
	GetPayment(ctx context.Context, principal core.Principal, id uuid.UUID) (*PaymentResponse, error)
}

// CallbackOutcome classifies how a gateway notification was handled.
type CallbackOutcome string

const (
	// CallbackApplied means this delivery won the conditional terminal
	// write.
	CallbackApplied CallbackOutcome = "applied"
	// CallbackDuplicate means the payment was already terminal, or a
	// concurrent delivery won the write first.
	CallbackDuplicate CallbackOutcome = "duplicate"
	// CallbackUnmatched means no payment carries the token.
	CallbackUnmatched CallbackOutcome = "unmatched"
)

// CallbackReconciler is an input port for the gateway's asynchronous
// result notifications.
type CallbackReconciler interface {
	// HandleCallback resolves the notification to a payment and applies
	// at most one terminal transition. It only errors when the store
	// write fails; unmatched and duplicate deliveries are acknowledged
	// outcomes, not errors, so the notifier never retries them.
	HandleCallback(ctx context.Context, req CallbackRequest) (CallbackOutcome, error)
}

// InitiatePaymentRequest represents a tenant's request to pay rent via
// the gateway.
type InitiatePaymentRequest struct {
	UserID uuid.UUID
	Amount float64
	Phone  string
}

// ManualPaymentRequest represents a staff-entered cash or bank payment.
type ManualPaymentRequest struct {
	TenantID uuid.UUID
	Amount   float64
	Method   core.PaymentMethod
}

// CallbackRequest carries the gateway notification fields the
// reconciler needs.
type CallbackRequest struct {
	CheckoutRequestID string
	ResultCode        int
	ResultDescription string
}

// PaymentResponse represents the response for a payment
type PaymentResponse struct {
	ID                uuid.UUID
	TenantID          uuid.UUID
	Amount            float64
	Method            core.PaymentMethod
	Status            core.PaymentStatus
	CheckoutRequestID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

package core

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodMpesa PaymentMethod = "mpesa"
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodBank  PaymentMethod = "bank"
)

// ResultCodeSuccess is the gateway result code for a successful push payment.
const ResultCodeSuccess = 0

// Payment represents a rent payment domain entity.
//
// An mpesa payment starts pending and reaches exactly one of
// completed/failed when the gateway callback for its checkout request
// is reconciled. Cash and bank entries are recorded already completed
// and never carry a checkout request ID.
type Payment struct {
	ID                uuid.UUID
	TenantID          uuid.UUID
	Amount            float64
	Method            PaymentMethod
	Status            PaymentStatus
	CheckoutRequestID string
	ResultCode        *int
	ResultDescription string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsPending checks if payment is in pending status
func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

// IsTerminal checks if payment is in a terminal state
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusCompleted || p.Status == PaymentStatusFailed
}

// StatusForResultCode maps a gateway result code to the terminal status
// it settles a pending payment into.
func StatusForResultCode(resultCode int) PaymentStatus {
	if resultCode == ResultCodeSuccess {
		return PaymentStatusCompleted
	}
	return PaymentStatusFailed
}

// IsManualMethod reports whether the method is entered by staff rather
// than pushed through the gateway.
func IsManualMethod(m PaymentMethod) bool {
	return m == PaymentMethodCash || m == PaymentMethodBank
}

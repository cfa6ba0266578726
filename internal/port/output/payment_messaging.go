package output

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentflow/payment-gateway/internal/core"
)

// SettlementEvent is published after a payment reaches a terminal
// state, for downstream consumers (receipting, notifications).
type SettlementEvent struct {
	PaymentID         uuid.UUID          `json:"payment_id"`
	TenantID          uuid.UUID          `json:"tenant_id"`
	Amount            float64            `json:"amount"`
	Status            core.PaymentStatus `json:"status"`
	ResultCode        int                `json:"result_code"`
	ResultDescription string             `json:"result_description"`
	SettledAt         time.Time          `json:"settled_at"`
}

// PaymentMessaging is an output port (secondary port) for payment messaging
// Secondary adapters (RabbitMQ implementations) will implement this
type PaymentMessaging interface {
	// PublishSettlement publishes a settlement event. Publishing is
	// advisory: the terminal state is already durable when this runs.
	PublishSettlement(event SettlementEvent) error
	// Close closes the messaging connection
	Close() error
}

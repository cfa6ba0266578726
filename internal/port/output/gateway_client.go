package output

import "context"

// STKPushRequest carries one push-payment request to the gateway.
type STKPushRequest struct {
	Amount           float64
	Phone            string
	AccountReference string
	Description      string
}

// STKPushResult is the gateway's acknowledgment that the push was
// accepted for asynchronous processing. The final outcome arrives
// later on the callback endpoint, correlated by CheckoutRequestID.
type STKPushResult struct {
	MerchantRequestID string
	CheckoutRequestID string
}

// GatewayClient is an output port (secondary port) for the external
// payment gateway. Implementations must bound the call with a timeout;
// a timeout surfaces as core.ErrGatewayUnavailable and an active
// refusal as core.ErrGatewayRejected.
type GatewayClient interface {
	STKPush(ctx context.Context, req STKPushRequest) (*STKPushResult, error)
}

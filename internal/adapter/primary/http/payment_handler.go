package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/port/input"
)

// PaymentHandler is a primary adapter (HTTP handler)
type PaymentHandler struct {
	paymentService input.PaymentService
	reconciler     input.CallbackReconciler
	log            *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService input.PaymentService, reconciler input.CallbackReconciler, log *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		reconciler:     reconciler,
		log:            log,
	}
}

// InitiateMpesaRequest represents the HTTP request to start a gateway
// rent payment.
type InitiateMpesaRequest struct {
	Amount float64 `json:"amount"`
	Phone  string  `json:"phone"`
}

// ManualPaymentRequest represents the HTTP request to record a cash or
// bank payment.
type ManualPaymentRequest struct {
	TenantID string  `json:"tenant"`
	Amount   float64 `json:"amount"`
	Method   string  `json:"method"`
}

// PaymentResponse represents the HTTP response for a payment
type PaymentResponse struct {
	ID                string  `json:"id"`
	TenantID          string  `json:"tenant_id"`
	Amount            float64 `json:"amount"`
	Method            string  `json:"method"`
	Status            string  `json:"status"`
	CheckoutRequestID string  `json:"checkout_request_id,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// mpesaCallback mirrors the gateway's notification payload.
type mpesaCallback struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// InitiateMpesa handles a tenant's push-payment request
func (h *PaymentHandler) InitiateMpesa(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please authenticate."})
	}

	var req InitiateMpesaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	response, err := h.paymentService.InitiatePayment(c.Request().Context(), input.InitiatePaymentRequest{
		UserID: principal.UserID,
		Amount: req.Amount,
		Phone:  req.Phone,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toHTTPResponse(response))
}

// MpesaCallback handles the gateway's asynchronous result
// notification. Any structurally valid payload gets a success
// acknowledgment whether it applied, duplicated, or matched nothing;
// the notifier retries on non-success and only a failed durable write
// should trigger that.
func (h *PaymentHandler) MpesaCallback(c echo.Context) error {
	var payload mpesaCallback
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid callback payload"})
	}
	cb := payload.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "CheckoutRequestID is required"})
	}

	outcome, err := h.reconciler.HandleCallback(c.Request().Context(), input.CallbackRequest{
		CheckoutRequestID: cb.CheckoutRequestID,
		ResultCode:        cb.ResultCode,
		ResultDescription: cb.ResultDesc,
	})
	if err != nil {
		// Store write failed; a non-success status makes the notifier
		// redeliver, which is the recovery path.
		h.log.WithField("checkout_request_id", cb.CheckoutRequestID).WithError(err).Error("callback processing failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Callback processing failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Callback received",
		"outcome": string(outcome),
	})
}

// CreateManualPayment handles staff entry of cash and bank payments
func (h *PaymentHandler) CreateManualPayment(c echo.Context) error {
	var req ManualPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid tenant ID"})
	}

	response, err := h.paymentService.CreateManualPayment(c.Request().Context(), input.ManualPaymentRequest{
		TenantID: tenantID,
		Amount:   req.Amount,
		Method:   core.PaymentMethod(req.Method),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toHTTPResponse(response))
}

// ListPayments handles role-scoped payment listing
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please authenticate."})
	}

	responses, err := h.paymentService.ListPayments(c.Request().Context(), principal)
	if err != nil {
		return writeError(c, err)
	}
	httpResponses := make([]PaymentResponse, 0, len(responses))
	for _, r := range responses {
		httpResponses = append(httpResponses, toHTTPResponse(r))
	}
	return c.JSON(http.StatusOK, httpResponses)
}

// GetPayment handles payment retrieval by ID
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please authenticate."})
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid payment ID"})
	}
	response, err := h.paymentService.GetPayment(c.Request().Context(), principal, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toHTTPResponse(response))
}

func toHTTPResponse(r *input.PaymentResponse) PaymentResponse {
	return PaymentResponse{
		ID:                r.ID.String(),
		TenantID:          r.TenantID.String(),
		Amount:            r.Amount,
		Method:            string(r.Method),
		Status:            string(r.Status),
		CheckoutRequestID: r.CheckoutRequestID,
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         r.UpdatedAt.Format(time.RFC3339),
	}
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/metrics"
	"github.com/rentflow/payment-gateway/internal/port/input"
	"github.com/rentflow/payment-gateway/internal/port/output"
)

// PaymentServiceImpl implements the PaymentService input port
type PaymentServiceImpl struct {
	paymentRepo  output.PaymentRepository
	tenantRepo   output.TenantRepository
	propertyRepo output.PropertyRepository
	gateway      output.GatewayClient
	log          *logrus.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo output.PaymentRepository,
	tenantRepo output.TenantRepository,
	propertyRepo output.PropertyRepository,
	gateway output.GatewayClient,
	log *logrus.Logger,
) input.PaymentService {
	return &PaymentServiceImpl{
		paymentRepo:  paymentRepo,
		tenantRepo:   tenantRepo,
		propertyRepo: propertyRepo,
		gateway:      gateway,
		log:          log,
	}
}

// InitiatePayment creates a pending payment and pushes it to the
// gateway. The pending record exists before the gateway is called, so
// a callback can only ever race the token attach, never the create.
// One initiation makes exactly one gateway call; on failure the record
// stays pending and tokenless and the caller decides whether to retry.
func (s *PaymentServiceImpl) InitiatePayment(ctx context.Context, req input.InitiatePaymentRequest) (*input.PaymentResponse, error) {
	// Validate before any record exists.
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero: %w", core.ErrValidation)
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, fmt.Errorf("phone is required: %w", core.ErrValidation)
	}

	tenant, err := s.tenantRepo.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tenant: %w", err)
	}

	payment := &core.Payment{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		Amount:   req.Amount,
		Method:   core.PaymentMethodMpesa,
		Status:   core.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	result, err := s.gateway.STKPush(ctx, output.STKPushRequest{
		Amount:           req.Amount,
		Phone:            phone,
		AccountReference: fmt.Sprintf("RENT-%s", tenant.ID),
		Description:      "Rent Payment",
	})
	if err != nil {
		metrics.PaymentsInitiated.WithLabelValues("gateway_error").Inc()
		s.log.WithFields(logrus.Fields{
			"payment_id": payment.ID,
			"tenant_id":  tenant.ID,
		}).WithError(err).Warn("gateway push failed, payment stays pending")
		return nil, err
	}

	if err := s.paymentRepo.AttachCheckoutRequestID(ctx, payment.ID, result.CheckoutRequestID); err != nil {
		return nil, fmt.Errorf("failed to attach checkout request id: %w", err)
	}
	payment.CheckoutRequestID = result.CheckoutRequestID

	metrics.PaymentsInitiated.WithLabelValues("accepted").Inc()
	s.log.WithFields(logrus.Fields{
		"payment_id":          payment.ID,
		"checkout_request_id": result.CheckoutRequestID,
		"amount":              req.Amount,
	}).Info("payment pushed to gateway")

	return toResponse(payment), nil
}

// CreateManualPayment records a cash or bank payment. Manual entries
// are asserted complete at creation and never reconciled.
func (s *PaymentServiceImpl) CreateManualPayment(ctx context.Context, req input.ManualPaymentRequest) (*input.PaymentResponse, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero: %w", core.ErrValidation)
	}
	if !core.IsManualMethod(req.Method) {
		return nil, fmt.Errorf("method must be cash or bank: %w", core.ErrValidation)
	}
	if _, err := s.tenantRepo.GetByID(ctx, req.TenantID); err != nil {
		return nil, fmt.Errorf("failed to resolve tenant: %w", err)
	}

	payment := &core.Payment{
		ID:       uuid.New(),
		TenantID: req.TenantID,
		Amount:   req.Amount,
		Method:   req.Method,
		Status:   core.PaymentStatusCompleted,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	metrics.ManualPayments.WithLabelValues(string(req.Method)).Inc()
	s.log.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"tenant_id":  req.TenantID,
		"method":     req.Method,
	}).Info("manual payment recorded")

	return toResponse(payment), nil
}

// ListPayments returns the payments visible to the principal.
func (s *PaymentServiceImpl) ListPayments(ctx context.Context, principal core.Principal) ([]*input.PaymentResponse, error) {
	scope, err := core.ScopeForPrincipal(principal)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	responses := make([]*input.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, toResponse(p))
	}
	return responses, nil
}

// GetPayment retrieves one payment, enforcing the caller's visibility
// through the payment's lease and property.
func (s *PaymentServiceImpl) GetPayment(ctx context.Context, principal core.Principal, id uuid.UUID) (*input.PaymentResponse, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	tenant, err := s.tenantRepo.GetByID(ctx, payment.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tenant: %w", err)
	}
	switch principal.Role {
	case core.RoleAdmin:
	case core.RoleTenant:
		if tenant.UserID != principal.UserID {
			return nil, core.ErrForbidden
		}
	case core.RoleLandlord, core.RolePropertyManager:
		property, err := s.propertyRepo.GetByID(ctx, tenant.PropertyID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve property: %w", err)
		}
		if principal.Role == core.RoleLandlord && property.LandlordID != principal.UserID {
			return nil, core.ErrForbidden
		}
		if principal.Role == core.RolePropertyManager &&
			(property.ManagerID == nil || *property.ManagerID != principal.UserID) {
			return nil, core.ErrForbidden
		}
	default:
		return nil, core.ErrForbidden
	}
	return toResponse(payment), nil
}

func toResponse(p *core.Payment) *input.PaymentResponse {
	return &input.PaymentResponse{
		ID:                p.ID,
		TenantID:          p.TenantID,
		Amount:            p.Amount,
		Method:            p.Method,
		Status:            p.Status,
		CheckoutRequestID: p.CheckoutRequestID,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

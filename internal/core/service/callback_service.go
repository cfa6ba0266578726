package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/metrics"
	"github.com/rentflow/payment-gateway/internal/port/input"
	"github.com/rentflow/payment-gateway/internal/port/output"
)

// CallbackServiceImpl implements the CallbackReconciler input port.
// It is safe under concurrent invocation: the only synchronization is
// the repository's conditional write on a single payment's status, so
// duplicate deliveries for one token contend only with each other.
type CallbackServiceImpl struct {
	paymentRepo output.PaymentRepository
	messaging   output.PaymentMessaging
	log         *logrus.Logger
}

// NewCallbackService creates a new callback reconciler
func NewCallbackService(
	paymentRepo output.PaymentRepository,
	messaging output.PaymentMessaging,
	log *logrus.Logger,
) input.CallbackReconciler {
	return &CallbackServiceImpl{
		paymentRepo: paymentRepo,
		messaging:   messaging,
		log:         log,
	}
}

// HandleCallback applies the gateway's asynchronous result to the
// payment carrying the checkout request ID, at most once.
//
// Unmatched tokens are acknowledged without mutation: the notifier
// retries on non-success and an unmatched token would never converge.
// Already-terminal payments are duplicates and acknowledged as such.
// A pending payment gets a conditional terminal write; when two
// deliveries race, exactly one wins and the loser is reported as a
// duplicate. Store errors propagate so the notifier redelivers.
func (s *CallbackServiceImpl) HandleCallback(ctx context.Context, req input.CallbackRequest) (input.CallbackOutcome, error) {
	token := strings.TrimSpace(req.CheckoutRequestID)
	if token == "" {
		return "", fmt.Errorf("checkout request id is required: %w", core.ErrValidation)
	}

	fields := logrus.Fields{
		"checkout_request_id": token,
		"result_code":         req.ResultCode,
	}

	payment, err := s.paymentRepo.GetByCheckoutRequestID(ctx, token)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// A push that never attached this token, or a token attach
			// still in flight. The notifier's redelivery covers the
			// in-flight case.
			metrics.CallbacksHandled.WithLabelValues(string(input.CallbackUnmatched)).Inc()
			s.log.WithFields(fields).Warn("callback matched no payment")
			return input.CallbackUnmatched, nil
		}
		return "", fmt.Errorf("failed to resolve payment: %w", err)
	}

	fields["payment_id"] = payment.ID
	if payment.IsTerminal() {
		metrics.CallbacksHandled.WithLabelValues(string(input.CallbackDuplicate)).Inc()
		s.log.WithFields(fields).Info("duplicate callback for settled payment")
		return input.CallbackDuplicate, nil
	}

	status := core.StatusForResultCode(req.ResultCode)
	won, err := s.paymentRepo.SettleIfPending(ctx, token, status, req.ResultCode, req.ResultDescription)
	if err != nil {
		// Do not acknowledge: the notifier's retry is the recovery
		// path for a failed durable write.
		return "", fmt.Errorf("failed to settle payment: %w", err)
	}
	if !won {
		// A concurrent delivery won the conditional write.
		metrics.CallbacksHandled.WithLabelValues(string(input.CallbackDuplicate)).Inc()
		s.log.WithFields(fields).Info("lost settle race, treating as duplicate")
		return input.CallbackDuplicate, nil
	}

	metrics.CallbacksHandled.WithLabelValues(string(input.CallbackApplied)).Inc()
	s.log.WithFields(fields).WithField("status", status).Info("payment settled")

	s.publishSettlement(payment, status, req)
	return input.CallbackApplied, nil
}

// publishSettlement emits the advisory settlement event. The terminal
// state is already durable, so a publish failure is logged, not
// surfaced to the notifier.
func (s *CallbackServiceImpl) publishSettlement(payment *core.Payment, status core.PaymentStatus, req input.CallbackRequest) {
	if s.messaging == nil {
		return
	}
	event := output.SettlementEvent{
		PaymentID:         payment.ID,
		TenantID:          payment.TenantID,
		Amount:            payment.Amount,
		Status:            status,
		ResultCode:        req.ResultCode,
		ResultDescription: req.ResultDescription,
		SettledAt:         time.Now(),
	}
	if err := s.messaging.PublishSettlement(event); err != nil {
		s.log.WithField("payment_id", payment.ID).WithError(err).Error("failed to publish settlement event")
	}
}

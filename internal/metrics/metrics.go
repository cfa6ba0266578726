package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentsInitiated counts gateway push requests by result.
	PaymentsInitiated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentpay_payments_initiated_total",
		Help: "Gateway payment initiations by result",
	}, []string{"result"})

	// CallbacksHandled counts gateway callbacks by reconciliation
	// outcome (applied, duplicate, unmatched).
	CallbacksHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentpay_callbacks_handled_total",
		Help: "Gateway callbacks by reconciliation outcome",
	}, []string{"outcome"})

	// ManualPayments counts staff-entered payments by method.
	ManualPayments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentpay_manual_payments_total",
		Help: "Manual payment entries by method",
	}, []string{"method"})
)

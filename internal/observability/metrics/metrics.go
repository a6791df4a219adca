package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus instruments for the ordering domain.
type Metrics struct {
	ordersPlaced    prometheus.Counter
	stockDeductions *prometheus.CounterVec
	loyaltyAccruals prometheus.Counter
	statusChanges   *prometheus.CounterVec
}

// New registers the domain instruments on the default registry.
func New() *Metrics {
	m := &Metrics{
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brewhaus_orders_placed_total",
			Help: "Count of successfully placed orders.",
		}),
		stockDeductions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brewhaus_stock_deductions_total",
			Help: "Count of order-driven stock deductions by ingredient.",
		}, []string{"ingredient"}),
		loyaltyAccruals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brewhaus_loyalty_accruals_total",
			Help: "Count of loyalty point accruals credited to customers.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brewhaus_order_status_changes_total",
			Help: "Count of order status transitions by target status.",
		}, []string{"to_status"}),
	}
	prometheus.MustRegister(m.ordersPlaced, m.stockDeductions, m.loyaltyAccruals, m.statusChanges)
	return m
}

// RecordOrderPlaced increments the placed-order count.
func (m *Metrics) RecordOrderPlaced() {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
}

// RecordStockDeduction increments stock deduction counts per ingredient.
func (m *Metrics) RecordStockDeduction(ingredient string) {
	if m == nil {
		return
	}
	m.stockDeductions.WithLabelValues(strings.TrimSpace(ingredient)).Inc()
}

// RecordLoyaltyAccrual increments loyalty accrual counts.
func (m *Metrics) RecordLoyaltyAccrual() {
	if m == nil {
		return
	}
	m.loyaltyAccruals.Inc()
}

// RecordStatusChange increments order status transition counts.
func (m *Metrics) RecordStatusChange(to string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(strings.TrimSpace(to)).Inc()
}

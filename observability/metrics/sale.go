package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type SaleMetrics struct {
	investedTokens   prometheus.Counter
	investedCost     prometheus.Counter
	claimedTokens    prometheus.Counter
	rejections       *prometheus.CounterVec
	reserveSold      prometheus.Gauge
	reserveDelivered prometheus.Gauge
	reserveOutbound  prometheus.Gauge
}

var (
	saleOnce     sync.Once
	saleRegistry *SaleMetrics
)

func Sale() *SaleMetrics {
	saleOnce.Do(func() {
		saleRegistry = &SaleMetrics{
			investedTokens: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "sale_invested_tokens_total",
				Help: "Total tokens sold across all purchases.",
			}),
			investedCost: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "sale_invested_cost_total",
				Help: "Total cost raised across all purchases.",
			}),
			claimedTokens: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "sale_claimed_tokens_total",
				Help: "Total tokens delivered to investors.",
			}),
			rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "sale_operation_rejections_total",
				Help: "Count of rejected operations by operation and failure class.",
			}, []string{"operation", "class"}),
			reserveSold: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "sale_reserve_sold",
				Help: "Tokens currently reserved for investors.",
			}),
			reserveDelivered: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "sale_reserve_delivered",
				Help: "Tokens delivered out of the sold reservation.",
			}),
			reserveOutbound: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "sale_reserve_transferred",
				Help: "Tokens transferred out of the unsold reserve.",
			}),
		}
		prometheus.MustRegister(
			saleRegistry.investedTokens,
			saleRegistry.investedCost,
			saleRegistry.claimedTokens,
			saleRegistry.rejections,
			saleRegistry.reserveSold,
			saleRegistry.reserveDelivered,
			saleRegistry.reserveOutbound,
		)
	})
	return saleRegistry
}

func (m *SaleMetrics) RecordInvestment(tokens, cost uint64) {
	if m == nil {
		return
	}
	m.investedTokens.Add(float64(tokens))
	m.investedCost.Add(float64(cost))
}

func (m *SaleMetrics) RecordClaim(tokens uint64) {
	if m == nil {
		return
	}
	m.claimedTokens.Add(float64(tokens))
}

func (m *SaleMetrics) RecordRejection(operation, class string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(operation, class).Inc()
}

func (m *SaleMetrics) SetReserve(sold, delivered, transferred uint64) {
	if m == nil {
		return
	}
	m.reserveSold.Set(float64(sold))
	m.reserveDelivered.Set(float64(delivered))
	m.reserveOutbound.Set(float64(transferred))
}

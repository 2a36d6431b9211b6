package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the AMM module
type Metrics struct {
	SwapsTotal   *prometheus.CounterVec
	SwapVolume   *prometheus.CounterVec
	SwapLatency  prometheus.Histogram
	SwapSlippage prometheus.Histogram

	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec
	PoolReserves     *prometheus.GaugeVec
	ShareSupply      *prometheus.GaugeVec

	PoolsTotal    prometheus.Gauge
	ReserveSyncs  prometheus.Counter
	RolledBackOps *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics creates and registers AMM metrics (singleton: promauto panics on
// duplicate registration, and tests build many keepers).
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "nectar",
					Subsystem: "amm",
					Name:      "swaps_total",
					Help:      "Total number of swaps executed",
				},
				[]string{"pool_id", "direction", "status"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "nectar",
					Subsystem: "amm",
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in base units",
				},
				[]string{"pool_id", "denom"},
			),
			SwapLatency: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "nectar",
					Subsystem: "amm",
					Name:      "swap_latency_seconds",
					Help:      "Swap execution latency in seconds",
					Buckets:   prometheus.DefBuckets,
				},
			),
			SwapSlippage: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "nectar",
					Subsystem: "amm",
					Name:      "swap_slippage_percent",
					Help:      "Margin between executed output and caller minimum",
					Buckets:   []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
				},
			),
			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "nectar",
					Subsystem: "amm",
					Name:      "liquidity_added_total",
					Help:      "Total liquidity deposited in base units",
				},
				[]string{"pool_id", "denom"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "nectar",
					Subsystem: "amm",
					Name:      "liquidity_removed_total",
					Help:      "Total liquidity withdrawn in base units",
				},
				[]string{"pool_id", "denom"},
			),
			PoolReserves: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "nectar",
					Subsystem: "amm",
					Name:      "pool_reserves",
					Help:      "Recorded pool reserves in base units",
				},
				[]string{"pool_id", "denom"},
			),
			ShareSupply: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "nectar",
					Subsystem: "amm",
					Name:      "share_supply",
					Help:      "Outstanding liquidity shares per pool",
				},
				[]string{"pool_id"},
			),
			PoolsTotal: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "nectar",
					Subsystem: "amm",
					Name:      "pools_total",
					Help:      "Number of registered pools",
				},
			),
			ReserveSyncs: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "nectar",
					Subsystem: "amm",
					Name:      "reserve_syncs_total",
					Help:      "Reserve resynchronizations from ledger balances",
				},
			),
			RolledBackOps: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "nectar",
					Subsystem: "amm",
					Name:      "rolled_back_operations_total",
					Help:      "Mutating operations aborted after a collaborator failure",
				},
				[]string{"operation"},
			),
		}
	})
	return metrics
}

package metrics

import (
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "xcampaign"

	SubsystemEngine   = "engine"
	SubsystemContract = "contract"
	SubsystemLedger   = "ledger"
	SubsystemRPC      = "rpc"

	LabelContractName   = "contract_name"
	LabelContractMethod = "contract_method"
	LabelContractCode   = "contract_code"

	LabelLockType = "lock"

	LabelErrorCode = "code"

	LabelCallMethod = "method"
	LabelHTTPCode   = "code"
)

// common
var (
	// 锁
	LockCounter = prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemEngine,
			Name:      "lock_total",
			Help:      "Total number of lock.",
		},
		[]string{LabelLockType})
	// 函数调用
	CallMethodCounter = prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemRPC,
			Name:      "call_total",
			Help:      "Total number of call method.",
		},
		[]string{LabelCallMethod, LabelHTTPCode})
	CallMethodHistogram = prom.NewHistogramVec(
		prom.HistogramOpts{
			Namespace: Namespace,
			Subsystem: SubsystemRPC,
			Name:      "cost_seconds",
			Help:      "Histogram of call method cost latency.",
			Buckets:   prom.DefBuckets,
		},
		[]string{LabelCallMethod})
)

// contract
var (
	ContractInvokeCounter = prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemContract,
			Name:      "invoke_total",
			Help:      "Total number of invoke contract.",
		},
		[]string{LabelContractName, LabelContractMethod, LabelContractCode})
	ContractInvokeHistogram = prom.NewHistogramVec(
		prom.HistogramOpts{
			Namespace: Namespace,
			Subsystem: SubsystemContract,
			Name:      "invoke_seconds",
			Help:      "Histogram of invoke contract latency.",
			Buckets:   prom.DefBuckets,
		},
		[]string{LabelContractName, LabelContractMethod})
)

// ledger
var (
	LedgerConfirmTxCounter = prom.NewCounter(
		prom.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemLedger,
			Name:      "confirmed_tx_total",
			Help:      "Total number of ledger confirmed tx.",
		})
	LedgerRejectTxCounter = prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemLedger,
			Name:      "rejected_tx_total",
			Help:      "Total number of rejected tx recorded with a receipt.",
		},
		[]string{LabelErrorCode})
	LedgerEventCounter = prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemLedger,
			Name:      "event_total",
			Help:      "Total number of emitted contract events.",
		},
		[]string{LabelContractName})
	LedgerCampaignGauge = prom.NewGauge(
		prom.GaugeOpts{
			Namespace: Namespace,
			Subsystem: SubsystemLedger,
			Name:      "campaign_gauge",
			Help:      "Number of deployed campaigns.",
		})
)

var registerOnce sync.Once

// RegisterMetrics registers all collectors on the default registry, repeated calls are no-op
func RegisterMetrics() {
	registerOnce.Do(func() {
		// common
		prom.MustRegister(CallMethodCounter)
		prom.MustRegister(CallMethodHistogram)
		prom.MustRegister(LockCounter)
		// contract
		prom.MustRegister(ContractInvokeCounter)
		prom.MustRegister(ContractInvokeHistogram)
		// ledger
		prom.MustRegister(LedgerConfirmTxCounter)
		prom.MustRegister(LedgerRejectTxCounter)
		prom.MustRegister(LedgerEventCounter)
		prom.MustRegister(LedgerCampaignGauge)
	})
}

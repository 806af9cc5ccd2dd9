package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "solomachine"

// Prometheus metric labels.
const (
	// store labels

	LabelOperation = "operation"
	LabelResult    = "result"

	// signer labels

	LabelBackend     = "backend"
	LabelMessageType = "message_type"

	// ledger labels

	LabelInstruction = "instruction"
	LabelStatusWord  = "status_word"
)

// Result label values.
const (
	ResultSuccess   = "success"
	ResultDuplicate = "duplicate"
	ResultMissing   = "missing"
	ResultNotFound  = "not_found"
	ResultError     = "error"
)

var (
	// StoreOperations counts state store operations by operation and result.
	StoreOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Number of IBC state store operations.",
	}, []string{LabelOperation, LabelResult})

	// SignRequests counts signing requests by backend, message type and result.
	SignRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "signer",
		Name:      "sign_requests_total",
		Help:      "Number of signing requests.",
	}, []string{LabelBackend, LabelMessageType, LabelResult})

	// SignDuration observes the time spent producing a signature.
	SignDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "signer",
		Name:      "sign_duration_seconds",
		Help:      "Time spent producing a signature.",
		Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60},
	}, []string{LabelBackend})

	// APDUExchanges counts device command/response exchanges by instruction and status word.
	APDUExchanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "apdu_exchanges_total",
		Help:      "Number of APDU exchanges with the hardware device.",
	}, []string{LabelInstruction, LabelStatusWord})
)

// Collectors returns every collector defined by this package.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{StoreOperations, SignRequests, SignDuration, APDUExchanges}
}

// Register registers the collectors with reg. Collectors that are already
// registered are skipped.
func Register(reg prometheus.Registerer) error {
	for _, c := range Collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

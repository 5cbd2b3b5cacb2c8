package kitchen

import "expvar"

const (
	metricOrdersCompleted      = "orders_completed"
	metricOrdersExpired        = "orders_expired"
	metricInteractionsRejected = "interactions_rejected"
)

func init() {
	// Счетчики нужны и без cmd/server, например в тестах
	ensureCounter := func(name string) {
		if expvar.Get(name) == nil {
			expvar.NewInt(name)
		}
	}
	ensureCounter(metricOrdersCompleted)
	ensureCounter(metricOrdersExpired)
	ensureCounter(metricInteractionsRejected)
}

func incCounter(name string) {
	if v, ok := expvar.Get(name).(*expvar.Int); ok {
		v.Add(1)
	}
}

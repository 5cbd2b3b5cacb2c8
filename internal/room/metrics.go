package room

import "expvar"

const (
	metricRoomsActive      = "rooms_active"
	metricPlayersConnected = "players_connected"
)

func init() {
	ensureCounter := func(name string) {
		if expvar.Get(name) == nil {
			expvar.NewInt(name)
		}
	}
	ensureCounter(metricRoomsActive)
	ensureCounter(metricPlayersConnected)
}

func addGauge(name string, delta int64) {
	if v, ok := expvar.Get(name).(*expvar.Int); ok {
		v.Add(delta)
	}
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cosketch_active_rooms",
		Help: "Rooms currently open.",
	})
	ActiveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cosketch_active_clients",
		Help: "Connections currently joined to a room.",
	})
	StrokesCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cosketch_strokes_committed_total",
		Help: "Strokes appended to a room log.",
	})
	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cosketch_events_dropped_total",
		Help: "Inbound events dropped without effect.",
	}, []string{"reason"})
	BroadcastsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cosketch_broadcasts_sent_total",
		Help: "Per-recipient event deliveries fanned out to room members.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var UpdatesHandled = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cognito_updates_handled_total",
	Help: "Number of Telegram updates handled, by kind",
}, []string{"kind"})

var ModerationSettled = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cognito_moderation_settled_total",
	Help: "Number of relayed messages that reached a terminal state",
}, []string{"state"})

var PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "cognito_publish_failures_total",
	Help: "Number of failed publications into destination chats",
})

var Evictions = promauto.NewCounter(prometheus.CounterOpts{
	Name: "cognito_registry_evictions_total",
	Help: "Number of registrations removed after repeated delivery failures",
})

var PendingItems = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "cognito_pending_items",
	Help: "Number of relayed messages waiting for delay or decision",
})

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

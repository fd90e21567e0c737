// Package metrics exposes the Prometheus collectors the HTTP façade and tick
// orchestrator update, in the same promauto package-level style the stats
// domain stack uses (internal/worker/pool.go's metrics block) rather than a
// constructor-injected registry, since these collectors are process-wide
// singletons with no useful per-test instance.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gameserver_http_requests_total",
		Help: "Total HTTP requests, by method, route, and status code.",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gameserver_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gameserver_tick_duration_seconds",
		Help:    "Duration of one Application.Tick call across every session.",
		Buckets: prometheus.DefBuckets,
	})

	// ActiveSessions, ActivePlayers, PlayersRetiredTotal, and
	// LeaderboardWriteFailuresTotal are registered and exported, but no code
	// in this module updates them, so they always read zero.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gameserver_active_sessions",
		Help: "Number of game sessions currently running.",
	})

	ActivePlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gameserver_active_players",
		Help: "Number of players currently joined across every session.",
	})

	PlayersRetiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameserver_players_retired_total",
		Help: "Total players retired for inactivity.",
	})

	LeaderboardWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gameserver_leaderboard_write_failures_total",
		Help: "Total leaderboard write failures on retirement.",
	})

	SpectatorsConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gameserver_spectators_connected",
		Help: "Number of WebSocket spectator connections currently open.",
	})
)

// Handler returns the /metrics exposition endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

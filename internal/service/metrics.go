package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	activeGames = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "richman_active_games",
			Help: "Games currently registered in the manager",
		},
	)
	gamesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "richman_games_created_total",
			Help: "Games created",
		},
	)
	gamesStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "richman_games_started_total",
			Help: "Games that left the waiting phase",
		},
	)
	gamesArchived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "richman_games_archived_total",
			Help: "Game summaries written to the archive",
		},
		[]string{"reason"},
	)
	archiveFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "richman_archive_failures_total",
			Help: "Archive writes that failed",
		},
	)
	actionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "richman_player_actions_total",
			Help: "Player actions routed to engines",
		},
		[]string{"action", "result"},
	)
	actionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "richman_player_action_duration_seconds",
			Help:    "Time from routing an action to receiving its result",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "richman_events_published_total",
			Help: "Engine events published to the manager channel",
		},
		[]string{"type"},
	)
	eventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "richman_events_dropped_total",
			Help: "Engine events dropped because the channel was full",
		},
	)
	turnTimeouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "richman_turn_timeouts_total",
			Help: "Turns ended by the turn timer",
		},
	)
)

func init() {
	prometheus.MustRegister(activeGames)
	prometheus.MustRegister(gamesCreated)
	prometheus.MustRegister(gamesStarted)
	prometheus.MustRegister(gamesArchived)
	prometheus.MustRegister(archiveFailures)
	prometheus.MustRegister(actionsTotal)
	prometheus.MustRegister(actionDuration)
	prometheus.MustRegister(eventsPublished)
	prometheus.MustRegister(eventsDropped)
	prometheus.MustRegister(turnTimeouts)
}

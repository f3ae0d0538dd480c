package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_registrations_total",
		Help: "Total number of successful user registrations.",
	})

	loginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_logins_total",
		Help: "Total number of successful logins.",
	})

	choicesRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_choices_recorded_total",
			Help: "Total number of confirmed choices by moral band of their impact.",
		},
		[]string{"band"},
	)

	storiesCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_stories_completed_total",
		Help: "Total number of play-throughs that reached the story complete state.",
	})

	progressResetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_progress_resets_total",
		Help: "Total number of full progress resets.",
	})
)

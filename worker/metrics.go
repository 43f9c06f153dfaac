package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/trollsnake/engine/rules"
)

var (
	turnsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "snake",
			Subsystem: "game",
			Name:      "turns_total",
			Help:      "Turns simulated.",
		},
	)
	gamesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snake",
			Subsystem: "game",
			Name:      "games_total",
			Help:      "Games finished, by final status.",
		},
		[]string{"status"},
	)
	deathsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snake",
			Subsystem: "game",
			Name:      "deaths_total",
			Help:      "Games lost, by cause of death.",
		},
		[]string{"cause"},
	)
	foodEatenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "snake",
			Subsystem: "game",
			Name:      "food_eaten_total",
			Help:      "Food eaten, by variant.",
		},
		[]string{"type"},
	)
	scoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "snake",
			Subsystem: "game",
			Name:      "score",
			Help:      "Final score of finished games.",
			Buckets:   prometheus.LinearBuckets(0, 5, 12),
		},
	)
)

func init() {
	prometheus.MustRegister(
		turnsTotal,
		gamesTotal,
		deathsTotal,
		foodEatenTotal,
		scoreHistogram,
	)
}

// observeTick records what happened between two consecutive frames. The food
// eaten is the one that was on the board before the tick.
func observeTick(prev, cur *rules.Frame) {
	turnsTotal.Inc()
	if cur.Score > prev.Score {
		foodEatenTotal.WithLabelValues(string(prev.Food.Type)).Inc()
	}
	if cur.Death != nil && prev.Death == nil {
		deathsTotal.WithLabelValues(cur.Death.Cause).Inc()
	}
}

func observeGame(status rules.GameStatus, last *rules.Frame) {
	gamesTotal.WithLabelValues(string(status)).Inc()
	scoreHistogram.Observe(float64(last.Score))
}

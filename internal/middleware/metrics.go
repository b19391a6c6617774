package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uplift_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// SubmissionDecisions counts decision-engine outcomes.
	SubmissionDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uplift_submission_decisions_total",
		Help: "Total number of submission decisions applied, by decision",
	}, []string{"decision"})

	// FeedPages counts feed pages served by scope (global or owner).
	FeedPages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uplift_feed_pages_total",
		Help: "Total number of feed pages served, by scope",
	}, []string{"scope"})

	// StrikesIssued counts moderation strikes applied to campaign owners.
	StrikesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uplift_moderation_strikes_total",
		Help: "Total number of moderation strikes issued",
	})
)

// InitMetrics creates the Prometheus middleware registered under serviceName.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus handler as a Fiber middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

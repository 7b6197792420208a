// internal/metrics/metrics.go
package metrics

import (
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Total number of accepted quiz submissions",
		},
		[]string{"course"},
	)

	ScoreRatioHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quiz_score_ratio",
			Help:    "Distribution of score/maxScore for submissions that carry both",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
		[]string{"course"},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_login_attempts_total",
			Help: "Admin login attempts by outcome",
		},
		[]string{"outcome"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_store_errors_total",
			Help: "Record store failures that were swallowed",
		},
		[]string{"op"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)

// OtherCourse is the label for every course not listed in the config.
const OtherCourse = "other"

// CourseLabel keeps the course label set bounded: only known courses get
// their own series.
func CourseLabel(course string, known []string) string {
	if slices.Contains(known, course) {
		return course
	}
	return OtherCourse
}

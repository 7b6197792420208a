package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/shrimpsizemoose/quizdrop/internal/app"
	"github.com/shrimpsizemoose/quizdrop/internal/metrics"
)

// NewRouter binds the quiz and admin handlers and wraps them in CORS.
func NewRouter(service *app.Service) http.Handler {
	quizHandler := NewQuizHandler(service)
	adminHandler := NewAdminHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/quiz/submit", instrument("/api/quiz/submit", quizHandler.HandleSubmit))
	mux.HandleFunc("GET /api/admin/data", instrument("/api/admin/data", adminHandler.HandleData))
	mux.HandleFunc("POST /api/admin/login", instrument("/api/admin/login", adminHandler.HandleLogin))

	mux.Handle("GET /metrics", promhttp.Handler())

	return cors.New(cors.Options{
		AllowedOrigins: service.Config.Server.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"*"},
	}).Handler(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			duration := time.Since(start).Seconds()
			metrics.APIRequestDuration.WithLabelValues(
				path,
				r.Method,
				strconv.Itoa(rec.status),
			).Observe(duration)
		}()

		next(rec, r)
	}
}

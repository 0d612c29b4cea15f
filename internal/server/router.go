package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Router builds the HTTP handler for every route.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	r.HandleFunc("/accounts", s.openAccount).Methods(http.MethodPost)
	r.HandleFunc("/accounts", s.listAccounts).Methods(http.MethodGet)
	r.HandleFunc("/sessions", s.login).Methods(http.MethodPost)

	// require the X-Account-Credential header
	r.HandleFunc("/accounts/{id}", s.getAccount).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id}/history", s.history).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id}/deposit", s.deposit).Methods(http.MethodPost)
	r.HandleFunc("/accounts/{id}/withdraw", s.withdraw).Methods(http.MethodPost)
	r.HandleFunc("/transfers", s.transfer).Methods(http.MethodPost)

	r.HandleFunc("/audit/flagged", s.flagged).Methods(http.MethodGet)

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

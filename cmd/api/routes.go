package main

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"prayerchain/internal/middleware"
)

// newRouter assembles the route table. Everything under /partner and the
// account route requires a session; login and reset requests are rate
// limited per submitted email.
func newRouter(s *Server, limiter *middleware.LimiterStore) *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.Use(middleware.Session(s.jwt, s.agents, s.log))

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/agents", s.handleRegister).Methods(http.MethodPost)
	r.Handle("/login", middleware.RateLimit(limiter, "email", http.HandlerFunc(s.handleLogin))).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	r.HandleFunc("/reset", s.handleResetInfo).Methods(http.MethodGet)
	r.Handle("/reset", middleware.RateLimit(limiter, "email", http.HandlerFunc(s.handleResetRequest))).Methods(http.MethodPost)
	r.HandleFunc("/reset/{token}", s.handleResetToken).Methods(http.MethodGet)
	r.HandleFunc("/reset/{token}", s.handleResetConsume).Methods(http.MethodPut)

	// session-scoped routes: every lookup below goes through the agent
	// loaded from the session cookie, never a client-supplied agent id
	p := r.PathPrefix("/partner").Subrouter()
	p.Use(middleware.RequireAgent)
	p.HandleFunc("", s.handleCreatePartner).Methods(http.MethodPost)
	p.HandleFunc("/{id}", s.handleShowPartner).Methods(http.MethodGet)
	p.HandleFunc("/{id}", s.handleUpdatePartner).Methods(http.MethodPut)
	p.HandleFunc("/{id}", s.handleDeletePartner).Methods(http.MethodDelete)

	p.HandleFunc("/{id}/donation", s.handleAddDonation).Methods(http.MethodPost)
	p.HandleFunc("/{id}/donation/{did}", s.handleRemoveDonation).Methods(http.MethodDelete)
	p.HandleFunc("/{id}/note", s.handleAddNote).Methods(http.MethodPost)
	p.HandleFunc("/{id}/note/{nid}", s.handleRemoveNote).Methods(http.MethodDelete)
	p.HandleFunc("/{id}/prayer", s.handleAddPrayer).Methods(http.MethodPost)
	p.HandleFunc("/{id}/prayer/{nid}", s.handleRemovePrayer).Methods(http.MethodDelete)
	p.HandleFunc("/{id}/thankyou", s.handleAddThankYou).Methods(http.MethodPost)
	p.HandleFunc("/{id}/thankyou/{tid}", s.handleRemoveThankYou).Methods(http.MethodDelete)
	p.HandleFunc("/{id}/appointment", s.handleAddAppointment).Methods(http.MethodPost)
	p.HandleFunc("/{id}/appointment/{aid}", s.handleRemoveAppointment).Methods(http.MethodDelete)
	p.HandleFunc("/{id}/appointment/{aid}/note", s.handleAddAppointmentNote).Methods(http.MethodPost)
	p.HandleFunc("/{id}/appointment/{aid}/followup", s.handleAddAppointmentFollowUp).Methods(http.MethodPost)

	a := r.PathPrefix("/agent").Subrouter()
	a.Use(middleware.RequireAgent)
	a.HandleFunc("/{id}", s.handleDeleteAgent).Methods(http.MethodDelete)

	return r
}

// statusRecorder captures the response code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

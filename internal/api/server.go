package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"oncall-service-desk/internal/alerts"
	"oncall-service-desk/internal/config"
	"oncall-service-desk/internal/lifecycle"
	"oncall-service-desk/internal/models"
	"oncall-service-desk/internal/ratelimit"
	"oncall-service-desk/internal/report"
	"oncall-service-desk/internal/store"
	"oncall-service-desk/internal/telemetry"
)

// Server wires HTTP handlers for the dashboard-facing API.
type Server struct {
	cfg     config.Config
	store   *store.Store
	limiter *ratelimit.TokenBucket
	log     *slog.Logger
}

// New constructs the API server.
func New(cfg config.Config, st *store.Store, limiter *ratelimit.TokenBucket, log *slog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		store:   st,
		limiter: limiter,
		log:     log,
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Client-ID"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/metrics", telemetry.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Get("/jobs/{id}/sla", s.handleSLA)
		r.Get("/jobs/{id}/alerts/active", s.handleActiveAlerts)

		r.Get("/customers", s.handleCustomers)
		r.Get("/customers/{name}", s.handleCustomer)
		r.Get("/customers/{name}/jobs", s.handleCustomerJobs)
		r.Get("/engineers", s.handleEngineers)
		r.Get("/engineers/{name}", s.handleEngineer)
		r.Get("/reports/shift", s.handleShiftReport)

		r.Group(func(r chi.Router) {
			r.Use(s.limit)
			r.Post("/jobs", s.handleCreateJob)
			r.Put("/jobs/{id}", s.handleUpdateJob)
			r.Post("/jobs/{id}/accept", s.milestoneHandler("accept", s.store.RecordAcceptance))
			r.Post("/jobs/{id}/onsite", s.milestoneHandler("onsite", s.store.RecordOnSite))
			r.Post("/jobs/{id}/complete", s.milestoneHandler("complete", s.store.RecordCompletion))
			r.Post("/jobs/{id}/alerts", s.handleRaiseAlert)
			r.Post("/jobs/{id}/alerts/{alertID}/ack", s.handleAckAlert)
		})
	})

	return r
}

// limit applies the per-client token bucket to mutating routes.
func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil {
			allowed, _ := s.limiter.Allow(clientFromRequest(r))
			if !allowed {
				telemetry.RateLimitRejects.Inc()
				http.Error(w, "rate limited", http.StatusTooManyRequests)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var form models.JobFormData
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	job, err := s.store.CreateJob(form)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	telemetry.JobsLogged.Inc()
	s.log.Info("job logged", "job_number", job.JobNumber, "customer", job.Customer, "priority", job.Priority)
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs := s.store.ListJobs(store.ListFilter{
		Status:   q.Get("status"),
		Customer: q.Get("customer"),
		Engineer: q.Get("engineer"),
	})
	writeJSON(w, http.StatusOK, map[string]any{"items": jobs})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetJob(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var job models.Job
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	job.ID = chi.URLParam(r, "id")
	updated, err := s.store.UpdateJob(job)
	switch {
	case errors.Is(err, store.ErrJobNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, store.ErrVersionConflict):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type milestoneRequest struct {
	At *time.Time `json:"at"`
}

// milestoneHandler builds the accept/onsite/complete handlers over the
// store's transition wrappers. The timestamp defaults to server time when
// the body omits it.
func (s *Server) milestoneHandler(name string, record func(string, time.Time) (models.Job, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req milestoneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		at := time.Now()
		if req.At != nil {
			at = *req.At
		}
		job, err := record(chi.URLParam(r, "id"), at)
		switch {
		case errors.Is(err, store.ErrJobNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		case errors.Is(err, lifecycle.ErrAlreadyRecorded):
			telemetry.TransitionRejects.Inc()
			http.Error(w, err.Error(), http.StatusConflict)
			return
		case errors.Is(err, lifecycle.ErrOutOfOrderTransition):
			telemetry.TransitionRejects.Inc()
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		telemetry.MilestonesRecorded.WithLabelValues(name).Inc()
		s.log.Info("milestone recorded", "job_number", job.JobNumber, "milestone", name, "at", at)
		writeJSON(w, http.StatusOK, job)
	}
}

type slaResponse struct {
	JobID         string              `json:"job_id"`
	EvaluatedAt   time.Time           `json:"evaluated_at"`
	Report        lifecycle.SLAReport `json:"report"`
	StoredStatus  string              `json:"stored_status"`
	DerivedStatus string              `json:"derived_status"`
}

// handleSLA serves the on-demand SLA snapshot. The stored status and the
// derived status are both returned; they can diverge and the caller picks
// which one to trust.
func (s *Server) handleSLA(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetJob(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	now := time.Now()
	if v := r.URL.Query().Get("now"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "now must be RFC3339", http.StatusBadRequest)
			return
		}
		now = parsed
	}
	rep := lifecycle.EvaluateSLA(job, now)
	telemetry.SLAEvaluations.Inc()
	if rep.Any() {
		telemetry.SLABreachesSeen.Inc()
	}
	writeJSON(w, http.StatusOK, slaResponse{
		JobID:         job.ID,
		EvaluatedAt:   now,
		Report:        rep,
		StoredStatus:  job.Status,
		DerivedStatus: lifecycle.DeriveStatus(job, now),
	})
}

type raiseAlertRequest struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (s *Server) handleRaiseAlert(w http.ResponseWriter, r *http.Request) {
	var req raiseAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if !models.ValidAlertType(req.Type) {
		http.Error(w, "unknown alert type", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		req.Message = "Alert triggered for " + req.Type + " SLA"
	}
	job, err := s.store.RaiseAlert(chi.URLParam(r, "id"), req.Type, req.Message, time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	telemetry.AlertsRaised.Inc()
	s.log.Info("alert raised", "job_number", job.JobNumber, "type", req.Type, "engineer", job.Engineer)
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) handleAckAlert(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.AcknowledgeAlert(chi.URLParam(r, "id"), chi.URLParam(r, "alertID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	telemetry.AlertsAcknowledged.Inc()
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleActiveAlerts(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetJob(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	items := make([]models.Alert, 0)
	for a := range alerts.Active(job) {
		items = append(items, a)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleCustomers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": s.store.Customers()})
}

func (s *Server) handleCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := s.store.CustomerByName(nameParam(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *Server) handleCustomerJobs(w http.ResponseWriter, r *http.Request) {
	customer, err := s.store.CustomerByName(nameParam(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	jobs := s.store.ListJobs(store.ListFilter{Customer: customer.Name})
	writeJSON(w, http.StatusOK, map[string]any{"customer": customer, "items": jobs})
}

func (s *Server) handleEngineers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": s.store.Engineers()})
}

func (s *Server) handleEngineer(w http.ResponseWriter, r *http.Request) {
	engineer, err := s.store.EngineerByName(nameParam(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, engineer)
}

type shiftReportResponse struct {
	Date       string                    `json:"date"`
	Engineer   string                    `json:"engineer,omitempty"`
	Summary    report.Summary            `json:"summary"`
	ByEngineer map[string]report.Summary `json:"by_engineer"`
	ByCustomer map[string]report.Summary `json:"by_customer"`
	Jobs       []models.Job              `json:"jobs"`
}

// handleShiftReport builds the end-of-shift report for a calendar day,
// optionally narrowed to one engineer before any numbers are computed.
func (s *Server) handleShiftReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := time.Now()
	if v := q.Get("date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	jobs := report.JobsOnDate(s.store.ListJobs(store.ListFilter{}), date)
	engineer := q.Get("engineer")
	if engineer != "" {
		filtered := jobs[:0:0]
		for _, job := range jobs {
			if job.Engineer == engineer {
				filtered = append(filtered, job)
			}
		}
		jobs = filtered
	}
	if jobs == nil {
		jobs = []models.Job{}
	}

	writeJSON(w, http.StatusOK, shiftReportResponse{
		Date:       date.Format("2006-01-02"),
		Engineer:   engineer,
		Summary:    report.Summarize(jobs),
		ByEngineer: report.ByEngineer(jobs),
		ByCustomer: report.ByCustomer(jobs),
		Jobs:       jobs,
	})
}

// nameParam returns the {name} route value with percent-encoding undone,
// so "Northgate%20Retail%20Group" matches the stored name exactly.
func nameParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

func clientFromRequest(r *http.Request) string {
	if v := r.Header.Get("X-Client-ID"); v != "" {
		return v
	}
	return "default"
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

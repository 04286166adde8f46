// Package store owns the in-memory job, customer and engineer collections.
// It is the only mutation surface over the job list; the HTTP layer reads
// and writes exclusively through it. State lives for the lifetime of the
// process — durability is deliberately out of scope.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"oncall-service-desk/internal/alerts"
	"oncall-service-desk/internal/lifecycle"
	"oncall-service-desk/internal/models"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrEngineerNotFound = errors.New("engineer not found")

	// ErrVersionConflict rejects a stale full-value update. Each store
	// write bumps Job.Version; updates must carry the version they read.
	ErrVersionConflict = errors.New("job version conflict")
)

// Store holds all service-desk state behind one lock. Readers get deep
// copies; nothing outside the store can reach the live collection.
type Store struct {
	mu        sync.RWMutex
	jobs      map[string]models.Job
	order     []string // newest first, matching the dashboard's master list
	customers []models.Customer
	engineers []models.Engineer
	jobSeq    int

	defaults models.SLAConfig
	validate *validator.Validate
	now      func() time.Time
}

// New constructs an empty store. defaults fills SLA thresholds the
// creation form leaves at zero.
func New(defaults models.SLAConfig) *Store {
	return &Store{
		jobs:     make(map[string]models.Job),
		defaults: defaults,
		validate: validator.New(),
		now:      time.Now,
	}
}

// CreateJob validates the wizard form and logs a new job: fresh id and
// job number, dateLogged = now, all milestones unset, status amber.
func (s *Store) CreateJob(form models.JobFormData) (models.Job, error) {
	if err := s.validate.Struct(form); err != nil {
		return models.Job{}, fmt.Errorf("validate job form: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.jobSeq++

	sla := form.CustomAlerts
	if sla.AcceptSLA == 0 {
		sla.AcceptSLA = s.defaults.AcceptSLA
	}
	if sla.OnsiteSLA == 0 {
		sla.OnsiteSLA = s.defaults.OnsiteSLA
	}
	if sla.CompletedSLA == 0 {
		sla.CompletedSLA = s.defaults.CompletedSLA
	}

	job := models.Job{
		ID:                               uuid.New().String(),
		JobNumber:                        fmt.Sprintf("JL-%d-%04d", now.Year(), s.jobSeq),
		Version:                          1,
		Customer:                         form.Customer,
		Site:                             form.Site,
		Engineer:                         form.Engineer,
		Contact:                          form.Contact,
		Reporter:                         form.Reporter,
		Status:                           models.StatusAmber,
		Priority:                         form.Priority,
		JobType:                          form.JobType,
		Category:                         form.Category,
		DateLogged:                       now,
		Description:                      form.Description,
		TargetCompletionTime:             form.TargetCompletionTime,
		CustomAlerts:                     sla,
		PrimaryJobTrade:                  form.PrimaryJobTrade,
		SecondaryJobTrades:               form.SecondaryJobTrades,
		CustomerOrderNumber:              form.CustomerOrderNumber,
		ReferenceNumber:                  form.ReferenceNumber,
		JobOwner:                         form.JobOwner,
		Tags:                             form.Tags,
		JobRef1:                          form.JobRef1,
		JobRef2:                          form.JobRef2,
		RequiresApproval:                 form.RequiresApproval,
		PreferredAppointmentDate:         form.PreferredAppointmentDate,
		StartDate:                        form.StartDate,
		EndDate:                          form.EndDate,
		LockVisitDateTime:                form.LockVisitDateTime,
		DeployToMobile:                   form.DeployToMobile,
		IsRecurringJob:                   form.IsRecurringJob,
		CompletionTimeFromEngineerOnsite: form.CompletionTimeFromEngineerOnsite,
		Project:                          form.Project,
	}

	s.jobs[job.ID] = job
	s.order = append([]string{job.ID}, s.order...)
	return job.Clone(), nil
}

// GetJob returns a copy of the job with the given id.
func (s *Store) GetJob(id string) (models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return models.Job{}, ErrJobNotFound
	}
	return job.Clone(), nil
}

// ListFilter narrows the master job list; zero values match everything.
type ListFilter struct {
	Status   string
	Customer string
	Engineer string
}

// ListJobs returns jobs newest-first, optionally filtered.
func (s *Store) ListJobs(f ListFilter) []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Job, 0, len(s.order))
	for _, id := range s.order {
		job := s.jobs[id]
		if f.Status != "" && job.Status != f.Status {
			continue
		}
		if f.Customer != "" && job.Customer != f.Customer {
			continue
		}
		if f.Engineer != "" && job.Engineer != f.Engineer {
			continue
		}
		out = append(out, job.Clone())
	}
	return out
}

// UpdateJob replaces the stored job keyed by id with the edited value.
// The incoming version must match the stored one; the write bumps it.
func (s *Store) UpdateJob(job models.Job) (models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.jobs[job.ID]
	if !ok {
		return models.Job{}, ErrJobNotFound
	}
	if job.Version != current.Version {
		return models.Job{}, ErrVersionConflict
	}
	next := job.Clone()
	next.Version = current.Version + 1
	s.jobs[job.ID] = next
	return next.Clone(), nil
}

// recordMilestone applies one of the lifecycle transitions and serializes
// the result back into the collection. The job is untouched when the
// transition fails.
func (s *Store) recordMilestone(id string, transition func(models.Job, time.Time) (models.Job, error), at time.Time) (models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.jobs[id]
	if !ok {
		return models.Job{}, ErrJobNotFound
	}
	next, err := transition(current, at)
	if err != nil {
		return current.Clone(), err
	}
	next.Version = current.Version + 1
	s.jobs[id] = next
	return next.Clone(), nil
}

// RecordAcceptance marks the job accepted at the given instant.
func (s *Store) RecordAcceptance(id string, at time.Time) (models.Job, error) {
	return s.recordMilestone(id, lifecycle.RecordAcceptance, at)
}

// RecordOnSite marks the engineer on site at the given instant.
func (s *Store) RecordOnSite(id string, at time.Time) (models.Job, error) {
	return s.recordMilestone(id, lifecycle.RecordOnSite, at)
}

// RecordCompletion marks the job completed at the given instant.
func (s *Store) RecordCompletion(id string, at time.Time) (models.Job, error) {
	return s.recordMilestone(id, lifecycle.RecordCompletion, at)
}

// RaiseAlert appends an alert to the job's ledger.
func (s *Store) RaiseAlert(id, alertType, message string, at time.Time) (models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.jobs[id]
	if !ok {
		return models.Job{}, ErrJobNotFound
	}
	next := alerts.Raise(current, alertType, message, at)
	next.Version = current.Version + 1
	s.jobs[id] = next
	return next.Clone(), nil
}

// AcknowledgeAlert flips the acknowledged flag on the matching alert.
// Unknown alert ids and repeat acknowledgements leave the job exactly as
// it was, version included.
func (s *Store) AcknowledgeAlert(id, alertID string) (models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.jobs[id]
	if !ok {
		return models.Job{}, ErrJobNotFound
	}
	pending := false
	for _, a := range current.Alerts {
		if a.ID == alertID && !a.Acknowledged {
			pending = true
			break
		}
	}
	if !pending {
		return current.Clone(), nil
	}
	next := alerts.Acknowledge(current, alertID)
	next.Version = current.Version + 1
	s.jobs[id] = next
	return next.Clone(), nil
}

// Customers lists all customers.
func (s *Store) Customers() []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// CustomerByName matches exactly and case-sensitively, per the dashboard
// contract. No fuzzy matching.
func (s *Store) CustomerByName(name string) (models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.Name == name {
			return c, nil
		}
	}
	return models.Customer{}, ErrCustomerNotFound
}

// Engineers lists all engineers.
func (s *Store) Engineers() []models.Engineer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Engineer, len(s.engineers))
	copy(out, s.engineers)
	return out
}

// EngineerByName matches exactly and case-sensitively.
func (s *Store) EngineerByName(name string) (models.Engineer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.engineers {
		if e.Name == name {
			return e, nil
		}
	}
	return models.Engineer{}, ErrEngineerNotFound
}

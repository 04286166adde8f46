// Package lifecycle owns the state and timestamp transitions of a job:
// milestone recording, SLA evaluation and advisory status derivation.
//
// Every operation is a pure function over a Job value. Mutating operations
// fail closed: on any invariant violation they return the input job
// unmodified alongside the error, and never partially apply a transition.
package lifecycle

import (
	"errors"
	"time"

	"oncall-service-desk/internal/models"
)

var (
	// ErrAlreadyRecorded rejects re-recording a milestone so the original
	// timestamp survives as an audit fact.
	ErrAlreadyRecorded = errors.New("milestone already recorded")

	// ErrOutOfOrderTransition rejects a milestone whose prerequisite is
	// missing, or whose timestamp would break the monotonic ordering
	// dateLogged <= dateAccepted <= dateOnSite <= dateCompleted.
	ErrOutOfOrderTransition = errors.New("out of order transition")
)

// RecordAcceptance sets dateAccepted. It does not touch the stored status;
// status changes are a separate, caller-driven step.
func RecordAcceptance(job models.Job, at time.Time) (models.Job, error) {
	if job.DateAccepted != nil {
		return job, ErrAlreadyRecorded
	}
	if at.Before(job.DateLogged) {
		return job, ErrOutOfOrderTransition
	}
	out := job.Clone()
	out.DateAccepted = &at
	return out, nil
}

// RecordOnSite sets dateOnSite. Requires acceptance to be recorded first.
func RecordOnSite(job models.Job, at time.Time) (models.Job, error) {
	if job.DateOnSite != nil {
		return job, ErrAlreadyRecorded
	}
	if job.DateAccepted == nil || at.Before(*job.DateAccepted) {
		return job, ErrOutOfOrderTransition
	}
	out := job.Clone()
	out.DateOnSite = &at
	return out, nil
}

// RecordCompletion sets dateCompleted. Requires the engineer to have been
// on site first.
func RecordCompletion(job models.Job, at time.Time) (models.Job, error) {
	if job.DateCompleted != nil {
		return job, ErrAlreadyRecorded
	}
	if job.DateOnSite == nil || at.Before(*job.DateOnSite) {
		return job, ErrOutOfOrderTransition
	}
	out := job.Clone()
	out.DateCompleted = &at
	return out, nil
}

// SLAReport says which of the three SLA windows are breached at the
// evaluation instant.
type SLAReport struct {
	AcceptBreached    bool `json:"accept_breached"`
	OnsiteBreached    bool `json:"onsite_breached"`
	CompletedBreached bool `json:"completed_breached"`
}

// Any reports whether at least one window is breached.
func (r SLAReport) Any() bool {
	return r.AcceptBreached || r.OnsiteBreached || r.CompletedBreached
}

// EvaluateSLA compares elapsed time since dateLogged against each SLA
// window. A window is breached when its milestone is still unset and the
// threshold has elapsed, or when the milestone was recorded later than the
// threshold allows. Pure; the caller supplies now, the engine never reads
// a clock.
func EvaluateSLA(job models.Job, now time.Time) SLAReport {
	return SLAReport{
		AcceptBreached:    windowBreached(job.DateLogged, job.DateAccepted, job.CustomAlerts.AcceptWindow(), now),
		OnsiteBreached:    windowBreached(job.DateLogged, job.DateOnSite, job.CustomAlerts.OnsiteWindow(), now),
		CompletedBreached: windowBreached(job.DateLogged, job.DateCompleted, job.CustomAlerts.CompletedWindow(), now),
	}
}

func windowBreached(logged time.Time, milestone *time.Time, window time.Duration, now time.Time) bool {
	if milestone == nil {
		return now.Sub(logged) >= window
	}
	return milestone.Sub(logged) > window
}

// DeriveStatus maps the SLA report onto the traffic-light scale: green iff
// the job completed with every milestone inside its window, red iff any
// window is breached, amber otherwise. Advisory only — the stored
// Job.Status may be set explicitly and takes precedence for display; the
// two are deliberately never reconciled.
func DeriveStatus(job models.Job, now time.Time) string {
	report := EvaluateSLA(job, now)
	switch {
	case report.Any():
		return models.StatusRed
	case job.DateCompleted != nil:
		return models.StatusGreen
	default:
		return models.StatusAmber
	}
}

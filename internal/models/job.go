package models

import (
	"time"
)

// Dashboard traffic-light status of a job.
// green = completed, amber = in progress, red = unresolved SLA breach.
const (
	StatusGreen = "green"
	StatusAmber = "amber"
	StatusRed   = "red"
)

// Priority levels.
const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

// Job types.
const (
	TypeMaintenance  = "Maintenance"
	TypeRepair       = "Repair"
	TypeInstallation = "Installation"
	TypeEmergency    = "Emergency"
	TypeInspection   = "Inspection"
	TypeDraft        = "Draft"
	TypeOutOfHours   = "Out of Hours"
	TypeCallOut      = "Call Out"
)

// Trade categories.
const (
	CategoryElectrical      = "Electrical"
	CategoryMechanical      = "Mechanical"
	CategoryPlumbing        = "Plumbing"
	CategoryHVAC            = "HVAC"
	CategoryGeneral         = "General"
	CategoryFireSafety      = "Fire Safety"
	CategorySecuritySystems = "Security Systems"
	CategoryPainting        = "Painting"
	CategoryFlooring        = "Flooring"
	CategoryRoofing         = "Roofing"
)

// Contact identifies a person attached to a job (site contact or reporter).
type Contact struct {
	Name         string `json:"name"`
	Number       string `json:"number"`
	Email        string `json:"email"`
	Relationship string `json:"relationship"`
}

// SLAConfig holds the per-job SLA thresholds in minutes, each measured
// from the moment the job was logged.
type SLAConfig struct {
	AcceptSLA    int `json:"accept_sla"`
	OnsiteSLA    int `json:"onsite_sla"`
	CompletedSLA int `json:"completed_sla"`
}

// AcceptWindow returns the accept threshold as a duration.
func (c SLAConfig) AcceptWindow() time.Duration { return time.Duration(c.AcceptSLA) * time.Minute }

// OnsiteWindow returns the on-site threshold as a duration.
func (c SLAConfig) OnsiteWindow() time.Duration { return time.Duration(c.OnsiteSLA) * time.Minute }

// CompletedWindow returns the completion threshold as a duration.
func (c SLAConfig) CompletedWindow() time.Duration {
	return time.Duration(c.CompletedSLA) * time.Minute
}

// Job is the aggregate tracked from logging through to completion.
// Alerts live inside the aggregate: mutating the ledger means producing
// a new Job value with one more alert.
type Job struct {
	ID        string `json:"id"`
	JobNumber string `json:"job_number"`
	Version   int    `json:"version"`

	Customer string  `json:"customer"`
	Site     string  `json:"site"`
	Engineer string  `json:"engineer"`
	Contact  Contact `json:"contact"`
	Reporter Contact `json:"reporter"`

	Status   string `json:"status"`
	Priority string `json:"priority"`
	JobType  string `json:"job_type"`
	Category string `json:"category"`

	DateLogged    time.Time  `json:"date_logged"`
	DateAccepted  *time.Time `json:"date_accepted,omitempty"`
	DateOnSite    *time.Time `json:"date_on_site,omitempty"`
	DateCompleted *time.Time `json:"date_completed,omitempty"`

	Description          string    `json:"description"`
	TargetCompletionTime int       `json:"target_completion_time"`
	Reason               *string   `json:"reason,omitempty"`
	CustomAlerts         SLAConfig `json:"custom_alerts"`
	Alerts               []Alert   `json:"alerts,omitempty"`

	PrimaryJobTrade                  string     `json:"primary_job_trade,omitempty"`
	SecondaryJobTrades               []string   `json:"secondary_job_trades,omitempty"`
	CustomerOrderNumber              string     `json:"customer_order_number,omitempty"`
	ReferenceNumber                  string     `json:"reference_number,omitempty"`
	JobOwner                         string     `json:"job_owner,omitempty"`
	Tags                             []string   `json:"tags,omitempty"`
	JobRef1                          string     `json:"job_ref_1,omitempty"`
	JobRef2                          string     `json:"job_ref_2,omitempty"`
	RequiresApproval                 bool       `json:"requires_approval,omitempty"`
	PreferredAppointmentDate         *time.Time `json:"preferred_appointment_date,omitempty"`
	StartDate                        *time.Time `json:"start_date,omitempty"`
	EndDate                          *time.Time `json:"end_date,omitempty"`
	LockVisitDateTime                bool       `json:"lock_visit_date_time,omitempty"`
	DeployToMobile                   bool       `json:"deploy_to_mobile,omitempty"`
	IsRecurringJob                   bool       `json:"is_recurring_job,omitempty"`
	CompletionTimeFromEngineerOnsite bool       `json:"completion_time_from_engineer_onsite,omitempty"`
	Project                          string     `json:"project,omitempty"`
}

// Clone returns a deep copy so lifecycle and ledger operations can stay
// immutable-in/immutable-out.
func (j Job) Clone() Job {
	out := j
	out.DateAccepted = cloneTime(j.DateAccepted)
	out.DateOnSite = cloneTime(j.DateOnSite)
	out.DateCompleted = cloneTime(j.DateCompleted)
	out.PreferredAppointmentDate = cloneTime(j.PreferredAppointmentDate)
	out.StartDate = cloneTime(j.StartDate)
	out.EndDate = cloneTime(j.EndDate)
	if j.Reason != nil {
		r := *j.Reason
		out.Reason = &r
	}
	if j.Alerts != nil {
		out.Alerts = make([]Alert, len(j.Alerts))
		copy(out.Alerts, j.Alerts)
	}
	if j.SecondaryJobTrades != nil {
		out.SecondaryJobTrades = append([]string(nil), j.SecondaryJobTrades...)
	}
	if j.Tags != nil {
		out.Tags = append([]string(nil), j.Tags...)
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

package models

import (
	"time"
)

// JobFormData collects the inputs the job-creation wizard submits.
// Customer, site and description are hard requirements; a job must never
// be created without them.
type JobFormData struct {
	Customer             string    `json:"customer" validate:"required"`
	Site                 string    `json:"site" validate:"required"`
	Contact              Contact   `json:"contact"`
	Reporter             Contact   `json:"reporter"`
	Description          string    `json:"description" validate:"required"`
	JobType              string    `json:"job_type" validate:"required"`
	Category             string    `json:"category" validate:"required"`
	Priority             string    `json:"priority" validate:"required,oneof=Low Medium High Critical"`
	TargetCompletionTime int       `json:"target_completion_time" validate:"gte=0"`
	Engineer             string    `json:"engineer"`
	Project              string    `json:"project"`
	CustomAlerts         SLAConfig `json:"custom_alerts"`

	PrimaryJobTrade                  string     `json:"primary_job_trade"`
	SecondaryJobTrades               []string   `json:"secondary_job_trades"`
	CustomerOrderNumber              string     `json:"customer_order_number"`
	ReferenceNumber                  string     `json:"reference_number"`
	JobOwner                         string     `json:"job_owner"`
	Tags                             []string   `json:"tags"`
	JobRef1                          string     `json:"job_ref_1"`
	JobRef2                          string     `json:"job_ref_2"`
	RequiresApproval                 bool       `json:"requires_approval"`
	PreferredAppointmentDate         *time.Time `json:"preferred_appointment_date"`
	StartDate                        *time.Time `json:"start_date"`
	EndDate                          *time.Time `json:"end_date"`
	LockVisitDateTime                bool       `json:"lock_visit_date_time"`
	DeployToMobile                   bool       `json:"deploy_to_mobile"`
	IsRecurringJob                   bool       `json:"is_recurring_job"`
	CompletionTimeFromEngineerOnsite bool       `json:"completion_time_from_engineer_onsite"`
}

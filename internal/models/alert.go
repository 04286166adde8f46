package models

import (
	"time"
)

// AlertType names the SLA window or milestone an alert concerns.
const (
	AlertAccepted  = "ACCEPTED"
	AlertOnsite    = "ONSITE"
	AlertCompleted = "COMPLETED"
	AlertOverdue   = "OVERDUE"
)

// ValidAlertType reports whether t is one of the known alert types.
func ValidAlertType(t string) bool {
	switch t {
	case AlertAccepted, AlertOnsite, AlertCompleted, AlertOverdue:
		return true
	}
	return false
}

// Alert records that an SLA condition was breached or a notable event
// occurred on a job. Once created it is never removed; only the
// acknowledged flag may flip, and only from false to true.
type Alert struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	Acknowledged bool      `json:"acknowledged"`
}

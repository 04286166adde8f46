// Package alerts is the append-only alert ledger embedded in the job
// aggregate. Alerts are never removed or rewritten; the only permitted
// mutation after creation is flipping the acknowledged flag to true.
package alerts

import (
	"iter"
	"time"

	"github.com/google/uuid"

	"oncall-service-desk/internal/models"
)

// Raise appends a new unacknowledged alert and returns the updated job.
// No deduplication: raising the same type twice yields two distinct
// alerts, which is the contract the consuming portal relies on.
func Raise(job models.Job, alertType, message string, at time.Time) models.Job {
	out := job.Clone()
	out.Alerts = append(out.Alerts, models.Alert{
		ID:        uuid.New().String(),
		Type:      alertType,
		Message:   message,
		Timestamp: at,
	})
	return out
}

// Acknowledge flips the acknowledged flag on the matching alert. Unknown
// alert ids and repeated acknowledgements are no-ops, not errors, so UI
// retries stay idempotent.
func Acknowledge(job models.Job, alertID string) models.Job {
	out := job.Clone()
	for i := range out.Alerts {
		if out.Alerts[i].ID == alertID {
			out.Alerts[i].Acknowledged = true
			break
		}
	}
	return out
}

// Active yields the unacknowledged alerts in insertion order. The sequence
// is restartable; ranging over it a second time starts from the beginning.
func Active(job models.Job) iter.Seq[models.Alert] {
	return func(yield func(models.Alert) bool) {
		for _, a := range job.Alerts {
			if a.Acknowledged {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}

package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oncall-service-desk/internal/models"
)

var at = time.Date(2025, 3, 7, 9, 30, 0, 0, time.UTC)

func TestRaiseAppendsWithoutDeduplication(t *testing.T) {
	job := models.Job{ID: "job-1"}

	job = Raise(job, models.AlertAccepted, "Alert triggered for accepted SLA", at)
	job = Raise(job, models.AlertAccepted, "Alert triggered for accepted SLA", at)

	require.Len(t, job.Alerts, 2)
	assert.NotEqual(t, job.Alerts[0].ID, job.Alerts[1].ID)
	assert.False(t, job.Alerts[0].Acknowledged)
	assert.False(t, job.Alerts[1].Acknowledged)
}

func TestRaiseLeavesInputUntouched(t *testing.T) {
	job := models.Job{ID: "job-1"}
	out := Raise(job, models.AlertOnsite, "engineer not on site", at)

	assert.Empty(t, job.Alerts)
	assert.Len(t, out.Alerts, 1)
}

func TestAcknowledgeIsIdempotent(t *testing.T) {
	job := Raise(models.Job{ID: "job-1"}, models.AlertAccepted, "m", at)
	id := job.Alerts[0].ID

	once := Acknowledge(job, id)
	twice := Acknowledge(once, id)

	assert.True(t, once.Alerts[0].Acknowledged)
	assert.Equal(t, once.Alerts, twice.Alerts)
}

func TestAcknowledgeUnknownIDIsNoOp(t *testing.T) {
	job := Raise(models.Job{ID: "job-1"}, models.AlertAccepted, "m", at)
	out := Acknowledge(job, "no-such-alert")
	assert.Equal(t, job.Alerts, out.Alerts)
}

func TestActiveFiltersAndPreservesOrder(t *testing.T) {
	job := models.Job{ID: "job-1"}
	job = Raise(job, models.AlertAccepted, "first", at)
	job = Raise(job, models.AlertOnsite, "second", at.Add(time.Minute))
	job = Raise(job, models.AlertOverdue, "third", at.Add(2*time.Minute))
	job = Acknowledge(job, job.Alerts[1].ID)

	var got []string
	for a := range Active(job) {
		got = append(got, a.Message)
	}
	assert.Equal(t, []string{"first", "third"}, got)
}

func TestActiveIsRestartable(t *testing.T) {
	job := Raise(models.Job{ID: "job-1"}, models.AlertAccepted, "m", at)
	seq := Active(job)

	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	assert.Equal(t, first, second)
}

func TestActiveStopsWhenConsumerBreaks(t *testing.T) {
	job := models.Job{ID: "job-1"}
	for range 5 {
		job = Raise(job, models.AlertOverdue, "m", at)
	}

	seen := 0
	for range Active(job) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

// Package report derives end-of-shift summaries over a job collection.
// Everything here is read-only and idempotent: same jobs in, same numbers
// out, no matter how often it runs.
package report

import (
	"time"

	"oncall-service-desk/internal/models"
)

// Summary is the stat block rendered at the top of the shift report and
// repeated per engineer and per customer.
type Summary struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"in_progress"`
	Issues         int     `json:"issues"`
	CompletionRate float64 `json:"completion_rate"`
	Customers      int     `json:"customers"`
	Sites          int     `json:"sites"`
}

// JobsOnDate filters jobs whose dateLogged falls on the same calendar day
// as date, in date's location.
func JobsOnDate(jobs []models.Job, date time.Time) []models.Job {
	y, m, d := date.Date()
	var out []models.Job
	for _, job := range jobs {
		jy, jm, jd := job.DateLogged.In(date.Location()).Date()
		if jy == y && jm == m && jd == d {
			out = append(out, job)
		}
	}
	return out
}

// Summarize counts jobs by stored status and tallies distinct customers
// and sites. CompletionRate is a 0..1 ratio and is 0 for an empty slice.
func Summarize(jobs []models.Job) Summary {
	s := Summary{Total: len(jobs)}
	customers := map[string]struct{}{}
	sites := map[string]struct{}{}
	for _, job := range jobs {
		switch job.Status {
		case models.StatusGreen:
			s.Completed++
		case models.StatusAmber:
			s.InProgress++
		case models.StatusRed:
			s.Issues++
		}
		customers[job.Customer] = struct{}{}
		sites[job.Site] = struct{}{}
	}
	s.Customers = len(customers)
	s.Sites = len(sites)
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total)
	}
	return s
}

// ByEngineer buckets jobs by engineer name and summarizes each bucket.
// Engineers with no jobs in the input simply do not appear; zero-rows are
// dropped, not emitted.
func ByEngineer(jobs []models.Job) map[string]Summary {
	return bucketBy(jobs, func(j models.Job) string { return j.Engineer })
}

// ByCustomer buckets jobs by customer name and summarizes each bucket.
func ByCustomer(jobs []models.Job) map[string]Summary {
	return bucketBy(jobs, func(j models.Job) string { return j.Customer })
}

func bucketBy(jobs []models.Job, key func(models.Job) string) map[string]Summary {
	buckets := map[string][]models.Job{}
	for _, job := range jobs {
		k := key(job)
		buckets[k] = append(buckets[k], job)
	}
	out := make(map[string]Summary, len(buckets))
	for k, bucket := range buckets {
		out[k] = Summarize(bucket)
	}
	return out
}

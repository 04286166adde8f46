package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"oncall-service-desk/internal/models"
)

// Seed loads the demo dataset the dashboard ships with: three customers,
// four engineers and a spread of jobs across all three statuses, with
// timestamps relative to now so the SLA views have something to show.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	s.customers = []models.Customer{
		{ID: 1, Name: "Northgate Retail Group", Sites: []string{"Unit 4, Northgate Park", "Riverside Mall", "Central Depot"}},
		{ID: 2, Name: "Harbour Medical Centre", Sites: []string{"Main Building", "Outpatients Annex"}},
		{ID: 3, Name: "Westfield Logistics", Sites: []string{"Warehouse A", "Warehouse B", "Gatehouse"}},
	}

	s.engineers = []models.Engineer{
		{Name: "Dave Thompson", Email: "dave.thompson@svc.example", Phone: "07700 900101", Status: models.EngineerOnsite, SyncStatus: models.SyncSynced},
		{Name: "Sarah Chen", Email: "sarah.chen@svc.example", Phone: "07700 900102", Status: models.EngineerAccept, SyncStatus: models.SyncSynced},
		{Name: "Mike O'Brien", Email: "mike.obrien@svc.example", Phone: "07700 900103", Status: models.EngineerTravel, SyncStatus: models.SyncPending},
		{Name: "Priya Patel", Email: "priya.patel@svc.example", Phone: "07700 900104", Status: models.EngineerCompleted, SyncStatus: models.SyncSynced},
	}

	mins := func(m int) time.Time { return now.Add(-time.Duration(m) * time.Minute) }

	// Completed inside every window.
	s.seedJob(models.Job{
		Customer: "Northgate Retail Group", Site: "Riverside Mall", Engineer: "Priya Patel",
		Contact:  models.Contact{Name: "Tom Ward", Number: "07700 900201", Email: "t.ward@northgate.example", Relationship: "Site Manager"},
		Reporter: models.Contact{Name: "Security Desk", Number: "07700 900202", Email: "security@northgate.example", Relationship: "Staff"},
		Status:   models.StatusGreen, Priority: models.PriorityMedium,
		JobType: models.TypeCallOut, Category: models.CategoryElectrical,
		DateLogged:    mins(300),
		DateAccepted:  ptr(mins(290)),
		DateOnSite:    ptr(mins(240)),
		DateCompleted: ptr(mins(150)),
		Description:   "Lighting circuit tripped in the east retail corridor.",
	})

	// Accepted, engineer travelling, still on track.
	s.seedJob(models.Job{
		Customer: "Harbour Medical Centre", Site: "Main Building", Engineer: "Mike O'Brien",
		Contact:  models.Contact{Name: "Angela Ross", Number: "07700 900203", Email: "a.ross@harbour.example", Relationship: "Facilities"},
		Reporter: models.Contact{Name: "Night Ward", Number: "07700 900204", Email: "ward3@harbour.example", Relationship: "Staff"},
		Status:   models.StatusAmber, Priority: models.PriorityHigh,
		JobType: models.TypeOutOfHours, Category: models.CategoryHVAC,
		DateLogged:   mins(45),
		DateAccepted: ptr(mins(30)),
		Description:  "Air handling unit on ward 3 running hot, temperature climbing.",
	})

	// Accept SLA blown, alert raised and still unacknowledged.
	reason := "No engineer response within accept SLA"
	overdue := models.Job{
		Customer: "Westfield Logistics", Site: "Warehouse B", Engineer: "Dave Thompson",
		Contact:  models.Contact{Name: "Karl Jensen", Number: "07700 900205", Email: "k.jensen@westfield.example", Relationship: "Shift Lead"},
		Reporter: models.Contact{Name: "Karl Jensen", Number: "07700 900205", Email: "k.jensen@westfield.example", Relationship: "Shift Lead"},
		Status:   models.StatusRed, Priority: models.PriorityCritical,
		JobType: models.TypeEmergency, Category: models.CategoryFireSafety,
		DateLogged:  mins(75),
		Reason:      &reason,
		Description: "Fire panel reporting a zone fault, alarm system degraded.",
	}
	overdue.Alerts = []models.Alert{{
		ID:        uuid.New().String(),
		Type:      models.AlertAccepted,
		Message:   "Alert triggered for accepted SLA",
		Timestamp: mins(40),
	}}
	s.seedJob(overdue)

	// Freshly logged, nothing recorded yet.
	s.seedJob(models.Job{
		Customer: "Northgate Retail Group", Site: "Central Depot", Engineer: "Sarah Chen",
		Contact:  models.Contact{Name: "Tom Ward", Number: "07700 900201", Email: "t.ward@northgate.example", Relationship: "Site Manager"},
		Reporter: models.Contact{Name: "Cleaning Crew", Number: "07700 900206", Email: "crew@northgate.example", Relationship: "Contractor"},
		Status:   models.StatusAmber, Priority: models.PriorityLow,
		JobType: models.TypeMaintenance, Category: models.CategoryPlumbing,
		DateLogged:  mins(10),
		Description: "Leak under the staff kitchen sink, isolated at the valve.",
	})
}

func (s *Store) seedJob(job models.Job) {
	s.jobSeq++
	job.ID = uuid.New().String()
	job.JobNumber = fmt.Sprintf("JL-%d-%04d", s.now().Year(), s.jobSeq)
	job.Version = 1
	if job.CustomAlerts == (models.SLAConfig{}) {
		job.CustomAlerts = s.defaults
	}
	s.jobs[job.ID] = job
	s.order = append([]string{job.ID}, s.order...)
}

func ptr(t time.Time) *time.Time { return &t }

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oncall-service-desk/internal/config"
	"oncall-service-desk/internal/models"
	"oncall-service-desk/internal/ratelimit"
	"oncall-service-desk/internal/store"
)

func newTestHandler(limiter *ratelimit.TokenBucket) (http.Handler, *store.Store) {
	cfg := config.Config{
		CORSOrigins:         []string{"*"},
		DefaultAcceptSLA:    30,
		DefaultOnsiteSLA:    90,
		DefaultCompletedSLA: 180,
	}
	st := store.New(models.SLAConfig{AcceptSLA: 30, OnsiteSLA: 90, CompletedSLA: 180})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, st, limiter, logger).Router(), st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJob(t *testing.T, rec *httptest.ResponseRecorder) models.Job {
	t.Helper()
	var job models.Job
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&job))
	return job
}

func createJob(t *testing.T, h http.Handler) models.Job {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/v1/jobs", models.JobFormData{
		Customer:    "Northgate Retail Group",
		Site:        "Riverside Mall",
		Description: "Roller shutter jammed halfway",
		JobType:     models.TypeCallOut,
		Category:    models.CategoryMechanical,
		Priority:    models.PriorityHigh,
		Engineer:    "Dave Thompson",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeJob(t, rec)
}

func TestCreateAndGetJob(t *testing.T) {
	h, _ := newTestHandler(nil)

	job := createJob(t, h)
	assert.NotEmpty(t, job.ID)
	assert.Contains(t, job.JobNumber, "JL-")
	assert.Equal(t, models.StatusAmber, job.Status)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/jobs/"+job.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, job.ID, decodeJob(t, rec).ID)
}

func TestCreateJobRejectsMissingCustomer(t *testing.T) {
	h, _ := newTestHandler(nil)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/jobs", models.JobFormData{
		Site:        "Riverside Mall",
		Description: "no customer",
		JobType:     models.TypeCallOut,
		Category:    models.CategoryGeneral,
		Priority:    models.PriorityLow,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobNotFound(t *testing.T) {
	h, _ := newTestHandler(nil)
	rec := doJSON(t, h, http.MethodGet, "/api/v1/jobs/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMilestoneFlow(t *testing.T) {
	h, _ := newTestHandler(nil)
	job := createJob(t, h)
	base := "/api/v1/jobs/" + job.ID

	// Completing before the engineer is on site breaks the order.
	rec := doJSON(t, h, http.MethodPost, base+"/complete", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, h, http.MethodPost, base+"/accept", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, decodeJob(t, rec).DateAccepted)

	// Re-recording acceptance is rejected, timestamp preserved.
	rec = doJSON(t, h, http.MethodPost, base+"/accept", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h, http.MethodPost, base+"/onsite", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, base+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	done := decodeJob(t, rec)
	assert.NotNil(t, done.DateOnSite)
	assert.NotNil(t, done.DateCompleted)
}

func TestMilestoneWithExplicitTimestamp(t *testing.T) {
	h, _ := newTestHandler(nil)
	job := createJob(t, h)

	at := time.Now().Add(5 * time.Minute).UTC().Truncate(time.Second)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/jobs/"+job.ID+"/accept", map[string]any{"at": at})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeJob(t, rec)
	require.NotNil(t, got.DateAccepted)
	assert.True(t, got.DateAccepted.Equal(at))
}

func TestSLASnapshotDivergesFromStoredStatus(t *testing.T) {
	h, _ := newTestHandler(nil)
	job := createJob(t, h)

	// Evaluate one hour from now: accept window (30m) blown, stored
	// status still amber. The endpoint reports both, reconciling neither.
	now := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	rec := doJSON(t, h, http.MethodGet, "/api/v1/jobs/"+job.ID+"/sla?now="+now, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Report struct {
			AcceptBreached bool `json:"accept_breached"`
		} `json:"report"`
		StoredStatus  string `json:"stored_status"`
		DerivedStatus string `json:"derived_status"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Report.AcceptBreached)
	assert.Equal(t, models.StatusAmber, resp.StoredStatus)
	assert.Equal(t, models.StatusRed, resp.DerivedStatus)
}

func TestAlertRoundTrip(t *testing.T) {
	h, _ := newTestHandler(nil)
	job := createJob(t, h)
	base := "/api/v1/jobs/" + job.ID

	rec := doJSON(t, h, http.MethodPost, base+"/alerts", map[string]string{"type": "BROKEN"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, base+"/alerts", map[string]string{"type": models.AlertAccepted})
	require.Equal(t, http.StatusCreated, rec.Code)
	withAlert := decodeJob(t, rec)
	require.Len(t, withAlert.Alerts, 1)
	assert.Equal(t, "Alert triggered for ACCEPTED SLA", withAlert.Alerts[0].Message)

	rec = doJSON(t, h, http.MethodGet, base+"/alerts/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var active struct {
		Items []models.Alert `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&active))
	require.Len(t, active.Items, 1)

	rec = doJSON(t, h, http.MethodPost, base+"/alerts/"+withAlert.Alerts[0].ID+"/ack", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeJob(t, rec).Alerts[0].Acknowledged)

	rec = doJSON(t, h, http.MethodGet, base+"/alerts/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	active.Items = nil
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&active))
	assert.Empty(t, active.Items)
}

func TestUpdateJobVersionConflict(t *testing.T) {
	h, _ := newTestHandler(nil)
	job := createJob(t, h)

	edited := job
	edited.Status = models.StatusRed
	rec := doJSON(t, h, http.MethodPut, "/api/v1/jobs/"+job.ID, edited)
	require.Equal(t, http.StatusOK, rec.Code)

	// job still carries the original version.
	rec = doJSON(t, h, http.MethodPut, "/api/v1/jobs/"+job.ID, job)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCustomerAndEngineerLookups(t *testing.T) {
	h, st := newTestHandler(nil)
	st.Seed()

	rec := doJSON(t, h, http.MethodGet, "/api/v1/customers/Northgate%20Retail%20Group", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/customers/northgate%20retail%20group", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/customers/Northgate%20Retail%20Group/jobs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Items []models.Job `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	for _, j := range payload.Items {
		assert.Equal(t, "Northgate Retail Group", j.Customer)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/engineers/Sarah%20Chen", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShiftReport(t *testing.T) {
	h, _ := newTestHandler(nil)
	createJob(t, h)
	createJob(t, h)

	date := time.Now().Format("2006-01-02")
	rec := doJSON(t, h, http.MethodGet, "/api/v1/reports/shift?date="+date, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Summary struct {
			Total      int     `json:"total"`
			InProgress int     `json:"in_progress"`
			Rate       float64 `json:"completion_rate"`
		} `json:"summary"`
		ByEngineer map[string]json.RawMessage `json:"by_engineer"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, 2, resp.Summary.InProgress)
	assert.Zero(t, resp.Summary.Rate)
	assert.Len(t, resp.ByEngineer, 1)

	// Engineer filter narrows to nothing for an unknown name.
	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/reports/shift?date=%s&engineer=Nobody", date), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Zero(t, resp.Summary.Total)
}

func TestMutatingRoutesAreRateLimited(t *testing.T) {
	h, _ := newTestHandler(ratelimit.NewTokenBucket(1, 0.0001))

	createJob(t, h)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/jobs", models.JobFormData{})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

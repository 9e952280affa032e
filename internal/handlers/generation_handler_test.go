package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/interfaces"
	"github.com/ternarybob/doceo/internal/models"
	"github.com/ternarybob/doceo/internal/services/jobs"
)

type stubJobStorage struct {
	jobs map[string]*models.GenerationJob
}

func newStubJobStorage() *stubJobStorage {
	return &stubJobStorage{jobs: map[string]*models.GenerationJob{}}
}

func (s *stubJobStorage) SaveJob(ctx context.Context, job *models.GenerationJob) error {
	s.jobs[job.ID] = job
	return nil
}

func (s *stubJobStorage) GetJob(ctx context.Context, jobID string) (*models.GenerationJob, error) {
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, errors.New("job not found")
	}
	return job, nil
}

func (s *stubJobStorage) FindActiveJob(ctx context.Context, courseID, employeeID string) (*models.GenerationJob, error) {
	for _, job := range s.jobs {
		if job.CourseID == courseID && job.EmployeeID == employeeID && job.IsActive() {
			return job, nil
		}
	}
	return nil, nil
}

func (s *stubJobStorage) UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus, errorMsg string) error {
	if job, ok := s.jobs[jobID]; ok {
		job.Status = status
	}
	return nil
}

func (s *stubJobStorage) ListJobs(ctx context.Context, opts *interfaces.JobListOptions) ([]*models.GenerationJob, error) {
	result := make([]*models.GenerationJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		result = append(result, job)
	}
	return result, nil
}

func (s *stubJobStorage) CountJobsByStatus(ctx context.Context, status models.JobStatus) (int, error) {
	return 0, nil
}

type stubEnrollmentStorage struct{}

func (s *stubEnrollmentStorage) GetEnrollment(ctx context.Context, courseID, employeeID string) (*models.Enrollment, error) {
	return nil, nil
}

func (s *stubEnrollmentStorage) UpsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	return nil
}

func (s *stubEnrollmentStorage) SetGenerationStatus(ctx context.Context, courseID, employeeID string, status models.JobStatus) error {
	return nil
}

func (s *stubEnrollmentStorage) SetActiveContent(ctx context.Context, courseID, employeeID, contentID string) error {
	return nil
}

type stubContentStorage struct {
	deleteCalls int
}

func (s *stubContentStorage) SaveContent(ctx context.Context, content *models.PersonalizedContent) error {
	return nil
}

func (s *stubContentStorage) GetContent(ctx context.Context, contentID string) (*models.PersonalizedContent, error) {
	return nil, errors.New("not found")
}

func (s *stubContentStorage) GetActiveContent(ctx context.Context, courseID, employeeID string) (*models.PersonalizedContent, error) {
	return nil, nil
}

func (s *stubContentStorage) DeleteContentForPair(ctx context.Context, courseID, employeeID string) (int, error) {
	s.deleteCalls++
	return 1, nil
}

type noopTrigger struct{}

func (n *noopTrigger) Trigger(ctx context.Context, jobID string) error { return nil }

func newTestGenerationHandler() (*GenerationHandler, *stubJobStorage, *stubContentStorage) {
	logger := arbor.NewLogger()
	jobStore := newStubJobStorage()
	content := &stubContentStorage{}
	gateway := jobs.NewGateway(jobStore, &stubEnrollmentStorage{}, &noopTrigger{}, logger)
	return NewGenerationHandler(gateway, nil, content, jobStore, logger), jobStore, content
}

func TestRegenerateHandler_CreatesJob(t *testing.T) {
	handler, jobStore, _ := newTestGenerationHandler()

	body := `{"course_id":"course-1","employee_id":"emp-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/regenerate-content", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.RegenerateHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, true, resp["success"])
	assert.NotEmpty(t, resp["job_id"])
	assert.Len(t, jobStore.jobs, 1)
}

func TestRegenerateHandler_MissingCourseID(t *testing.T) {
	handler, _, _ := newTestGenerationHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/regenerate-content", strings.NewReader(`{"employee_id":"emp-1"}`))
	rec := httptest.NewRecorder()
	handler.RegenerateHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegenerateHandler_MissingEmployeeIdentity(t *testing.T) {
	handler, _, _ := newTestGenerationHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/regenerate-content", strings.NewReader(`{"course_id":"course-1"}`))
	rec := httptest.NewRecorder()
	handler.RegenerateHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegenerateHandler_SubjectFallback(t *testing.T) {
	handler, jobStore, _ := newTestGenerationHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/regenerate-content", strings.NewReader(`{"course_id":"course-1"}`))
	req = req.WithContext(WithSubject(req.Context(), "emp-session"))
	rec := httptest.NewRecorder()
	handler.RegenerateHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	for _, job := range jobStore.jobs {
		assert.Equal(t, "emp-session", job.EmployeeID)
	}
}

func TestRegenerateHandler_ForceDeletesPriorContent(t *testing.T) {
	handler, _, content := newTestGenerationHandler()

	body := `{"course_id":"course-1","employee_id":"emp-1","force_regenerate":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/regenerate-content", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.RegenerateHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, content.deleteCalls)
}

func TestRegenerateHandler_DeduplicatesRepeatSubmission(t *testing.T) {
	handler, jobStore, _ := newTestGenerationHandler()

	body := `{"course_id":"course-1","employee_id":"emp-1"}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/regenerate-content", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.RegenerateHandler(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Len(t, jobStore.jobs, 1)
}

func TestRegenerateHandler_RejectsGet(t *testing.T) {
	handler, _, _ := newTestGenerationHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/regenerate-content", nil)
	rec := httptest.NewRecorder()
	handler.RegenerateHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestProcessJobHandler_RequiresJobID(t *testing.T) {
	handler, _, _ := newTestGenerationHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/proxy-process-job", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ProcessJobHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobHandler_ReturnsJob(t *testing.T) {
	handler, jobStore, _ := newTestGenerationHandler()

	job := models.NewGenerationJob("course-1", "emp-1")
	jobStore.jobs[job.ID] = job

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+job.ID, nil)
	req.SetPathValue("id", job.ID)
	rec := httptest.NewRecorder()
	handler.GetJobHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var loaded models.GenerationJob
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&loaded))
	assert.Equal(t, job.ID, loaded.ID)
}

package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/interfaces"
	"github.com/ternarybob/doceo/internal/models"
)

// memJobStorage is an in-memory JobStorage for gateway tests
type memJobStorage struct {
	jobs    []*models.GenerationJob
	saveErr error
}

func (m *memJobStorage) SaveJob(ctx context.Context, job *models.GenerationJob) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *memJobStorage) GetJob(ctx context.Context, jobID string) (*models.GenerationJob, error) {
	for _, job := range m.jobs {
		if job.ID == jobID {
			return job, nil
		}
	}
	return nil, errors.New("job not found")
}

func (m *memJobStorage) FindActiveJob(ctx context.Context, courseID, employeeID string) (*models.GenerationJob, error) {
	for i := len(m.jobs) - 1; i >= 0; i-- {
		job := m.jobs[i]
		if job.CourseID == courseID && job.EmployeeID == employeeID && job.IsActive() {
			return job, nil
		}
	}
	return nil, nil
}

func (m *memJobStorage) UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus, errorMsg string) error {
	job, err := m.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	job.Status = status
	return nil
}

func (m *memJobStorage) ListJobs(ctx context.Context, opts *interfaces.JobListOptions) ([]*models.GenerationJob, error) {
	return m.jobs, nil
}

func (m *memJobStorage) CountJobsByStatus(ctx context.Context, status models.JobStatus) (int, error) {
	count := 0
	for _, job := range m.jobs {
		if job.Status == status {
			count++
		}
	}
	return count, nil
}

type memEnrollmentStorage struct {
	statuses map[string]models.JobStatus
}

func newMemEnrollmentStorage() *memEnrollmentStorage {
	return &memEnrollmentStorage{statuses: map[string]models.JobStatus{}}
}

func (m *memEnrollmentStorage) GetEnrollment(ctx context.Context, courseID, employeeID string) (*models.Enrollment, error) {
	return nil, nil
}

func (m *memEnrollmentStorage) UpsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	return nil
}

func (m *memEnrollmentStorage) SetGenerationStatus(ctx context.Context, courseID, employeeID string, status models.JobStatus) error {
	m.statuses[models.EnrollmentKey(courseID, employeeID)] = status
	return nil
}

func (m *memEnrollmentStorage) SetActiveContent(ctx context.Context, courseID, employeeID, contentID string) error {
	return nil
}

// recordingTrigger records which job IDs were triggered
type recordingTrigger struct {
	triggered []string
	err       error
}

func (r *recordingTrigger) Trigger(ctx context.Context, jobID string) error {
	r.triggered = append(r.triggered, jobID)
	return r.err
}

func newTestGateway() (*Gateway, *memJobStorage, *memEnrollmentStorage, *recordingTrigger) {
	jobs := &memJobStorage{}
	enrollments := newMemEnrollmentStorage()
	trigger := &recordingTrigger{}
	gateway := NewGateway(jobs, enrollments, trigger, arbor.NewLogger())
	return gateway, jobs, enrollments, trigger
}

func TestGateway_SubmitCreatesJob(t *testing.T) {
	gateway, jobs, enrollments, trigger := newTestGateway()

	result, err := gateway.Submit(context.Background(), "course-1", "emp-1")
	require.NoError(t, err)
	require.NotNil(t, result.Job)

	assert.False(t, result.Deduplicated)
	assert.Equal(t, models.JobStatusPending, result.Job.Status)
	assert.Len(t, jobs.jobs, 1)
	assert.Equal(t, []string{result.Job.ID}, trigger.triggered)
	assert.Equal(t, models.JobStatusPending, enrollments.statuses[models.EnrollmentKey("course-1", "emp-1")])
}

func TestGateway_SubmitDeduplicatesActiveJob(t *testing.T) {
	gateway, jobs, _, trigger := newTestGateway()
	ctx := context.Background()

	first, err := gateway.Submit(ctx, "course-1", "emp-1")
	require.NoError(t, err)

	second, err := gateway.Submit(ctx, "course-1", "emp-1")
	require.NoError(t, err)

	assert.True(t, second.Deduplicated)
	assert.Equal(t, first.Job.ID, second.Job.ID)
	// No second row, but the existing job was re-triggered
	assert.Len(t, jobs.jobs, 1)
	assert.Equal(t, []string{first.Job.ID, first.Job.ID}, trigger.triggered)
}

func TestGateway_SubmitNewJobAfterTerminal(t *testing.T) {
	gateway, jobs, _, _ := newTestGateway()
	ctx := context.Background()

	first, err := gateway.Submit(ctx, "course-1", "emp-1")
	require.NoError(t, err)
	require.NoError(t, jobs.UpdateJobStatus(ctx, first.Job.ID, models.JobStatusCompleted, ""))

	second, err := gateway.Submit(ctx, "course-1", "emp-1")
	require.NoError(t, err)

	assert.False(t, second.Deduplicated)
	assert.NotEqual(t, first.Job.ID, second.Job.ID)
	assert.Len(t, jobs.jobs, 2)
}

func TestGateway_SubmitDistinctPairsAreIndependent(t *testing.T) {
	gateway, jobs, _, _ := newTestGateway()
	ctx := context.Background()

	_, err := gateway.Submit(ctx, "course-1", "emp-1")
	require.NoError(t, err)
	_, err = gateway.Submit(ctx, "course-1", "emp-2")
	require.NoError(t, err)

	assert.Len(t, jobs.jobs, 2)
}

func TestGateway_SubmitMissingIdentity(t *testing.T) {
	gateway, jobs, _, trigger := newTestGateway()

	_, err := gateway.Submit(context.Background(), "", "emp-1")
	assert.ErrorIs(t, err, ErrMissingIdentity)

	_, err = gateway.Submit(context.Background(), "course-1", "  ")
	assert.ErrorIs(t, err, ErrMissingIdentity)

	assert.Empty(t, jobs.jobs)
	assert.Empty(t, trigger.triggered)
}

func TestGateway_SubmitPersistenceFailure(t *testing.T) {
	jobs := &memJobStorage{saveErr: errors.New("disk full")}
	gateway := NewGateway(jobs, newMemEnrollmentStorage(), &recordingTrigger{}, arbor.NewLogger())

	_, err := gateway.Submit(context.Background(), "course-1", "emp-1")
	assert.ErrorIs(t, err, ErrJobCreationFailed)
}

func TestGateway_TriggerFailureDoesNotFailSubmit(t *testing.T) {
	jobs := &memJobStorage{}
	trigger := &recordingTrigger{err: errors.New("transport exhausted")}
	gateway := NewGateway(jobs, newMemEnrollmentStorage(), trigger, arbor.NewLogger())

	result, err := gateway.Submit(context.Background(), "course-1", "emp-1")
	require.NoError(t, err)
	assert.NotNil(t, result.Job)
	assert.Len(t, trigger.triggered, 1)
}

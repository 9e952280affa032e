package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/interfaces"
	"github.com/ternarybob/doceo/internal/models"
)

func newTestJobStorage(t *testing.T) interfaces.JobStorage {
	t.Helper()
	return NewJobStorage(newTestDB(t), arbor.NewLogger())
}

func TestJobStorage_SaveAndGet(t *testing.T) {
	storage := newTestJobStorage(t)
	ctx := context.Background()

	job := models.NewGenerationJob("course-1", "emp-1")
	require.NoError(t, storage.SaveJob(ctx, job))

	loaded, err := storage.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, loaded.ID)
	assert.Equal(t, "course-1", loaded.CourseID)
	assert.Equal(t, "emp-1", loaded.EmployeeID)
	assert.Equal(t, models.JobStatusPending, loaded.Status)
}

func TestJobStorage_GetMissing(t *testing.T) {
	storage := newTestJobStorage(t)

	_, err := storage.GetJob(context.Background(), "job_missing")
	assert.Error(t, err)
}

func TestJobStorage_SaveRejectsInvalid(t *testing.T) {
	storage := newTestJobStorage(t)

	err := storage.SaveJob(context.Background(), &models.GenerationJob{ID: "job_x"})
	assert.Error(t, err)
}

func TestJobStorage_FindActiveJob(t *testing.T) {
	storage := newTestJobStorage(t)
	ctx := context.Background()

	// No jobs yet
	found, err := storage.FindActiveJob(ctx, "course-1", "emp-1")
	require.NoError(t, err)
	assert.Nil(t, found)

	job := models.NewGenerationJob("course-1", "emp-1")
	require.NoError(t, storage.SaveJob(ctx, job))

	found, err = storage.FindActiveJob(ctx, "course-1", "emp-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, job.ID, found.ID)

	// Different pair does not match
	found, err = storage.FindActiveJob(ctx, "course-1", "emp-2")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestJobStorage_FindActiveJobIgnoresTerminal(t *testing.T) {
	storage := newTestJobStorage(t)
	ctx := context.Background()

	job := models.NewGenerationJob("course-1", "emp-1")
	require.NoError(t, storage.SaveJob(ctx, job))
	require.NoError(t, storage.UpdateJobStatus(ctx, job.ID, models.JobStatusCompleted, ""))

	found, err := storage.FindActiveJob(ctx, "course-1", "emp-1")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestJobStorage_FindActiveJobNewestWins(t *testing.T) {
	storage := newTestJobStorage(t)
	ctx := context.Background()

	older := models.NewGenerationJob("course-1", "emp-1")
	older.CreatedAt = time.Now().Add(-time.Minute)
	require.NoError(t, storage.SaveJob(ctx, older))

	newer := models.NewGenerationJob("course-1", "emp-1")
	require.NoError(t, storage.SaveJob(ctx, newer))

	found, err := storage.FindActiveJob(ctx, "course-1", "emp-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, newer.ID, found.ID)
}

func TestJobStorage_UpdateJobStatus(t *testing.T) {
	storage := newTestJobStorage(t)
	ctx := context.Background()

	job := models.NewGenerationJob("course-1", "emp-1")
	require.NoError(t, storage.SaveJob(ctx, job))

	require.NoError(t, storage.UpdateJobStatus(ctx, job.ID, models.JobStatusInProgress, ""))
	loaded, err := storage.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusInProgress, loaded.Status)
	assert.NotNil(t, loaded.StartedAt)
	assert.Nil(t, loaded.CompletedAt)

	require.NoError(t, storage.UpdateJobStatus(ctx, job.ID, models.JobStatusFailed, "model authentication failed"))
	loaded, err = storage.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, loaded.Status)
	assert.Equal(t, "model authentication failed", loaded.Error)
	assert.NotNil(t, loaded.CompletedAt)
}

func TestJobStorage_ListAndCount(t *testing.T) {
	storage := newTestJobStorage(t)
	ctx := context.Background()

	jobA := models.NewGenerationJob("course-1", "emp-1")
	require.NoError(t, storage.SaveJob(ctx, jobA))

	jobB := models.NewGenerationJob("course-2", "emp-1")
	require.NoError(t, storage.SaveJob(ctx, jobB))
	require.NoError(t, storage.UpdateJobStatus(ctx, jobB.ID, models.JobStatusCompleted, ""))

	all, err := storage.ListJobs(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCourse, err := storage.ListJobs(ctx, &interfaces.JobListOptions{CourseID: "course-1"})
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	assert.Equal(t, jobA.ID, byCourse[0].ID)

	pending, err := storage.CountJobsByStatus(ctx, models.JobStatusPending)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	completed, err := storage.CountJobsByStatus(ctx, models.JobStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)
}

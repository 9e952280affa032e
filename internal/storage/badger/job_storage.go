package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/interfaces"
	"github.com/ternarybob/doceo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// JobStorage implements the JobStorage interface for Badger
type JobStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewJobStorage creates a new JobStorage instance
func NewJobStorage(db *BadgerDB, logger arbor.ILogger) interfaces.JobStorage {
	return &JobStorage{
		db:     db,
		logger: logger,
	}
}

func (s *JobStorage) SaveJob(ctx context.Context, job *models.GenerationJob) error {
	if job == nil {
		return fmt.Errorf("job is required")
	}
	if err := job.Validate(); err != nil {
		return fmt.Errorf("invalid job: %w", err)
	}

	if err := s.db.Store().Upsert(job.ID, job); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

func (s *JobStorage) GetJob(ctx context.Context, jobID string) (*models.GenerationJob, error) {
	var job models.GenerationJob
	if err := s.db.Store().Get(jobID, &job); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("job not found: %s", jobID)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// FindActiveJob is the dedup lookup: newest pending or in_progress job for
// the pair, nil when none exists. Not transactional with the caller's
// subsequent insert; a near-simultaneous submission can slip past it.
func (s *JobStorage) FindActiveJob(ctx context.Context, courseID, employeeID string) (*models.GenerationJob, error) {
	var jobs []models.GenerationJob
	query := badgerhold.Where("CourseID").Eq(courseID).
		And("EmployeeID").Eq(employeeID).
		And("Status").In(models.JobStatusPending, models.JobStatusInProgress).
		SortBy("CreatedAt").Reverse()

	if err := s.db.Store().Find(&jobs, query); err != nil {
		return nil, fmt.Errorf("failed to query active jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	if len(jobs) > 1 {
		// Tolerated race duplicate; the newest row wins, nothing reconciles
		// the others.
		s.logger.Warn().
			Str("course_id", courseID).
			Str("employee_id", employeeID).
			Int("count", len(jobs)).
			Msg("Multiple active generation jobs found for pair")
	}
	return &jobs[0], nil
}

func (s *JobStorage) UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus, errorMsg string) error {
	var job models.GenerationJob
	if err := s.db.Store().Get(jobID, &job); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("job not found: %s", jobID)
		}
		return fmt.Errorf("failed to get job: %w", err)
	}

	now := time.Now()
	job.Status = status
	job.UpdatedAt = now
	if errorMsg != "" {
		job.Error = errorMsg
	}

	switch status {
	case models.JobStatusInProgress:
		job.StartedAt = &now
	case models.JobStatusCompleted, models.JobStatusFailed:
		job.CompletedAt = &now
	}

	return s.SaveJob(ctx, &job)
}

func (s *JobStorage) ListJobs(ctx context.Context, opts *interfaces.JobListOptions) ([]*models.GenerationJob, error) {
	query := badgerhold.Where("ID").Ne("")

	if opts != nil {
		if opts.CourseID != "" {
			query = query.And("CourseID").Eq(opts.CourseID)
		}
		if opts.EmployeeID != "" {
			query = query.And("EmployeeID").Eq(opts.EmployeeID)
		}
		if opts.Status != "" {
			query = query.And("Status").Eq(opts.Status)
		}
		if opts.Limit > 0 {
			query = query.Limit(opts.Limit)
		}
		if opts.Offset > 0 {
			query = query.Skip(opts.Offset)
		}
	}
	query = query.SortBy("CreatedAt").Reverse()

	var jobs []models.GenerationJob
	if err := s.db.Store().Find(&jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	result := make([]*models.GenerationJob, len(jobs))
	for i := range jobs {
		result[i] = &jobs[i]
	}
	return result, nil
}

func (s *JobStorage) CountJobsByStatus(ctx context.Context, status models.JobStatus) (int, error) {
	count, err := s.db.Store().Count(&models.GenerationJob{}, badgerhold.Where("Status").Eq(status))
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return int(count), nil
}

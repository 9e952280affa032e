package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/interfaces"
	"github.com/ternarybob/doceo/internal/models"
)

var (
	// ErrMissingIdentity indicates the submission carried no resolvable
	// course/employee pair.
	ErrMissingIdentity = errors.New("jobs: course id and employee id are required")

	// ErrJobCreationFailed indicates the job row could not be persisted. No
	// processing was scheduled.
	ErrJobCreationFailed = errors.New("jobs: failed to create generation job")
)

// SubmitResult reports what Submit did with a request. Deduplicated is true
// when an already-active job was re-triggered instead of a new one created.
type SubmitResult struct {
	Job          *models.GenerationJob
	Deduplicated bool
}

// Gateway is the single entry point for generation requests. It resolves
// identity, collapses duplicate submissions onto the active job for the
// pair, persists new jobs, and hands them to the trigger.
type Gateway struct {
	jobs        interfaces.JobStorage
	enrollments interfaces.EnrollmentStorage
	trigger     interfaces.JobTrigger
	logger      arbor.ILogger
}

func NewGateway(jobs interfaces.JobStorage, enrollments interfaces.EnrollmentStorage, trigger interfaces.JobTrigger, logger arbor.ILogger) *Gateway {
	return &Gateway{
		jobs:        jobs,
		enrollments: enrollments,
		trigger:     trigger,
		logger:      logger,
	}
}

// Submit accepts a generation request for a course/employee pair. When an
// active job already exists for the pair it is re-triggered and returned;
// otherwise a new pending job is created. The dedup lookup is best effort:
// two concurrent submissions can both pass it and create two jobs, which the
// worker and storage layers tolerate.
func (g *Gateway) Submit(ctx context.Context, courseID, employeeID string) (*SubmitResult, error) {
	courseID = strings.TrimSpace(courseID)
	employeeID = strings.TrimSpace(employeeID)
	if courseID == "" || employeeID == "" {
		return nil, ErrMissingIdentity
	}

	existing, err := g.jobs.FindActiveJob(ctx, courseID, employeeID)
	if err != nil {
		g.logger.Warn().
			Err(err).
			Str("course_id", courseID).
			Str("employee_id", employeeID).
			Msg("Active job lookup failed, proceeding with new job")
	}
	if existing != nil {
		g.logger.Info().
			Str("job_id", existing.ID).
			Str("course_id", courseID).
			Str("employee_id", employeeID).
			Str("status", string(existing.Status)).
			Msg("Reusing active generation job")

		g.fireTrigger(ctx, existing.ID)
		return &SubmitResult{Job: existing, Deduplicated: true}, nil
	}

	job := models.NewGenerationJob(courseID, employeeID)
	if err := g.jobs.SaveJob(ctx, job); err != nil {
		g.logger.Error().
			Err(err).
			Str("course_id", courseID).
			Str("employee_id", employeeID).
			Msg("Failed to persist generation job")
		return nil, fmt.Errorf("%w: %v", ErrJobCreationFailed, err)
	}

	if err := g.enrollments.SetGenerationStatus(ctx, courseID, employeeID, models.JobStatusPending); err != nil {
		g.logger.Warn().
			Err(err).
			Str("job_id", job.ID).
			Msg("Failed to update enrollment status")
	}

	g.logger.Info().
		Str("job_id", job.ID).
		Str("course_id", courseID).
		Str("employee_id", employeeID).
		Msg("Generation job created")

	g.fireTrigger(ctx, job.ID)
	return &SubmitResult{Job: job}, nil
}

// fireTrigger schedules processing. A trigger failure is logged, not
// returned: the job row exists and a later submission re-triggers it.
func (g *Gateway) fireTrigger(ctx context.Context, jobID string) {
	if g.trigger == nil {
		return
	}
	if err := g.trigger.Trigger(ctx, jobID); err != nil {
		g.logger.Warn().
			Err(err).
			Str("job_id", jobID).
			Msg("Failed to trigger job processing")
	}
}

package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/interfaces"
	"github.com/ternarybob/doceo/internal/models"
)

// processTimeout bounds a detached worker run kicked off by Trigger
const processTimeout = 10 * time.Minute

// Processor resolves a job's course and employee context from storage and
// hands the job to the generation worker. It is the in-process
// implementation of the JobTrigger contract the gateway fires.
type Processor struct {
	jobs    interfaces.JobStorage
	catalog interfaces.CatalogStorage
	worker  interfaces.GenerationWorker
	logger  arbor.ILogger
}

func NewProcessor(jobs interfaces.JobStorage, catalog interfaces.CatalogStorage, worker interfaces.GenerationWorker, logger arbor.ILogger) *Processor {
	return &Processor{
		jobs:    jobs,
		catalog: catalog,
		worker:  worker,
		logger:  logger,
	}
}

// Trigger schedules processing on a detached goroutine and returns
// immediately. The run carries its own timeout rather than the caller's
// context so an HTTP submission returning does not cancel generation.
func (p *Processor) Trigger(ctx context.Context, jobID string) error {
	go func() {
		runCtx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()

		if err := p.Process(runCtx, jobID); err != nil {
			p.logger.Error().
				Err(err).
				Str("job_id", jobID).
				Msg("Background job processing failed")
		}
	}()
	return nil
}

// Process runs generation for an existing job synchronously. Jobs already
// completed or failed are skipped; a re-trigger of a terminal job is a
// no-op, not an error.
func (p *Processor) Process(ctx context.Context, jobID string) error {
	job, err := p.jobs.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load job: %w", err)
	}
	if job.IsTerminal() {
		p.logger.Debug().
			Str("job_id", job.ID).
			Str("status", string(job.Status)).
			Msg("Job already terminal, skipping")
		return nil
	}

	courseMeta, outlines := p.resolveCourse(ctx, job)
	employeeCtx := p.resolveEmployee(ctx, job)

	if _, err := p.worker.Run(ctx, job, outlines, employeeCtx, courseMeta); err != nil {
		return fmt.Errorf("generation failed for job %s: %w", job.ID, err)
	}
	return nil
}

// resolveCourse loads the course record. A missing row degrades to a
// minimal meta built from the ID so generation still proceeds with derived
// outlines.
func (p *Processor) resolveCourse(ctx context.Context, job *models.GenerationJob) (models.CourseMeta, []models.ModuleOutline) {
	course, err := p.catalog.GetCourse(ctx, job.CourseID)
	if err != nil {
		p.logger.Warn().
			Err(err).
			Str("job_id", job.ID).
			Str("course_id", job.CourseID).
			Msg("Course lookup failed")
	}
	if course == nil {
		p.logger.Warn().
			Str("job_id", job.ID).
			Str("course_id", job.CourseID).
			Msg("Course record not found, using minimal course meta")
		return models.CourseMeta{ID: job.CourseID, Title: job.CourseID}, nil
	}
	return course.CourseMeta, course.Modules
}

func (p *Processor) resolveEmployee(ctx context.Context, job *models.GenerationJob) *models.EmployeeContext {
	employee, err := p.catalog.GetEmployee(ctx, job.EmployeeID)
	if err != nil {
		p.logger.Warn().
			Err(err).
			Str("job_id", job.ID).
			Str("employee_id", job.EmployeeID).
			Msg("Employee lookup failed")
	}
	return employee.Context()
}

package interfaces

import (
	"context"

	"github.com/ternarybob/doceo/internal/models"
)

// GenerationWorker produces personalized content for one job. Modules are
// generated strictly sequentially; per-module model failures degrade to
// templated content rather than failing the run.
type GenerationWorker interface {
	// Run executes the full generation pipeline for a job: prompt, model
	// invocation, section matching, assembly, persistence, job status
	// update. outlines may be nil, in which case a skeleton is derived from
	// courseMeta. employeeCtx may be nil.
	Run(ctx context.Context, job *models.GenerationJob, outlines []models.ModuleOutline, employeeCtx *models.EmployeeContext, courseMeta models.CourseMeta) (*models.PersonalizedContent, error)
}

// JobTrigger schedules worker execution for a newly created or re-submitted
// job. The server wires an in-process trigger; clients use the HTTP
// transport resolver, which implements the same contract.
type JobTrigger interface {
	// Trigger requests processing of the job. It returns once processing
	// has been accepted, not once it has finished.
	Trigger(ctx context.Context, jobID string) error
}

package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/common"
	"github.com/ternarybob/doceo/internal/interfaces"
	"github.com/ternarybob/doceo/internal/models"
	"github.com/ternarybob/doceo/internal/services/llm"
)

// ErrAuthenticationFailed indicates the model provider rejected the
// credential on the final module of a run. The job ends failed; earlier
// modules would fail identically on retry so the run is aborted.
var ErrAuthenticationFailed = errors.New("generation: model authentication failed")

// Worker executes the generation pipeline for one job: per-module prompt
// construction, model invocation, section matching, assembly, persistence,
// and job status transitions.
//
// Modules are generated strictly sequentially. Per-module model failures
// degrade to templated content; only a terminal authentication failure
// fails the whole job.
type Worker struct {
	jobs        interfaces.JobStorage
	content     interfaces.ContentStorage
	enrollments interfaces.EnrollmentStorage
	llmService  interfaces.LLMService // nil when no credential is configured
	config      *common.GenerationConfig
	logger      arbor.ILogger
}

// NewWorker creates a generation worker. llmService may be nil, in which
// case every run takes the mock-content path.
func NewWorker(
	jobs interfaces.JobStorage,
	content interfaces.ContentStorage,
	enrollments interfaces.EnrollmentStorage,
	llmService interfaces.LLMService,
	config *common.GenerationConfig,
	logger arbor.ILogger,
) *Worker {
	return &Worker{
		jobs:        jobs,
		content:     content,
		enrollments: enrollments,
		llmService:  llmService,
		config:      config,
		logger:      logger,
	}
}

// Run executes the full pipeline for a job and returns the produced
// content. Persistence errors after successful generation are logged, not
// returned: content that was generated is never discarded because a status
// row failed to update.
func (w *Worker) Run(ctx context.Context, job *models.GenerationJob, outlines []models.ModuleOutline, employeeCtx *models.EmployeeContext, courseMeta models.CourseMeta) (*models.PersonalizedContent, error) {
	if job == nil {
		return nil, fmt.Errorf("job is required")
	}

	w.markStarted(ctx, job)

	if len(outlines) == 0 {
		outlines = courseMeta.DeriveOutlines()
		w.logger.Debug().
			Str("job_id", job.ID).
			Int("modules", len(outlines)).
			Msg("Derived module outlines from course record")
	}
	if max := w.config.MaxModules; max > 0 && len(outlines) > max {
		w.logger.Warn().
			Str("job_id", job.ID).
			Int("requested", len(outlines)).
			Int("max", max).
			Msg("Outline list truncated to module cap")
		outlines = outlines[:max]
	}

	// No credential at all: skip model invocation and synthesize the whole
	// document from templates so the pipeline still produces something
	// persistable.
	if w.llmService == nil {
		if !w.config.MockOnMissing {
			err := fmt.Errorf("no model credential configured and mock content is disabled")
			w.markFailed(ctx, job, err.Error())
			return nil, err
		}
		w.logger.Warn().
			Str("job_id", job.ID).
			Msg("No model credential configured, generating mock content")

		content := buildMockContent(courseMeta, job.EmployeeID, outlines)
		content.CourseID = job.CourseID
		w.persist(ctx, job, content)
		return content, nil
	}

	usedCV := employeeCtx.HasCV()
	modules := make([]models.GeneratedModule, 0, len(outlines))

	for i, outline := range outlines {
		module, err := w.generateModule(ctx, job, outline, i, employeeCtx)
		if err != nil {
			lastModule := i == len(outlines)-1
			if llm.IsAuthError(err) && lastModule {
				// Remaining retries would fail identically; abort the run
				// and nothing is committed.
				w.logger.Error().
					Err(err).
					Str("job_id", job.ID).
					Str("module", outline.Title).
					Msg("Model authentication failed on final module, aborting run")
				w.markFailed(ctx, job, err.Error())
				return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
			}

			w.logger.Warn().
				Err(err).
				Str("job_id", job.ID).
				Str("module", outline.Title).
				Msg("Module generation failed, substituting fallback content")
			module = fallbackModule(outline, i)
		}
		modules = append(modules, module)
	}

	now := time.Now()
	content := &models.PersonalizedContent{
		ID:          common.NewContentID(),
		CourseID:    job.CourseID,
		EmployeeID:  job.EmployeeID,
		Title:       courseMeta.Title,
		Description: courseMeta.Description,
		Level:       contentLevel(courseMeta.Level),
		Modules:     modules,
		Metadata: models.ContentMetadata{
			GeneratedAt:  now,
			GeneratedFor: job.EmployeeID,
			UsedCVData:   usedCV,
			Provider:     w.llmService.Provider(),
			Model:        w.llmService.Model(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	w.persist(ctx, job, content)
	return content, nil
}

// generateModule runs the model for one outline and matches the output back
// onto the requested section structure
func (w *Worker) generateModule(ctx context.Context, job *models.GenerationJob, outline models.ModuleOutline, orderIndex int, employeeCtx *models.EmployeeContext) (models.GeneratedModule, error) {
	prompt := buildModulePrompt(outline, employeeCtx, w.config.DefaultRole)

	messages := []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}

	startTime := time.Now()
	raw, err := w.llmService.Chat(ctx, messages)
	latency := time.Since(startTime)

	if err != nil {
		return models.GeneratedModule{}, err
	}

	w.logger.Info().
		Str("job_id", job.ID).
		Str("module", outline.Title).
		Int("response_length", len(raw)).
		Dur("latency", latency).
		Msg("Module content generated")

	sections := matchSections(outline, raw)

	return models.GeneratedModule{
		ID:          common.NewModuleID(),
		Title:       outline.Title,
		Description: outline.Description,
		OrderIndex:  orderIndex,
		Sections:    sections,
		Resources:   []models.Resource{},
	}, nil
}

// markStarted flips the job and enrollment to in_progress. Failures are
// logged only; a stale status row must not block generation.
func (w *Worker) markStarted(ctx context.Context, job *models.GenerationJob) {
	if err := w.jobs.UpdateJobStatus(ctx, job.ID, models.JobStatusInProgress, ""); err != nil {
		w.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Failed to mark job in progress")
	}
	job.MarkStarted()

	if err := w.enrollments.SetGenerationStatus(ctx, job.CourseID, job.EmployeeID, models.JobStatusInProgress); err != nil {
		w.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Failed to update enrollment status")
	}
}

// markFailed records the terminal failure on the job and enrollment rows
func (w *Worker) markFailed(ctx context.Context, job *models.GenerationJob, errorMsg string) {
	if err := w.jobs.UpdateJobStatus(ctx, job.ID, models.JobStatusFailed, errorMsg); err != nil {
		w.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Failed to mark job failed")
	}
	job.MarkFailed(errorMsg)

	if err := w.enrollments.SetGenerationStatus(ctx, job.CourseID, job.EmployeeID, models.JobStatusFailed); err != nil {
		w.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Failed to update enrollment status")
	}
}

// persist saves the content row, repoints the enrollment, and completes the
// job. Every step logs-and-continues on error: generated content is already
// in hand and the poller's timeout covers a stale status row.
func (w *Worker) persist(ctx context.Context, job *models.GenerationJob, content *models.PersonalizedContent) {
	if err := w.content.SaveContent(ctx, content); err != nil {
		w.logger.Error().
			Err(err).
			Str("job_id", job.ID).
			Str("content_id", content.ID).
			Msg("Failed to persist personalized content")
		return
	}

	if err := w.enrollments.SetActiveContent(ctx, job.CourseID, job.EmployeeID, content.ID); err != nil {
		w.logger.Error().
			Err(err).
			Str("job_id", job.ID).
			Str("content_id", content.ID).
			Msg("Failed to update enrollment content pointer")
	}

	if err := w.jobs.UpdateJobStatus(ctx, job.ID, models.JobStatusCompleted, ""); err != nil {
		w.logger.Error().
			Err(err).
			Str("job_id", job.ID).
			Msg("Failed to mark job completed")
	}
	job.MarkCompleted()

	w.logger.Info().
		Str("job_id", job.ID).
		Str("content_id", content.ID).
		Int("modules", len(content.Modules)).
		Str("provider", content.Metadata.Provider).
		Msg("Personalized content generation completed")
}

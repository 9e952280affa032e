package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/interfaces"
	"github.com/ternarybob/doceo/internal/services/jobs"
)

// GenerationHandler handles content generation API requests
type GenerationHandler struct {
	gateway   *jobs.Gateway
	processor *jobs.Processor
	content   interfaces.ContentStorage
	jobStore  interfaces.JobStorage
	validate  *validator.Validate
	logger    arbor.ILogger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(gateway *jobs.Gateway, processor *jobs.Processor, content interfaces.ContentStorage, jobStore interfaces.JobStorage, logger arbor.ILogger) *GenerationHandler {
	return &GenerationHandler{
		gateway:   gateway,
		processor: processor,
		content:   content,
		jobStore:  jobStore,
		validate:  validator.New(),
		logger:    logger,
	}
}

// RegenerateRequest is the body of POST /api/regenerate-content. EmployeeID
// may be omitted when the bearer token identifies the caller; the auth
// middleware stores the resolved subject on the request context.
type RegenerateRequest struct {
	CourseID        string `json:"course_id" validate:"required"`
	EmployeeID      string `json:"employee_id"`
	ForceRegenerate bool   `json:"force_regenerate"`
}

// RegenerateHandler accepts a generation request for a course/employee pair
// POST /api/regenerate-content
func (h *GenerationHandler) RegenerateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "course_id is required")
		return
	}

	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = SubjectFromContext(r.Context())
	}

	if req.ForceRegenerate {
		removed, err := h.content.DeleteContentForPair(r.Context(), req.CourseID, employeeID)
		if err != nil {
			h.logger.Warn().
				Err(err).
				Str("course_id", req.CourseID).
				Str("employee_id", employeeID).
				Msg("Failed to delete prior content for forced regeneration")
		} else if removed > 0 {
			h.logger.Info().
				Str("course_id", req.CourseID).
				Str("employee_id", employeeID).
				Int("removed", removed).
				Msg("Removed prior content for forced regeneration")
		}
	}

	result, err := h.gateway.Submit(r.Context(), req.CourseID, employeeID)
	if err != nil {
		switch {
		case errors.Is(err, jobs.ErrMissingIdentity):
			WriteError(w, http.StatusBadRequest, "course_id and employee_id are required")
		case errors.Is(err, jobs.ErrJobCreationFailed):
			WriteError(w, http.StatusInternalServerError, "Failed to create generation job")
		default:
			WriteError(w, http.StatusInternalServerError, "Failed to submit generation request")
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"job_id":       result.Job.ID,
		"deduplicated": result.Deduplicated,
	})
}

// ProcessJobRequest is the body of the process endpoints
type ProcessJobRequest struct {
	JobID string `json:"job_id" validate:"required"`
}

// ProcessJobHandler runs generation for an existing job. Both the proxy
// path and the direct path route here; POST carries a JSON body, GET a
// job_id query parameter.
// POST|GET /api/proxy-process-job, POST|GET /api/personalize-content/process
func (h *GenerationHandler) ProcessJobHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethods(w, r, "POST", "GET") {
		return
	}

	var jobID string
	if r.Method == "POST" {
		var req ProcessJobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		jobID = req.JobID
	} else {
		jobID = r.URL.Query().Get("job_id")
	}

	if jobID == "" {
		WriteError(w, http.StatusBadRequest, "job_id is required")
		return
	}

	if err := h.processor.Process(r.Context(), jobID); err != nil {
		h.logger.Error().
			Err(err).
			Str("job_id", jobID).
			Msg("Job processing failed")
		WriteError(w, http.StatusInternalServerError, "Job processing failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// GetJobHandler returns a job row by ID
// GET /api/jobs/{id}
func (h *GenerationHandler) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(w, http.StatusBadRequest, "Job ID is required")
		return
	}

	job, err := h.jobStore.GetJob(r.Context(), jobID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	WriteJSON(w, http.StatusOK, job)
}

// ListJobsHandler returns jobs filtered by query parameters, newest first
// GET /api/jobs?course_id=...&employee_id=...&status=...&limit=50
func (h *GenerationHandler) ListJobsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	opts := &interfaces.JobListOptions{
		CourseID:   r.URL.Query().Get("course_id"),
		EmployeeID: r.URL.Query().Get("employee_id"),
		Limit:      50,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		opts.Status = parseJobStatus(status)
	}

	jobsList, err := h.jobStore.ListJobs(r.Context(), opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list jobs")
		WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}

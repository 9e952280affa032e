package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/interfaces"
	"github.com/ternarybob/doceo/internal/models"
)

// CatalogHandler syncs course and employee records in ahead of generation
type CatalogHandler struct {
	catalog  interfaces.CatalogStorage
	validate *validator.Validate
	logger   arbor.ILogger
}

func NewCatalogHandler(catalog interfaces.CatalogStorage, logger arbor.ILogger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		validate: validator.New(),
		logger:   logger,
	}
}

type courseUpsertRequest struct {
	ID                string                 `json:"id" validate:"required"`
	Title             string                 `json:"title" validate:"required"`
	Description       string                 `json:"description"`
	Level             string                 `json:"level"`
	EstimatedDuration string                 `json:"estimated_duration"`
	Modules           []models.ModuleOutline `json:"modules"`
}

// UpsertCourseHandler stores a course record
// POST /api/courses
func (h *CatalogHandler) UpsertCourseHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req courseUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "id and title are required")
		return
	}

	course := &models.Course{
		CourseMeta: models.CourseMeta{
			ID:                req.ID,
			Title:             req.Title,
			Description:       req.Description,
			Level:             req.Level,
			EstimatedDuration: req.EstimatedDuration,
		},
		Modules: req.Modules,
	}
	if err := h.catalog.SaveCourse(r.Context(), course); err != nil {
		h.logger.Error().Err(err).Str("course_id", req.ID).Msg("Failed to save course")
		WriteError(w, http.StatusInternalServerError, "Failed to save course")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"course_id": course.ID,
	})
}

// GetCourseHandler returns a course record by ID
// GET /api/courses/{id}
func (h *CatalogHandler) GetCourseHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	courseID := r.PathValue("id")
	if courseID == "" {
		WriteError(w, http.StatusBadRequest, "Course ID is required")
		return
	}

	course, err := h.catalog.GetCourse(r.Context(), courseID)
	if err != nil {
		h.logger.Error().Err(err).Str("course_id", courseID).Msg("Failed to load course")
		WriteError(w, http.StatusInternalServerError, "Failed to load course")
		return
	}
	if course == nil {
		WriteError(w, http.StatusNotFound, "Course not found")
		return
	}

	WriteJSON(w, http.StatusOK, course)
}

type employeeUpsertRequest struct {
	ID         string `json:"id" validate:"required"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Department string `json:"department"`
	CVSummary  string `json:"cv_summary"`
}

// UpsertEmployeeHandler stores an employee record
// POST /api/employees
func (h *CatalogHandler) UpsertEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req employeeUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "id is required")
		return
	}

	employee := &models.Employee{
		ID:         req.ID,
		Name:       req.Name,
		Position:   req.Position,
		Department: req.Department,
		CVSummary:  req.CVSummary,
	}
	if err := h.catalog.SaveEmployee(r.Context(), employee); err != nil {
		h.logger.Error().Err(err).Str("employee_id", req.ID).Msg("Failed to save employee")
		WriteError(w, http.StatusInternalServerError, "Failed to save employee")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"employee_id": employee.ID,
	})
}

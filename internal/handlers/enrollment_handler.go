package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/interfaces"
)

// EnrollmentHandler serves the enrollment status rows clients poll
type EnrollmentHandler struct {
	enrollments interfaces.EnrollmentStorage
	content     interfaces.ContentStorage
	logger      arbor.ILogger
}

func NewEnrollmentHandler(enrollments interfaces.EnrollmentStorage, content interfaces.ContentStorage, logger arbor.ILogger) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollments: enrollments,
		content:     content,
		logger:      logger,
	}
}

// GetEnrollmentHandler returns the enrollment row for a course/user pair.
// The poller reads personalized_content_generation_status from this
// response.
// GET /api/courses/{id}/enrollment?user_id=...
func (h *EnrollmentHandler) GetEnrollmentHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	courseID := r.PathValue("id")
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = SubjectFromContext(r.Context())
	}
	if courseID == "" || userID == "" {
		WriteError(w, http.StatusBadRequest, "course id and user_id are required")
		return
	}

	enrollment, err := h.enrollments.GetEnrollment(r.Context(), courseID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("course_id", courseID).
			Str("user_id", userID).
			Msg("Failed to load enrollment")
		WriteError(w, http.StatusInternalServerError, "Failed to load enrollment")
		return
	}
	if enrollment == nil {
		WriteError(w, http.StatusNotFound, "Enrollment not found")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"enrollment": enrollment,
	})
}

// GetContentHandler returns the active personalized content for a
// course/user pair
// GET /api/courses/{id}/content?user_id=...
func (h *EnrollmentHandler) GetContentHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	courseID := r.PathValue("id")
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = SubjectFromContext(r.Context())
	}
	if courseID == "" || userID == "" {
		WriteError(w, http.StatusBadRequest, "course id and user_id are required")
		return
	}

	content, err := h.content.GetActiveContent(r.Context(), courseID, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("course_id", courseID).
			Str("user_id", userID).
			Msg("Failed to load content")
		WriteError(w, http.StatusInternalServerError, "Failed to load content")
		return
	}
	if content == nil {
		WriteError(w, http.StatusNotFound, "No personalized content for this enrollment")
		return
	}

	WriteJSON(w, http.StatusOK, content)
}

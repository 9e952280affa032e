package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Content generation
	mux.HandleFunc("/api/regenerate-content", s.app.GenerationHandler.RegenerateHandler)
	mux.HandleFunc("/api/proxy-process-job", s.app.GenerationHandler.ProcessJobHandler)
	mux.HandleFunc("/api/personalize-content/process", s.app.GenerationHandler.ProcessJobHandler)

	// Jobs
	mux.HandleFunc("/api/jobs", s.app.GenerationHandler.ListJobsHandler)
	mux.HandleFunc("/api/jobs/{id}", s.app.GenerationHandler.GetJobHandler)

	// Catalog
	mux.HandleFunc("/api/courses", s.app.CatalogHandler.UpsertCourseHandler)
	mux.HandleFunc("/api/courses/{id}", s.app.CatalogHandler.GetCourseHandler)
	mux.HandleFunc("/api/employees", s.app.CatalogHandler.UpsertEmployeeHandler)

	// Enrollment status and content readback
	mux.HandleFunc("/api/courses/{id}/enrollment", s.app.EnrollmentHandler.GetEnrollmentHandler)
	mux.HandleFunc("/api/courses/{id}/content", s.app.EnrollmentHandler.GetContentHandler)

	// System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

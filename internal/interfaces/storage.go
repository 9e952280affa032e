package interfaces

import (
	"context"

	"github.com/ternarybob/doceo/internal/models"
)

// JobStorage persists generation job records
type JobStorage interface {
	// SaveJob inserts or updates a job record
	SaveJob(ctx context.Context, job *models.GenerationJob) error

	// GetJob returns a job by ID
	GetJob(ctx context.Context, jobID string) (*models.GenerationJob, error)

	// FindActiveJob returns the most recently created job with status
	// pending or in_progress for the (course, employee) pair, or nil when
	// none exists. This is the dedup lookup: best effort, not transactional
	// with the subsequent insert.
	FindActiveJob(ctx context.Context, courseID, employeeID string) (*models.GenerationJob, error)

	// UpdateJobStatus transitions a job's status, recording start/completion
	// timestamps and an optional error message
	UpdateJobStatus(ctx context.Context, jobID string, status models.JobStatus, errorMsg string) error

	// ListJobs returns jobs filtered by the options, newest first
	ListJobs(ctx context.Context, opts *JobListOptions) ([]*models.GenerationJob, error)

	// CountJobsByStatus returns the number of jobs in the given status
	CountJobsByStatus(ctx context.Context, status models.JobStatus) (int, error)
}

// JobListOptions filters job listings
type JobListOptions struct {
	CourseID   string
	EmployeeID string
	Status     models.JobStatus
	Limit      int
	Offset     int
}

// ContentStorage persists generated personalized content
type ContentStorage interface {
	// SaveContent inserts a content row and marks it active, clearing the
	// active flag on prior rows for the same (course, employee) pair.
	// Prior rows are retained as history.
	SaveContent(ctx context.Context, content *models.PersonalizedContent) error

	// GetContent returns a content row by ID
	GetContent(ctx context.Context, contentID string) (*models.PersonalizedContent, error)

	// GetActiveContent returns the active content row for a
	// (course, employee) pair, or nil when none exists
	GetActiveContent(ctx context.Context, courseID, employeeID string) (*models.PersonalizedContent, error)

	// DeleteContentForPair removes all content rows for a
	// (course, employee) pair. Used by force regeneration.
	DeleteContentForPair(ctx context.Context, courseID, employeeID string) (int, error)
}

// EnrollmentStorage persists the enrollment pointer rows the poller reads
type EnrollmentStorage interface {
	// GetEnrollment returns the enrollment for a (course, employee) pair,
	// or nil when none exists
	GetEnrollment(ctx context.Context, courseID, employeeID string) (*models.Enrollment, error)

	// UpsertEnrollment creates or updates the enrollment row
	UpsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error

	// SetGenerationStatus updates the enrollment's generation status field,
	// creating the enrollment row if it does not exist yet
	SetGenerationStatus(ctx context.Context, courseID, employeeID string, status models.JobStatus) error

	// SetActiveContent points the enrollment at a new content row and marks
	// the generation status completed
	SetActiveContent(ctx context.Context, courseID, employeeID, contentID string) error
}

// CatalogStorage persists the course and employee records generation reads
type CatalogStorage interface {
	// SaveCourse inserts or updates a course record
	SaveCourse(ctx context.Context, course *models.Course) error

	// GetCourse returns a course by ID, or nil when none exists
	GetCourse(ctx context.Context, courseID string) (*models.Course, error)

	// SaveEmployee inserts or updates an employee record
	SaveEmployee(ctx context.Context, employee *models.Employee) error

	// GetEmployee returns an employee by ID, or nil when none exists
	GetEmployee(ctx context.Context, employeeID string) (*models.Employee, error)
}

// StorageManager aggregates the storage interfaces behind one handle
type StorageManager interface {
	JobStorage() JobStorage
	ContentStorage() ContentStorage
	EnrollmentStorage() EnrollmentStorage
	CatalogStorage() CatalogStorage
	Close() error
}

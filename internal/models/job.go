// -----------------------------------------------------------------------
// Generation Job - persisted record of one content-generation request
// -----------------------------------------------------------------------

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a generation job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// GenerationJob represents one content-generation request for a
// (course, employee) pair.
//
// Job State Lifecycle:
//  1. Created by the submission gateway with status "pending"
//  2. Worker marks it "in_progress" when a run begins
//  3. Worker marks it "completed" or "failed" when the run settles
//
// Invariant (best effort): at most one job with status pending or
// in_progress per (course, employee) pair. The gateway enforces this with a
// pre-creation lookup, not a storage constraint, so a rare duplicate from a
// submission race is tolerated rather than reconciled.
type GenerationJob struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"course_id"`
	EmployeeID string    `json:"employee_id"`
	Status     JobStatus `json:"status"`
	Error      string    `json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewGenerationJob creates a new pending job for a (course, employee) pair
func NewGenerationJob(courseID, employeeID string) *GenerationJob {
	now := time.Now()
	return &GenerationJob{
		ID:         "job_" + uuid.New().String(),
		CourseID:   courseID,
		EmployeeID: employeeID,
		Status:     JobStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// MarkStarted transitions the job to in_progress
func (j *GenerationJob) MarkStarted() {
	now := time.Now()
	j.Status = JobStatusInProgress
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkCompleted transitions the job to completed
func (j *GenerationJob) MarkCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkFailed transitions the job to failed with an error message
func (j *GenerationJob) MarkFailed(errorMsg string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.Error = errorMsg
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// IsActive returns true while the job counts against the dedup invariant
func (j *GenerationJob) IsActive() bool {
	return j.Status == JobStatusPending || j.Status == JobStatusInProgress
}

// IsTerminal returns true if the job is in a terminal state
func (j *GenerationJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// Validate validates the job record
func (j *GenerationJob) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("job ID is required")
	}
	if j.CourseID == "" {
		return fmt.Errorf("job course ID is required")
	}
	if j.EmployeeID == "" {
		return fmt.Errorf("job employee ID is required")
	}
	switch j.Status {
	case JobStatusPending, JobStatusInProgress, JobStatusCompleted, JobStatusFailed:
	default:
		return fmt.Errorf("invalid job status: %s", j.Status)
	}
	return nil
}

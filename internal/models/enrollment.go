package models

import (
	"time"
)

// Enrollment is the pointer row linking an employee's course enrollment to
// its active personalized content. The generation status field mirrors the
// job status and is what the client-side poller reads.
type Enrollment struct {
	ID                      string    `json:"id"`
	CourseID                string    `json:"course_id"`
	EmployeeID              string    `json:"employee_id"`
	PersonalizedContentID   string    `json:"personalized_content_id,omitempty"`
	ContentGenerationStatus JobStatus `json:"personalized_content_generation_status"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// EnrollmentKey identifies an enrollment by its (course, employee) pair
func EnrollmentKey(courseID, employeeID string) string {
	return courseID + "|" + employeeID
}

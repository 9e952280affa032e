package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/interfaces"
	"github.com/ternarybob/doceo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// EnrollmentStorage implements the EnrollmentStorage interface for Badger.
// Enrollments are keyed by the (course, employee) pair so status updates
// never need a lookup query.
type EnrollmentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewEnrollmentStorage creates a new EnrollmentStorage instance
func NewEnrollmentStorage(db *BadgerDB, logger arbor.ILogger) interfaces.EnrollmentStorage {
	return &EnrollmentStorage{
		db:     db,
		logger: logger,
	}
}

func (s *EnrollmentStorage) GetEnrollment(ctx context.Context, courseID, employeeID string) (*models.Enrollment, error) {
	key := models.EnrollmentKey(courseID, employeeID)

	var enrollment models.Enrollment
	if err := s.db.Store().Get(key, &enrollment); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return &enrollment, nil
}

func (s *EnrollmentStorage) UpsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment == nil {
		return fmt.Errorf("enrollment is required")
	}
	if enrollment.CourseID == "" || enrollment.EmployeeID == "" {
		return fmt.Errorf("enrollment course ID and employee ID are required")
	}

	key := models.EnrollmentKey(enrollment.CourseID, enrollment.EmployeeID)
	if enrollment.ID == "" {
		enrollment.ID = key
	}
	enrollment.UpdatedAt = time.Now()
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = enrollment.UpdatedAt
	}

	if err := s.db.Store().Upsert(key, enrollment); err != nil {
		return fmt.Errorf("failed to save enrollment: %w", err)
	}
	return nil
}

func (s *EnrollmentStorage) SetGenerationStatus(ctx context.Context, courseID, employeeID string, status models.JobStatus) error {
	enrollment, err := s.GetEnrollment(ctx, courseID, employeeID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		enrollment = &models.Enrollment{
			CourseID:   courseID,
			EmployeeID: employeeID,
		}
	}

	enrollment.ContentGenerationStatus = status
	return s.UpsertEnrollment(ctx, enrollment)
}

func (s *EnrollmentStorage) SetActiveContent(ctx context.Context, courseID, employeeID, contentID string) error {
	enrollment, err := s.GetEnrollment(ctx, courseID, employeeID)
	if err != nil {
		return err
	}
	if enrollment == nil {
		enrollment = &models.Enrollment{
			CourseID:   courseID,
			EmployeeID: employeeID,
		}
	}

	enrollment.PersonalizedContentID = contentID
	enrollment.ContentGenerationStatus = models.JobStatusCompleted
	return s.UpsertEnrollment(ctx, enrollment)
}

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

// CatalogStorage implements the CatalogStorage interface for Badger
type CatalogStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCatalogStorage creates a new CatalogStorage instance
func NewCatalogStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CatalogStorage {
	return &CatalogStorage{
		db:     db,
		logger: logger,
	}
}

func (s *CatalogStorage) SaveCourse(ctx context.Context, course *models.Course) error {
	if course == nil || course.ID == "" {
		return fmt.Errorf("course with id is required")
	}

	now := time.Now()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	if err := s.db.Store().Upsert(course.ID, course); err != nil {
		return fmt.Errorf("failed to save course: %w", err)
	}
	return nil
}

func (s *CatalogStorage) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	var course models.Course
	if err := s.db.Store().Get(courseID, &course); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &course, nil
}

func (s *CatalogStorage) SaveEmployee(ctx context.Context, employee *models.Employee) error {
	if employee == nil || employee.ID == "" {
		return fmt.Errorf("employee with id is required")
	}

	now := time.Now()
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = now
	}
	employee.UpdatedAt = now

	if err := s.db.Store().Upsert(employee.ID, employee); err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

func (s *CatalogStorage) GetEmployee(ctx context.Context, employeeID string) (*models.Employee, error) {
	var employee models.Employee
	if err := s.db.Store().Get(employeeID, &employee); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &employee, nil
}

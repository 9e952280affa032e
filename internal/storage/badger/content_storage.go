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

// ContentStorage implements the ContentStorage interface for Badger
type ContentStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewContentStorage creates a new ContentStorage instance
func NewContentStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ContentStorage {
	return &ContentStorage{
		db:     db,
		logger: logger,
	}
}

// SaveContent inserts the row as active and demotes prior active rows for
// the pair. Demotion failures are logged, not returned: a stale extra
// active row is tolerated, losing new content is not.
func (s *ContentStorage) SaveContent(ctx context.Context, content *models.PersonalizedContent) error {
	if content == nil {
		return fmt.Errorf("content is required")
	}
	if err := content.Validate(); err != nil {
		return fmt.Errorf("invalid content: %w", err)
	}

	var prior []models.PersonalizedContent
	query := badgerhold.Where("CourseID").Eq(content.CourseID).
		And("EmployeeID").Eq(content.EmployeeID).
		And("IsActive").Eq(true)
	if err := s.db.Store().Find(&prior, query); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to query prior active content")
	}

	content.IsActive = true
	content.UpdatedAt = time.Now()
	if err := s.db.Store().Upsert(content.ID, content); err != nil {
		return fmt.Errorf("failed to save content: %w", err)
	}

	for i := range prior {
		if prior[i].ID == content.ID {
			continue
		}
		prior[i].IsActive = false
		prior[i].UpdatedAt = time.Now()
		if err := s.db.Store().Upsert(prior[i].ID, &prior[i]); err != nil {
			s.logger.Warn().Err(err).Str("content_id", prior[i].ID).Msg("Failed to demote prior active content")
		}
	}

	return nil
}

func (s *ContentStorage) GetContent(ctx context.Context, contentID string) (*models.PersonalizedContent, error) {
	var content models.PersonalizedContent
	if err := s.db.Store().Get(contentID, &content); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("content not found: %s", contentID)
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	return &content, nil
}

func (s *ContentStorage) GetActiveContent(ctx context.Context, courseID, employeeID string) (*models.PersonalizedContent, error) {
	var rows []models.PersonalizedContent
	query := badgerhold.Where("CourseID").Eq(courseID).
		And("EmployeeID").Eq(employeeID).
		And("IsActive").Eq(true).
		SortBy("UpdatedAt").Reverse()

	if err := s.db.Store().Find(&rows, query); err != nil {
		return nil, fmt.Errorf("failed to query active content: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	// Most recently updated row is authoritative when a race left duplicates.
	return &rows[0], nil
}

func (s *ContentStorage) DeleteContentForPair(ctx context.Context, courseID, employeeID string) (int, error) {
	var rows []models.PersonalizedContent
	query := badgerhold.Where("CourseID").Eq(courseID).And("EmployeeID").Eq(employeeID)
	if err := s.db.Store().Find(&rows, query); err != nil {
		return 0, fmt.Errorf("failed to query content for deletion: %w", err)
	}

	deleted := 0
	for i := range rows {
		if err := s.db.Store().Delete(rows[i].ID, &models.PersonalizedContent{}); err != nil {
			if err == badgerhold.ErrNotFound {
				continue
			}
			return deleted, fmt.Errorf("failed to delete content %s: %w", rows[i].ID, err)
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info().
			Str("course_id", courseID).
			Str("employee_id", employeeID).
			Int("deleted", deleted).
			Msg("Deleted prior personalized content")
	}
	return deleted, nil
}

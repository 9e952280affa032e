package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/common"
	"github.com/ternarybob/doceo/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db         *BadgerDB
	job        interfaces.JobStorage
	content    interfaces.ContentStorage
	enrollment interfaces.EnrollmentStorage
	catalog    interfaces.CatalogStorage
	logger     arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:         db,
		job:        NewJobStorage(db, logger),
		content:    NewContentStorage(db, logger),
		enrollment: NewEnrollmentStorage(db, logger),
		catalog:    NewCatalogStorage(db, logger),
		logger:     logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// JobStorage returns the generation-job storage interface
func (m *Manager) JobStorage() interfaces.JobStorage {
	return m.job
}

// ContentStorage returns the personalized-content storage interface
func (m *Manager) ContentStorage() interfaces.ContentStorage {
	return m.content
}

// EnrollmentStorage returns the enrollment storage interface
func (m *Manager) EnrollmentStorage() interfaces.EnrollmentStorage {
	return m.enrollment
}

// CatalogStorage returns the course/employee catalog storage interface
func (m *Manager) CatalogStorage() interfaces.CatalogStorage {
	return m.catalog
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/doceo/internal/common"
	"github.com/ternarybob/doceo/internal/interfaces"
	"github.com/ternarybob/doceo/internal/models"
)

func newTestContentStorage(t *testing.T) interfaces.ContentStorage {
	t.Helper()
	return NewContentStorage(newTestDB(t), arbor.NewLogger())
}

func testContent(courseID, employeeID string) *models.PersonalizedContent {
	now := time.Now()
	return &models.PersonalizedContent{
		ID:         common.NewContentID(),
		CourseID:   courseID,
		EmployeeID: employeeID,
		Title:      "Go Fundamentals",
		Modules: []models.GeneratedModule{
			{
				ID:    common.NewModuleID(),
				Title: "Introduction",
				Sections: []models.GeneratedSection{
					{ID: common.NewSectionID(), Title: "Overview", Content: "## Overview\n\nWelcome.", ContentType: "text"},
				},
				Resources: []models.Resource{},
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestContentStorage_SaveAndGetActive(t *testing.T) {
	storage := newTestContentStorage(t)
	ctx := context.Background()

	content := testContent("course-1", "emp-1")
	require.NoError(t, storage.SaveContent(ctx, content))

	active, err := storage.GetActiveContent(ctx, "course-1", "emp-1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, content.ID, active.ID)
	assert.True(t, active.IsActive)

	loaded, err := storage.GetContent(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go Fundamentals", loaded.Title)
}

func TestContentStorage_SaveDemotesPriorActive(t *testing.T) {
	storage := newTestContentStorage(t)
	ctx := context.Background()

	first := testContent("course-1", "emp-1")
	require.NoError(t, storage.SaveContent(ctx, first))

	second := testContent("course-1", "emp-1")
	require.NoError(t, storage.SaveContent(ctx, second))

	active, err := storage.GetActiveContent(ctx, "course-1", "emp-1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	// Prior row is retained as history, no longer active
	prior, err := storage.GetContent(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, prior.IsActive)
}

func TestContentStorage_GetActiveMissing(t *testing.T) {
	storage := newTestContentStorage(t)

	active, err := storage.GetActiveContent(context.Background(), "course-x", "emp-x")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestContentStorage_SaveRejectsEmptyModules(t *testing.T) {
	storage := newTestContentStorage(t)

	content := testContent("course-1", "emp-1")
	content.Modules = nil
	assert.Error(t, storage.SaveContent(context.Background(), content))
}

func TestContentStorage_DeleteContentForPair(t *testing.T) {
	storage := newTestContentStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.SaveContent(ctx, testContent("course-1", "emp-1")))
	require.NoError(t, storage.SaveContent(ctx, testContent("course-1", "emp-1")))
	other := testContent("course-2", "emp-1")
	require.NoError(t, storage.SaveContent(ctx, other))

	deleted, err := storage.DeleteContentForPair(ctx, "course-1", "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	active, err := storage.GetActiveContent(ctx, "course-1", "emp-1")
	require.NoError(t, err)
	assert.Nil(t, active)

	// Other pair untouched
	remaining, err := storage.GetActiveContent(ctx, "course-2", "emp-1")
	require.NoError(t, err)
	require.NotNil(t, remaining)
	assert.Equal(t, other.ID, remaining.ID)
}

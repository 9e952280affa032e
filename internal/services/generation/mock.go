package generation

import (
	"fmt"
	"time"

	"github.com/ternarybob/doceo/internal/common"
	"github.com/ternarybob/doceo/internal/models"
)

// buildMockContent synthesizes a full PersonalizedContent document without
// any model invocation, templated from the course title. Used when no model
// credential is available: the pipeline still returns something persistable.
func buildMockContent(courseMeta models.CourseMeta, employeeID string, outlines []models.ModuleOutline) *models.PersonalizedContent {
	title := courseMeta.Title
	if title == "" {
		title = "Untitled Course"
	}

	if len(outlines) == 0 {
		outlines = courseMeta.DeriveOutlines()
	}

	modules := make([]models.GeneratedModule, 0, len(outlines))
	for i, outline := range outlines {
		modules = append(modules, buildMockModule(outline, title, i))
	}

	now := time.Now()
	return &models.PersonalizedContent{
		ID:          common.NewContentID(),
		CourseID:    courseMeta.ID,
		EmployeeID:  employeeID,
		Title:       title,
		Description: fmt.Sprintf("This course covers %s with a focus on practical applications.", title),
		Level:       contentLevel(courseMeta.Level),
		Modules:     modules,
		Metadata: models.ContentMetadata{
			GeneratedAt:  now,
			GeneratedFor: employeeID,
			UsedCVData:   false,
			Provider:     "mock",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// buildMockModule templates one module from its outline
func buildMockModule(outline models.ModuleOutline, courseTitle string, orderIndex int) models.GeneratedModule {
	sections := make([]models.GeneratedSection, 0, len(outline.Sections))
	for j, sectionOutline := range outline.Sections {
		sections = append(sections, models.GeneratedSection{
			ID:          common.NewSectionID(),
			Title:       sectionOutline.Title,
			Content:     mockSectionContent(sectionOutline.Title, outline.Title),
			ContentType: sectionContentType(sectionOutline.Type),
			OrderIndex:  j,
			Duration:    sectionOutline.Duration,
		})
	}

	return models.GeneratedModule{
		ID:          common.NewModuleID(),
		Title:       outline.Title,
		Description: fmt.Sprintf("This module explains important concepts related to %s.", outline.Title),
		OrderIndex:  orderIndex,
		Sections:    sections,
		Resources:   []models.Resource{},
		Quiz:        buildMockQuiz(outline.Title),
	}
}

// fallbackModule builds degraded content for one module after a non-auth
// model failure. Title and section skeleton come from the outline; bodies
// are synthesized placeholders.
func fallbackModule(outline models.ModuleOutline, orderIndex int) models.GeneratedModule {
	module := buildMockModule(outline, outline.Title, orderIndex)
	module.Degraded = true
	module.Quiz = nil

	for i := range module.Sections {
		module.Sections[i].Content = synthesizeSectionContent(module.Sections[i].Title, outline.Title)
	}
	return module
}

func mockSectionContent(sectionTitle, moduleTitle string) string {
	return fmt.Sprintf("## %s\n\nThis section explains important concepts related to %s.\n\nAfter studying this section, you'll be able to apply these concepts in real-world scenarios.", sectionTitle, moduleTitle)
}

// buildMockQuiz templates a five-question multiple-choice knowledge check
func buildMockQuiz(moduleTitle string) *models.Quiz {
	questions := make([]models.QuizQuestion, 0, 5)
	for k := 0; k < 5; k++ {
		questions = append(questions, models.QuizQuestion{
			ID:   common.NewQuestionID(),
			Text: fmt.Sprintf("Question %d about %s", k+1, moduleTitle),
			Type: "multiple_choice",
			Options: []models.QuizOption{
				{ID: "a", Text: "First potential answer"},
				{ID: "b", Text: "Second potential answer"},
				{ID: "c", Text: "Third potential answer"},
				{ID: "d", Text: "Fourth potential answer"},
			},
			CorrectAnswer: "a",
			Explanation:   "Explanation for the correct answer",
		})
	}

	return &models.Quiz{
		ID:        common.NewQuizID(),
		Title:     fmt.Sprintf("Knowledge check: %s", moduleTitle),
		Questions: questions,
	}
}

func contentLevel(level string) string {
	if level == "" {
		return "Intermediate"
	}
	return level
}

// -----------------------------------------------------------------------
// Personalized Content - generated course content persisted per enrollment
// -----------------------------------------------------------------------

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// GeneratedSection holds the model-produced (or synthesized) content for one
// outline section. Content is markdown, normally starting with a "##" heading.
type GeneratedSection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	OrderIndex  int    `json:"order_index"`
	Duration    string `json:"duration,omitempty"`
}

// QuizOption is one selectable answer of a quiz question
type QuizOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuizQuestion is a multiple-choice question attached to a module quiz
type QuizQuestion struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	Type          string       `json:"type"` // "multiple_choice"
	Options       []QuizOption `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation,omitempty"`
}

// Quiz is the per-module knowledge check
type Quiz struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Questions []QuizQuestion `json:"questions"`
}

// Resource is an external reference attached to a module
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type,omitempty"`
}

// GeneratedModule is the worker output for one ModuleOutline: exactly one
// GeneratedSection per outline section, in outline order. Created
// exclusively by the generation worker and read-only downstream.
type GeneratedModule struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	OrderIndex  int                `json:"order_index"`
	Sections    []GeneratedSection `json:"sections"`
	Resources   []Resource         `json:"resources"`
	Quiz        *Quiz              `json:"quiz,omitempty"`
	Degraded    bool               `json:"degraded,omitempty"` // true when built from the outline after a model failure
}

// ContentMetadata records how a content document was produced
type ContentMetadata struct {
	GeneratedAt  time.Time `json:"generated_at"`
	GeneratedFor string    `json:"generated_for"` // employee ID
	UsedCVData   bool      `json:"used_cv_data"`
	Provider     string    `json:"provider,omitempty"` // "claude", "gemini", or "mock"
	Model        string    `json:"model,omitempty"`
}

// PersonalizedContent is the envelope persisted for an enrollment. A new row
// is written per generation run; the enrollment's active pointer moves to the
// newest row and prior rows are retained as history.
type PersonalizedContent struct {
	ID          string            `json:"id"`
	CourseID    string            `json:"course_id"`
	EmployeeID  string            `json:"employee_id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Level       string            `json:"level,omitempty"`
	Modules     []GeneratedModule `json:"modules"`
	Metadata    ContentMetadata   `json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsActive  bool      `json:"is_active"`
}

// Validate validates the content envelope before persistence
func (c *PersonalizedContent) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("content ID is required")
	}
	if c.CourseID == "" {
		return fmt.Errorf("content course ID is required")
	}
	if c.EmployeeID == "" {
		return fmt.Errorf("content employee ID is required")
	}
	if len(c.Modules) == 0 {
		return fmt.Errorf("content has no modules")
	}
	return nil
}

// ToJSON serializes the content envelope for API responses and row storage
func (c *PersonalizedContent) ToJSON() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal personalized content: %w", err)
	}
	return data, nil
}

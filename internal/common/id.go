package common

import (
	"github.com/google/uuid"
)

// NewJobID generates a unique generation-job ID with the "job_" prefix
func NewJobID() string {
	return "job_" + uuid.New().String()
}

// NewContentID generates a unique personalized-content ID with the "content_" prefix
func NewContentID() string {
	return "content_" + uuid.New().String()
}

// NewModuleID generates a unique module ID with the "module_" prefix.
// The short form matches the IDs the mock-content templates use.
func NewModuleID() string {
	return "module_" + uuid.New().String()[:8]
}

// NewSectionID generates a unique section ID with the "section_" prefix
func NewSectionID() string {
	return "section_" + uuid.New().String()[:8]
}

// NewQuestionID generates a unique quiz-question ID with the "q_" prefix
func NewQuestionID() string {
	return "q_" + uuid.New().String()[:8]
}

// NewQuizID generates a unique quiz ID with the "quiz_" prefix
func NewQuizID() string {
	return "quiz_" + uuid.New().String()[:8]
}

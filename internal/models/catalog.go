package models

import "time"

// Course is the stored course record. Callers sync it in ahead of
// generation; the worker reads the meta slice and any authored module
// outlines.
type Course struct {
	CourseMeta
	Modules   []ModuleOutline `json:"modules,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Employee is the stored employee record used to personalize content
type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Position   string    `json:"position,omitempty"`
	Department string    `json:"department,omitempty"`
	CVSummary  string    `json:"cv_summary,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Context projects the employee record onto the prompt-building shape
func (e *Employee) Context() *EmployeeContext {
	if e == nil {
		return nil
	}
	return &EmployeeContext{
		Name:       e.Name,
		Position:   e.Position,
		Department: e.Department,
		CVSummary:  e.CVSummary,
	}
}

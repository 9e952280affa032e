// -----------------------------------------------------------------------
// Module Outline - immutable generation input supplied by the caller or
// derived from a course record
// -----------------------------------------------------------------------

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// SectionOutline describes one section the model is asked to fill in
type SectionOutline struct {
	Title    string `json:"title"`
	Type     string `json:"type,omitempty"`     // "text", "video", "interactive", ...
	Duration string `json:"duration,omitempty"` // e.g. "15 minutes"
}

// ModuleOutline is the skeleton of one module to generate. It is an
// immutable input: the worker never mutates outlines, it only reads them.
type ModuleOutline struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	OrderIndex  int              `json:"order_index"`
	Objectives  []string         `json:"objectives,omitempty"`
	Sections    []SectionOutline `json:"sections"`
}

// Validate validates the outline shape
func (o *ModuleOutline) Validate() error {
	if o.Title == "" {
		return fmt.Errorf("outline title is required")
	}
	if len(o.Sections) == 0 {
		return fmt.Errorf("outline %q has no sections", o.Title)
	}
	return nil
}

// EmployeeContext carries the HR profile fields the generation prompt may
// reference. Optional end to end: a nil or empty context falls back to a
// generic role-based prompt. Owned by the HR profile subsystem; this
// pipeline only reads it.
type EmployeeContext struct {
	Name       string `json:"name,omitempty"`
	Position   string `json:"position,omitempty"`
	Department string `json:"department,omitempty"`
	CVSummary  string `json:"cv_summary,omitempty"`
}

// HasCV returns true when CV-aware prompting is possible
func (e *EmployeeContext) HasCV() bool {
	return e != nil && strings.TrimSpace(e.CVSummary) != ""
}

// Role returns the employee position, or the supplied fallback role
func (e *EmployeeContext) Role(fallback string) string {
	if e != nil && e.Position != "" {
		return e.Position
	}
	return fallback
}

// CourseMeta is the slice of the course record this pipeline reads
type CourseMeta struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description,omitempty"`
	Level             string `json:"level,omitempty"`
	EstimatedDuration string `json:"estimated_duration,omitempty"` // e.g. "10 hours"
}

// DeriveOutlines builds a module skeleton from the course record when the
// caller supplies none. Module count tracks the estimated course duration
// (one module per ~3 hours, clamped to 3..5), matching the templated
// fallback content shape.
func (c *CourseMeta) DeriveOutlines() []ModuleOutline {
	title := c.Title
	if title == "" {
		title = "Untitled Course"
	}

	hours := 10
	if fields := strings.Fields(c.EstimatedDuration); len(fields) > 0 {
		if h, err := strconv.Atoi(fields[0]); err == nil && h > 0 {
			hours = h
		}
	}
	moduleCount := hours / 3
	if moduleCount < 3 {
		moduleCount = 3
	}
	if moduleCount > 5 {
		moduleCount = 5
	}

	outlines := make([]ModuleOutline, 0, moduleCount)
	for i := 0; i < moduleCount; i++ {
		var moduleTitle string
		switch {
		case i == 0:
			moduleTitle = fmt.Sprintf("Introduction to %s", title)
		case i == 1:
			moduleTitle = fmt.Sprintf("Core Concepts of %s", title)
		case i == moduleCount-1:
			moduleTitle = "Advanced Topics and Case Studies"
		default:
			moduleTitle = fmt.Sprintf("Working with %s - Part %d", title, i)
		}

		sectionCount := 3 + (i % 3)
		sections := make([]SectionOutline, 0, sectionCount)
		for j := 0; j < sectionCount; j++ {
			var sectionTitle string
			switch j {
			case 0:
				sectionTitle = "Key Concepts"
			case 1:
				sectionTitle = "Practical Examples"
			case 2:
				sectionTitle = "Hands-on Exercise"
			default:
				sectionTitle = "Advanced Techniques"
			}
			sections = append(sections, SectionOutline{
				Title:    sectionTitle,
				Type:     "text",
				Duration: "20 minutes",
			})
		}

		outlines = append(outlines, ModuleOutline{
			ID:         fmt.Sprintf("outline_%d", i+1),
			Title:      moduleTitle,
			OrderIndex: i,
			Sections:   sections,
		})
	}

	return outlines
}

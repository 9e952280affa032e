package generation

import (
	"fmt"
	"strings"

	"github.com/ternarybob/doceo/internal/common"
	"github.com/ternarybob/doceo/internal/models"
)

// splitModelOutput splits raw model output on markdown "##" heading markers.
// Index 0 is the preamble before the first heading (possibly empty); each
// following element is one heading chunk with its "## " marker stripped.
func splitModelOutput(raw string) []string {
	lines := strings.Split(raw, "\n")

	parts := []string{""}
	var current strings.Builder
	inPreamble := true

	flush := func() {
		if inPreamble {
			parts[0] = strings.TrimSpace(current.String())
			inPreamble = false
		} else {
			parts = append(parts, strings.TrimSpace(current.String()))
		}
		current.Reset()
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		// "##" starts a new section; "###" and deeper stay inside the
		// current one.
		if strings.HasPrefix(trimmed, "## ") || trimmed == "##" {
			flush()
			current.WriteString(strings.TrimSpace(strings.TrimPrefix(trimmed, "##")))
			current.WriteString("\n")
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	flush()

	return parts
}

// matchSections maps outline sections to candidate parts of the model
// output using three tiers:
//
//  1. Case-insensitive substring match of the section title against each
//     candidate part (first match wins, used verbatim re-prefixed with the
//     heading marker)
//  2. Positional match: the i-th outline section consumes candidate part
//     i+1 (index 0 is preamble)
//  3. Synthesized placeholder built from the outline title
//
// Every outline section yields exactly one GeneratedSection regardless of
// how far the model output diverges from the requested structure.
func matchSections(outline models.ModuleOutline, raw string) []models.GeneratedSection {
	parts := splitModelOutput(raw)

	sections := make([]models.GeneratedSection, 0, len(outline.Sections))
	for i, sectionOutline := range outline.Sections {
		content, matched := matchByTitle(sectionOutline.Title, parts)
		if !matched {
			if i+1 < len(parts) && strings.TrimSpace(parts[i+1]) != "" {
				content = "## " + parts[i+1]
			} else {
				content = synthesizeSectionContent(sectionOutline.Title, outline.Title)
			}
		}

		sections = append(sections, models.GeneratedSection{
			ID:          common.NewSectionID(),
			Title:       sectionOutline.Title,
			Content:     content,
			ContentType: sectionContentType(sectionOutline.Type),
			OrderIndex:  i,
			Duration:    sectionOutline.Duration,
		})
	}

	return sections
}

// matchByTitle scans candidate parts (skipping the preamble) for a
// case-insensitive occurrence of the section title
func matchByTitle(title string, parts []string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(title))
	if needle == "" {
		return "", false
	}

	for i := 1; i < len(parts); i++ {
		if strings.Contains(strings.ToLower(parts[i]), needle) {
			return "## " + parts[i], true
		}
	}
	return "", false
}

// synthesizeSectionContent builds a minimal placeholder body when the model
// output offers nothing usable for a section
func synthesizeSectionContent(sectionTitle, moduleTitle string) string {
	return fmt.Sprintf("## %s\n\nThis section covers %s as part of %s. Content for this section is being prepared.", sectionTitle, sectionTitle, moduleTitle)
}

func sectionContentType(outlineType string) string {
	if outlineType == "" {
		return "text"
	}
	return outlineType
}

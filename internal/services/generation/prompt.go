package generation

import (
	"fmt"
	"strings"

	"github.com/ternarybob/doceo/internal/models"
)

// systemPrompt is the fixed system instruction for every module generation
// call.
const systemPrompt = `You are an expert educational content creator who produces engaging, practical learning material for workplace training courses. Write in markdown. Start each requested section with a "## " heading that repeats the section title exactly.`

// buildModulePrompt constructs the user prompt for one module. When the
// employee context carries a CV summary it produces a CV-aware prompt that
// tailors tone and examples; otherwise a generic role-based prompt using the
// employee position or the configured default role.
func buildModulePrompt(outline models.ModuleOutline, employeeCtx *models.EmployeeContext, defaultRole string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create the learning content for the module %q.\n\n", outline.Title)
	if outline.Description != "" {
		fmt.Fprintf(&b, "Module description: %s\n\n", outline.Description)
	}

	if len(outline.Objectives) > 0 {
		b.WriteString("Learning objectives:\n")
		for _, objective := range outline.Objectives {
			fmt.Fprintf(&b, "- %s\n", objective)
		}
		b.WriteString("\n")
	}

	b.WriteString("Write one markdown section per entry below, in order, each starting with a \"## \" heading that repeats the section title exactly:\n")
	for _, section := range outline.Sections {
		fmt.Fprintf(&b, "- %s", section.Title)
		if section.Duration != "" {
			fmt.Fprintf(&b, " (about %s of learning time)", section.Duration)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if employeeCtx.HasCV() {
		b.WriteString("Personalize the content for this learner:\n")
		if employeeCtx.Name != "" {
			fmt.Fprintf(&b, "- Name: %s\n", employeeCtx.Name)
		}
		if employeeCtx.Position != "" {
			fmt.Fprintf(&b, "- Position: %s\n", employeeCtx.Position)
		}
		if employeeCtx.Department != "" {
			fmt.Fprintf(&b, "- Department: %s\n", employeeCtx.Department)
		}
		fmt.Fprintf(&b, "- CV summary: %s\n", employeeCtx.CVSummary)
		b.WriteString("\nTailor the tone, depth, and examples to this person's background and day-to-day work. Reference situations they would plausibly encounter in their role.\n")
	} else {
		role := employeeCtx.Role(defaultRole)
		fmt.Fprintf(&b, "Write for a %s audience. Use concrete workplace examples relevant to that role.\n", role)
	}

	return b.String()
}

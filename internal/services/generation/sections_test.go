package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/doceo/internal/models"
)

func outlineWithSections(titles ...string) models.ModuleOutline {
	sections := make([]models.SectionOutline, 0, len(titles))
	for _, title := range titles {
		sections = append(sections, models.SectionOutline{Title: title, Type: "text"})
	}
	return models.ModuleOutline{
		ID:       "outline_1",
		Title:    "Intro",
		Sections: sections,
	}
}

func TestSplitModelOutput(t *testing.T) {
	raw := "Some preamble text.\n## First Heading\nbody one\n### sub heading stays\n## Second Heading\nbody two"

	parts := splitModelOutput(raw)
	require.Len(t, parts, 3)
	assert.Equal(t, "Some preamble text.", parts[0])
	assert.True(t, strings.HasPrefix(parts[1], "First Heading"))
	assert.Contains(t, parts[1], "### sub heading stays")
	assert.True(t, strings.HasPrefix(parts[2], "Second Heading"))
}

func TestSplitModelOutput_NoHeadings(t *testing.T) {
	parts := splitModelOutput("just a paragraph with no structure")
	require.Len(t, parts, 1)
	assert.Equal(t, "just a paragraph with no structure", parts[0])
}

func TestMatchSections_TitleMatch(t *testing.T) {
	outline := outlineWithSections("Overview", "Concepts")
	raw := "intro text\n## Concepts\nconcept body\n## Overview\noverview body"

	sections := matchSections(outline, raw)
	require.Len(t, sections, 2)

	// Title match wins over position even when the model reordered output
	assert.True(t, strings.HasPrefix(sections[0].Content, "## Overview"))
	assert.Contains(t, sections[0].Content, "overview body")
	assert.True(t, strings.HasPrefix(sections[1].Content, "## Concepts"))
	assert.Contains(t, sections[1].Content, "concept body")
}

func TestMatchSections_TitleMatchIsCaseInsensitive(t *testing.T) {
	outline := outlineWithSections("Key Concepts")
	raw := "## KEY CONCEPTS\nshouting model"

	sections := matchSections(outline, raw)
	require.Len(t, sections, 1)
	assert.Contains(t, sections[0].Content, "shouting model")
}

func TestMatchSections_PositionalFallback(t *testing.T) {
	outline := outlineWithSections("Alpha", "Beta")
	raw := "preamble\n## Something Else\nfirst chunk\n## Another Thing\nsecond chunk"

	sections := matchSections(outline, raw)
	require.Len(t, sections, 2)
	assert.Contains(t, sections[0].Content, "first chunk")
	assert.Contains(t, sections[1].Content, "second chunk")
}

func TestMatchSections_SynthesizeWhenPartsRunOut(t *testing.T) {
	outline := outlineWithSections("Alpha", "Beta", "Gamma")
	raw := "## Something Else\nonly chunk"

	sections := matchSections(outline, raw)
	require.Len(t, sections, 3)
	assert.Contains(t, sections[0].Content, "only chunk")
	assert.True(t, strings.HasPrefix(sections[1].Content, "## Beta"))
	assert.True(t, strings.HasPrefix(sections[2].Content, "## Gamma"))
}

func TestMatchSections_EmptyOutputSynthesizesAll(t *testing.T) {
	outline := outlineWithSections("Alpha", "Beta")

	sections := matchSections(outline, "")
	require.Len(t, sections, 2)
	for i, section := range sections {
		assert.True(t, strings.HasPrefix(section.Content, "## "+outline.Sections[i].Title))
		assert.Equal(t, i, section.OrderIndex)
		assert.Equal(t, "text", section.ContentType)
	}
}

func TestMatchSections_ExactTitlesEndToEnd(t *testing.T) {
	outline := outlineWithSections("Overview", "Concepts")
	raw := "## Overview\nWelcome to the module.\n## Concepts\nCore ideas explained."

	sections := matchSections(outline, raw)
	require.Len(t, sections, 2)
	assert.True(t, strings.HasPrefix(sections[0].Content, "## Overview"))
	assert.True(t, strings.HasPrefix(sections[1].Content, "## Concepts"))
	assert.Equal(t, "Overview", sections[0].Title)
	assert.Equal(t, "Concepts", sections[1].Title)
}

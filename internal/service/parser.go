package service

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	ingredientsPattern  = regexp.MustCompile(`(?is)ingredients:\s*\n(.*?)(?:\n\s*instructions:|$)`)
	instructionsPattern = regexp.MustCompile(`(?is)instructions:\s*\n(.*)$`)
)

// ParsedRecipe holds the structured fields extracted from raw recipe text
type ParsedRecipe struct {
	Title        string
	Ingredients  []string
	Instructions []string
}

// ParseRecipe parses a free-text recipe document: a title line, an
// "Ingredients:" section with one ingredient per line, and an
// "Instructions:" section with one step per line. A document missing
// either section, or with an empty section, fails with ErrMalformedRecipe.
func ParseRecipe(content string) (*ParsedRecipe, error) {
	content = strings.TrimSpace(content)

	title := extractTitle(content)
	if title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrMalformedRecipe)
	}

	ingredients := extractSection(content, ingredientsPattern)
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("%w: missing or empty ingredients section", ErrMalformedRecipe)
	}

	instructions := extractSection(content, instructionsPattern)
	if len(instructions) == 0 {
		return nil, fmt.Errorf("%w: missing or empty instructions section", ErrMalformedRecipe)
	}

	return &ParsedRecipe{
		Title:        title,
		Ingredients:  ingredients,
		Instructions: instructions,
	}, nil
}

// extractTitle returns the first non-empty line that is not a section header
func extractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "ingredients:") || strings.HasPrefix(lower, "instructions:") {
			return ""
		}
		return line
	}
	return ""
}

func extractSection(content string, pattern *regexp.Regexp) []string {
	match := pattern.FindStringSubmatch(content)
	if match == nil {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(match[1], "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// CanonicalText builds the deterministic text a recipe's embedding is
// computed over
func CanonicalText(title string, ingredients, instructions []string) string {
	return fmt.Sprintf("Title: %s\n\nIngredients:\n%s\n\nInstructions:\n%s",
		title, strings.Join(ingredients, "\n"), strings.Join(instructions, "\n"))
}

// CanonicalQueryText joins an ingredient list into the deterministic
// query text used for retrieval
func CanonicalQueryText(ingredients []string) string {
	return strings.Join(ingredients, ", ")
}

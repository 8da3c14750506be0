package service

import (
	"fmt"
	"strings"

	"github.com/pageza/whatsfordinner/backend/internal/store"
)

const ragSystemPrompt = `You are a professional chef with extensive knowledge of cooking and recipes.
You help people create delicious meals using the ingredients they have available.

When given a list of ingredients and some recipe context, you should:
1. Suggest a recipe that can be made with the available ingredients
2. Provide clear, step-by-step cooking instructions
3. Offer helpful cooking tips and variations
4. Be encouraging and enthusiastic about cooking
5. If the ingredients don't match the provided recipes exactly, suggest creative adaptations

Always respond with a single recipe formatted in Markdown with a title, an ingredients list, and numbered steps.`

const visionIngredientPrompt = `Analyze this image and identify all visible food ingredients.
Return ONLY a simple list of ingredients, one per line, without any additional text, bullets, or formatting.
Focus on identifying specific ingredients like vegetables, fruits, proteins, oils, spices, etc.
If you see packaged items, try to identify the actual ingredient (e.g., 'flour' instead of 'flour bag').
Be specific but concise (e.g., 'red bell pepper' instead of just 'pepper').`

// buildRAGUserPrompt assembles the grounding prompt from the retrieved
// recipes and the caller's ingredient list. With no retrieved recipes
// the prompt simply asks for an ungrounded suggestion.
func buildRAGUserPrompt(results []store.SearchResult, ingredients string) string {
	var b strings.Builder

	if len(results) > 0 {
		b.WriteString("Based on the following recipe database entries:\n\n")
		for _, res := range results {
			fmt.Fprintf(&b, "**%s**\n", res.Recipe.Title)
			fmt.Fprintf(&b, "Ingredients: %s\n", strings.Join(res.Recipe.Ingredients, "; "))
			fmt.Fprintf(&b, "Instructions: %s\n\n", strings.Join(res.Recipe.Instructions, " "))
		}
	}

	fmt.Fprintf(&b, "Available ingredients: %s\n\n", ingredients)
	b.WriteString("Please recommend a recipe I can make with these ingredients. " +
		"If none of the database recipes match exactly, suggest a creative adaptation " +
		"or a new recipe using the available ingredients.")

	return b.String()
}

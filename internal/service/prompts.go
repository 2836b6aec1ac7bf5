package service

import (
	"fmt"
	"strings"

	"github.com/foodfriend/backend/internal/types"
)

const systemPrompt = "You are a backend API. Reply with a single JSON object and nothing else."

func categoryList() string {
	names := make([]string, len(types.Categories))
	for i, c := range types.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, " | ")
}

func recipeFromImagePrompt() string {
	return "Identify the dish in this photo and write a recipe for it.\n\n" + recipeRules()
}

// recipeRules is the output contract shared by every recipe prompt.
func recipeRules() string {
	return `Rules:
- Return ONLY valid JSON
- ingredients[].quantity must be a number, never a string
- macros are grams for the whole recipe, keys protein, fat and carbs
- category must be one of: ` + categoryList() + `

Schema:
{
  "title": string,
  "ingredients": [{"name": string, "quantity": number, "unit": string}],
  "macros": {"protein": number, "fat": number, "carbs": number},
  "steps": string[],
  "category": string
}`
}

func mealFromImagePrompt() string {
	return `Estimate the nutrition of the meal in this photo.

Rules:
- Return ONLY valid JSON
- calories in kcal, protein, carbs, fat and fiber in grams
- micronutrients in mg (vitamin_a and vitamin_d in mcg); use null if unknown
- ingredients lists the visible components

Schema:
{
  "title": string,
  "calories": number,
  "protein": number,
  "carbs": number,
  "fat": number,
  "fiber": number,
  "vitamin_a": number | null,
  "vitamin_c": number | null,
  "vitamin_d": number | null,
  "calcium": number | null,
  "iron": number | null,
  "magnesium": number | null,
  "potassium": number | null,
  "zinc": number | null,
  "ingredients": string[]
}`
}

func recipeRequestPrompt(message string) string {
	return fmt.Sprintf(`Extract the user's food request into JSON.

Rules:
- Return ONLY valid JSON
- Use null if unknown
- flavor_profile must be an array
- servings must be an integer, 2 if not given

Schema:
{
  "title": string | null,
  "spice_level": "mild" | "medium" | "hot" | null,
  "flavor_profile": string[],
  "servings": number,
  "dietary_restrictions": string[] | null
}

User input:
%q`, message)
}

func recipeFromRequestPrompt(req types.RecipeRequest) string {
	var b strings.Builder
	b.WriteString("Generate ONE recipe that matches all constraints.\n\nConstraints:\n")
	if req.Title != nil {
		fmt.Fprintf(&b, "- Title hint: %s\n", *req.Title)
	}
	if req.SpiceLevel != nil {
		fmt.Fprintf(&b, "- Spice level: %s\n", *req.SpiceLevel)
	}
	if len(req.FlavorProfile) > 0 {
		fmt.Fprintf(&b, "- Flavor profile: %s\n", strings.Join(req.FlavorProfile, ", "))
	}
	fmt.Fprintf(&b, "- Servings: %d\n", req.Servings)
	if len(req.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "- Dietary restrictions: %s\n", strings.Join(req.DietaryRestrictions, ", "))
	}
	b.WriteString("\n")
	b.WriteString(recipeRules())
	return b.String()
}

package testhelpers

import "github.com/foodfriend/backend/internal/types"

// TacosRecipe is a validated recipe with a single ingredient.
func TacosRecipe() types.Recipe {
	return types.Recipe{
		Title:       "Tacos",
		Ingredients: []types.Ingredient{{Name: "beef", Quantity: 200, Unit: "g"}},
		Macros:      map[string]float64{"protein": 30, "fat": 10, "carbs": 5},
		Steps:       []string{"cook beef"},
		Category:    types.CategoryTacos,
	}
}

// TacosReply is a fenced model reply that decodes to TacosRecipe.
const TacosReply = "```json\n" +
	`{"title":"Tacos","ingredients":[{"name":"beef","quantity":200,"unit":"g"}],"macros":{"protein":30,"fat":10,"carbs":5},"steps":["cook beef"],"category":"tacos"}` +
	"\n```"

// MealReply is a model reply describing a logged meal.
const MealReply = `Here is the estimate:
{"title":"Oatmeal","calories":350,"protein":12,"carbs":60,"fat":7,"fiber":8,"vitamin_a":null,"vitamin_c":null,"vitamin_d":null,"calcium":150,"iron":3.5,"magnesium":null,"potassium":null,"zinc":null,"ingredients":["oats","milk","banana"]}`

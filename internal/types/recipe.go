package types

import (
	"strings"
	"time"
)

// Category is the closed set of dish categories a recipe can be filed under.
type Category string

const (
	CategoryPizza  Category = "pizza"
	CategoryPasta  Category = "pasta"
	CategorySalad  Category = "salad"
	CategoryBurger Category = "burger"
	CategorySushi  Category = "sushi"
	CategoryTacos  Category = "tacos"
	CategoryOther  Category = "other"
)

// Categories lists every accepted category in display order.
var Categories = []Category{
	CategoryPizza,
	CategoryPasta,
	CategorySalad,
	CategoryBurger,
	CategorySushi,
	CategoryTacos,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory normalizes a free-form category. Anything outside the
// closed set falls back to CategoryOther.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Recipe is the structured shape extracted from a model reply.
type Recipe struct {
	Title       string             `json:"title"`
	Ingredients []Ingredient       `json:"ingredients"`
	Macros      map[string]float64 `json:"macros"`
	Steps       []string           `json:"steps"`
	Category    Category           `json:"category"`
}

// SpiceLevel is the heat preference of a recipe request.
type SpiceLevel string

const (
	SpiceMild   SpiceLevel = "mild"
	SpiceMedium SpiceLevel = "medium"
	SpiceHot    SpiceLevel = "hot"
)

// RecipeRequest is a free-form cooking request reduced to constraints.
// Nil pointers and nil slices mean the user did not say.
type RecipeRequest struct {
	Title               *string     `json:"title"`
	SpiceLevel          *SpiceLevel `json:"spice_level"`
	FlavorProfile       []string    `json:"flavor_profile"`
	Servings            int         `json:"servings"`
	DietaryRestrictions []string    `json:"dietary_restrictions"`
}

// RecipeResponse is a stored recipe aggregate as returned by the API.
type RecipeResponse struct {
	ID          uint               `json:"id"`
	UserID      string             `json:"user_id"`
	Title       string             `json:"title"`
	Ingredients []Ingredient       `json:"ingredients"`
	Macros      map[string]float64 `json:"macros"`
	Steps       []string           `json:"steps"`
	Category    Category           `json:"category"`
	ImageURL    string             `json:"image_url,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

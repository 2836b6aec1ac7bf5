package types

import "time"

// Meal is the nutrition breakdown of a photographed plate. Macronutrients
// are grams; micronutrients use their customary units (mg or mcg) and are
// nil when the model could not estimate them.
type Meal struct {
	Title       string   `json:"title"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Fiber       float64  `json:"fiber"`
	VitaminA    *float64 `json:"vitamin_a"`
	VitaminC    *float64 `json:"vitamin_c"`
	VitaminD    *float64 `json:"vitamin_d"`
	Calcium     *float64 `json:"calcium"`
	Iron        *float64 `json:"iron"`
	Magnesium   *float64 `json:"magnesium"`
	Potassium   *float64 `json:"potassium"`
	Zinc        *float64 `json:"zinc"`
	Ingredients []string `json:"ingredients"`
}

// MealResponse is a logged meal as returned by the API.
type MealResponse struct {
	ID        uint      `json:"id"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	Meal
}

package types

// GenerateRecipeRequest is the body of a text-to-recipe request.
type GenerateRecipeRequest struct {
	Message string `json:"message" binding:"required,max=2000"`
}

// GlobalRecipeQuery holds the query string of the public recipe feed.
type GlobalRecipeQuery struct {
	Category string `form:"category"`
	Limit    int    `form:"limit"`
	Search   string `form:"q"`
}

// MealDayQuery holds the query string of the meal history endpoint.
type MealDayQuery struct {
	Date  string `form:"date" binding:"required"`
	Limit int    `form:"limit"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Stage  string       `json:"stage,omitempty"`
	Fields []FieldIssue `json:"fields,omitempty"`
}

// FieldIssue names one offending field of a rejected payload.
type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/foodfriend/backend/internal/types"
)

// Shape names the structure a reply is decoded into.
type Shape string

const (
	ShapeRecipe        Shape = "recipe"
	ShapeMeal          Shape = "meal"
	ShapeRecipeRequest Shape = "recipe request"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("integral", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f) && f <= math.MaxInt32
	})
	return v
}

// The payload types mirror the public shapes with pointer fields, so a
// missing field, an explicit null and a zero value stay distinguishable.

type ingredientPayload struct {
	Name     *string  `json:"name" validate:"required,min=1"`
	Quantity *float64 `json:"quantity" validate:"required,gte=0"`
	Unit     *string  `json:"unit" validate:"required"`
}

type recipePayload struct {
	Title       *string             `json:"title" validate:"required,min=1"`
	Ingredients []*ingredientPayload `json:"ingredients" validate:"required,dive,required"`
	Macros      map[string]*float64 `json:"macros" validate:"required,dive,required,gte=0"`
	Steps       []*string           `json:"steps" validate:"required,dive,required"`
	Category    *string             `json:"category" validate:"required"`
}

type mealPayload struct {
	Title       *string   `json:"title" validate:"required,min=1"`
	Calories    *float64  `json:"calories" validate:"required,gte=0"`
	Protein     *float64  `json:"protein" validate:"required,gte=0"`
	Carbs       *float64  `json:"carbs" validate:"required,gte=0"`
	Fat         *float64  `json:"fat" validate:"required,gte=0"`
	Fiber       *float64  `json:"fiber" validate:"required,gte=0"`
	VitaminA    *float64  `json:"vitamin_a" validate:"omitempty,gte=0"`
	VitaminC    *float64  `json:"vitamin_c" validate:"omitempty,gte=0"`
	VitaminD    *float64  `json:"vitamin_d" validate:"omitempty,gte=0"`
	Calcium     *float64  `json:"calcium" validate:"omitempty,gte=0"`
	Iron        *float64  `json:"iron" validate:"omitempty,gte=0"`
	Magnesium   *float64  `json:"magnesium" validate:"omitempty,gte=0"`
	Potassium   *float64  `json:"potassium" validate:"omitempty,gte=0"`
	Zinc        *float64  `json:"zinc" validate:"omitempty,gte=0"`
	Ingredients []*string `json:"ingredients" validate:"required,dive,required"`
}

type recipeRequestPayload struct {
	Title               *string   `json:"title"`
	SpiceLevel          *string   `json:"spice_level" validate:"omitempty,oneof=mild medium hot"`
	FlavorProfile       []*string `json:"flavor_profile" validate:"required,dive,required"`
	Servings            *float64  `json:"servings" validate:"required,gte=1,integral"`
	DietaryRestrictions []*string `json:"dietary_restrictions" validate:"omitempty,dive,required"`
}

// ParseRecipe decodes sanitized text into a Recipe.
func ParseRecipe(text string) (types.Recipe, error) {
	var p recipePayload
	if err := decode(ShapeRecipe, text, &p); err != nil {
		return types.Recipe{}, err
	}

	recipe := types.Recipe{
		Title:       *p.Title,
		Ingredients: make([]types.Ingredient, len(p.Ingredients)),
		Macros:      make(map[string]float64, len(p.Macros)),
		Steps:       derefAll(p.Steps),
		Category:    types.ParseCategory(*p.Category),
	}
	for i, ing := range p.Ingredients {
		recipe.Ingredients[i] = types.Ingredient{
			Name:     *ing.Name,
			Quantity: *ing.Quantity,
			Unit:     *ing.Unit,
		}
	}
	var collisions []string
	for name, value := range p.Macros {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := recipe.Macros[key]; seen {
			collisions = append(collisions, key)
			continue
		}
		recipe.Macros[key] = *value
	}
	if len(collisions) > 0 {
		return types.Recipe{}, duplicateMacros(collisions)
	}
	return recipe, nil
}

// ParseMeal decodes sanitized text into a Meal.
func ParseMeal(text string) (types.Meal, error) {
	var p mealPayload
	if err := decode(ShapeMeal, text, &p); err != nil {
		return types.Meal{}, err
	}

	return types.Meal{
		Title:       *p.Title,
		Calories:    *p.Calories,
		Protein:     *p.Protein,
		Carbs:       *p.Carbs,
		Fat:         *p.Fat,
		Fiber:       *p.Fiber,
		VitaminA:    p.VitaminA,
		VitaminC:    p.VitaminC,
		VitaminD:    p.VitaminD,
		Calcium:     p.Calcium,
		Iron:        p.Iron,
		Magnesium:   p.Magnesium,
		Potassium:   p.Potassium,
		Zinc:        p.Zinc,
		Ingredients: derefAll(p.Ingredients),
	}, nil
}

// ParseRecipeRequest decodes sanitized text into a RecipeRequest.
func ParseRecipeRequest(text string) (types.RecipeRequest, error) {
	var p recipeRequestPayload
	if err := decode(ShapeRecipeRequest, text, &p); err != nil {
		return types.RecipeRequest{}, err
	}

	req := types.RecipeRequest{
		Title:         p.Title,
		FlavorProfile: derefAll(p.FlavorProfile),
		Servings:      int(*p.Servings),
	}
	if p.SpiceLevel != nil {
		level := types.SpiceLevel(*p.SpiceLevel)
		req.SpiceLevel = &level
	}
	if p.DietaryRestrictions != nil {
		req.DietaryRestrictions = derefAll(p.DietaryRestrictions)
	}
	return req, nil
}

// ExtractRecipe sanitizes a raw model reply and parses it as a Recipe.
func ExtractRecipe(raw string) (types.Recipe, error) {
	return ParseRecipe(Sanitize(raw))
}

// ExtractMeal sanitizes a raw model reply and parses it as a Meal.
func ExtractMeal(raw string) (types.Meal, error) {
	return ParseMeal(Sanitize(raw))
}

// ExtractRecipeRequest sanitizes a raw model reply and parses it as a RecipeRequest.
func ExtractRecipeRequest(raw string) (types.RecipeRequest, error) {
	return ParseRecipeRequest(Sanitize(raw))
}

// duplicateMacros reports macro names that only differ in case or spacing.
func duplicateMacros(keys []string) error {
	slices.Sort(keys)
	keys = slices.Compact(keys)

	fields := make([]FieldError, len(keys))
	for i, key := range keys {
		fields[i] = FieldError{Field: "macros[" + key + "]", Reason: "duplicate key"}
	}
	return &ValidationError{Shape: ShapeRecipe, Fields: fields}
}

func decode(shape Shape, text string, payload any) error {
	if err := json.Unmarshal([]byte(text), payload); err != nil {
		return decodeError(shape, text, err)
	}
	if err := validate.Struct(payload); err != nil {
		return fieldErrors(shape, err)
	}
	return nil
}

func decodeError(shape Shape, text string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "$"
		}
		return &ValidationError{
			Shape: shape,
			Fields: []FieldError{{
				Field:  field,
				Reason: fmt.Sprintf("expected %s, got %s", jsonKind(typeErr.Type), typeErr.Value),
			}},
			Err: err,
		}
	}

	if !strings.Contains(text, "{") {
		err = fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &ValidationError{Shape: shape, Err: err}
}

func fieldErrors(shape Shape, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Shape: shape, Err: err}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fieldPath(fe.Namespace()), Reason: reason(fe)})
	}
	return &ValidationError{Shape: shape, Fields: fields, Err: err}
}

// fieldPath drops the payload type name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "gte":
		return "must be >= " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "integral":
		return "must be a whole number"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

func derefAll(in []*string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = *s
	}
	return out
}

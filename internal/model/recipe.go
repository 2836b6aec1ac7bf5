package model

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions is the width of the recipe title embedding column.
const EmbeddingDimensions = 16

// Recipe is the stored header row of a recipe aggregate.
type Recipe struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time        `gorm:"index" json:"created_at"`
	UserID    string           `gorm:"size:100;not null;index" json:"user_id"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Macros    JSONBFloatMap    `gorm:"not null" json:"macros"`
	Steps     JSONBStringArray `gorm:"not null" json:"steps"`
	Category  string           `gorm:"size:50;not null;index" json:"category"`
	ImageURL  string           `gorm:"size:512" json:"image_url,omitempty"`
	Embedding pgvector.Vector  `gorm:"type:vector(16)" json:"-"`

	Ingredients []Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
}

// Ingredient is one ingredient line. Position keeps the order the
// ingredients were extracted in.
type Ingredient struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	RecipeID uint    `gorm:"not null;index" json:"recipe_id"`
	Position int     `gorm:"not null" json:"position"`
	Name     string  `gorm:"size:255;not null" json:"name"`
	Quantity float64 `gorm:"not null" json:"quantity"`
	Unit     string  `gorm:"size:50;not null" json:"unit"`
}

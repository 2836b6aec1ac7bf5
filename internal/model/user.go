package model

import "time"

// User is an account mirrored from the identity provider. The id is the
// provider's user id, not a locally generated key.
type User struct {
	ID        string    `gorm:"primaryKey;size:100" json:"id"`
	Email     string    `gorm:"size:255" json:"email"`
	FirstName *string   `gorm:"size:100" json:"first_name,omitempty"`
	LastName  *string   `gorm:"size:100" json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Recipes []Recipe `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Meals   []Meal   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

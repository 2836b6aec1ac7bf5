package model

import "time"

// Meal is a logged meal with its estimated nutrition. EatenOn is the
// calendar day in YYYY-MM-DD form.
type Meal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `gorm:"size:100;not null;index:idx_meals_user_day" json:"user_id"`
	EatenOn   string    `gorm:"size:10;not null;index:idx_meals_user_day" json:"date"`
	Title     string    `gorm:"size:255;not null" json:"title"`

	Calories float64 `gorm:"not null" json:"calories"`
	Protein  float64 `gorm:"not null" json:"protein"`
	Carbs    float64 `gorm:"not null" json:"carbs"`
	Fat      float64 `gorm:"not null" json:"fat"`
	Fiber    float64 `gorm:"not null" json:"fiber"`

	VitaminA  *float64 `json:"vitamin_a"`
	VitaminC  *float64 `json:"vitamin_c"`
	VitaminD  *float64 `json:"vitamin_d"`
	Calcium   *float64 `json:"calcium"`
	Iron      *float64 `json:"iron"`
	Magnesium *float64 `json:"magnesium"`
	Potassium *float64 `json:"potassium"`
	Zinc      *float64 `json:"zinc"`

	Ingredients JSONBStringArray `gorm:"not null" json:"ingredients"`
}

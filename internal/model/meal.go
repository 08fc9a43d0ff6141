package model

import "time"

// MealMenu is a shared food definition. Menus referenced by logs cannot be deleted.
type MealMenu struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	TimeCategory *string   `json:"time_category"`
	FoodCategory *string   `json:"food_category"`
	Calories     *float64  `json:"calories"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type MealLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	MealMenuID uint      `gorm:"index;not null" json:"meal_menu_id"`
	Amount     *float64  `json:"amount"`
	MealDate   time.Time `gorm:"index;not null" json:"meal_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

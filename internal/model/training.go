package model

import "time"

// TrainingMenu is a shared exercise definition.
type TrainingMenu struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Category  string    `gorm:"not null" json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TrainingLog struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	TrainingMenuID  *uint     `gorm:"index" json:"training_menu_id"`
	Weight          *float64  `json:"weight"`
	Reps            *int      `json:"reps"`
	DurationMinutes *int      `json:"duration_minutes"`
	PerformedAt     time.Time `gorm:"index;not null" json:"performed_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

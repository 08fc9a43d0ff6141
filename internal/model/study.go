package model

import "time"

// StudyGoal belongs to a single user, unlike the other master records.
type StudyGoal struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	TargetHours *int      `json:"target_hours"`
	Completed   bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type StudyLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	StudyGoalID uint      `gorm:"index;not null" json:"study_goal_id"`
	Hours       *float64  `json:"hours"`
	StudyDate   time.Time `gorm:"index;not null" json:"study_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

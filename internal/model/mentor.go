package model

import "time"

// MentorTask is shared master data: a named task any user can schedule.
type MentorTask struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `json:"description"`
	Category    *string   `gorm:"index" json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MentorTaskLog is one occurrence of a MentorTask scheduled by a user.
// Overdue is derived at read time and never stored.
type MentorTaskLog struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	MentorTaskID uint       `gorm:"index;not null" json:"mentor_task_id"`
	Deadline     *time.Time `gorm:"index" json:"deadline"`
	ExecutedAt   *time.Time `json:"executed_at"`
	Completed    bool       `gorm:"not null;default:false" json:"completed"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

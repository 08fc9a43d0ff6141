package model

import "time"

// User is an account that owns logs, study goals and mentor task logs.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `json:"name"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordDigest string    `gorm:"not null" json:"-"`
	TelegramChatID *int64    `gorm:"index" json:"telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

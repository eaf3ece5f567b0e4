package model

import "time"

// User represents a portal member.
type User struct {
	ID           string    `json:"id" gorm:"size:64;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	FullName     string    `json:"fullName" gorm:"size:255"`
	Role         string    `json:"role" gorm:"size:100"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

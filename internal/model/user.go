package model

import "time"

// Roles returned at login.
const (
	RoleAdmin   = "ADMIN"
	RoleStudent = "STUDENT"
)

// User is an account that can sign in.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:128;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:256;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"size:16;not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

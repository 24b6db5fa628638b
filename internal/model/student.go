package model

import "time"

// Student links a user account to a hostel resident record.
type Student struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	HostelID      int64     `json:"hostelId" gorm:"index;not null"`
	UserID        int64     `json:"userId" gorm:"uniqueIndex;not null"`
	RollNumber    string    `json:"rollNumber" gorm:"size:64;not null"`
	Phone         string    `json:"phone" gorm:"size:32"`
	GuardianName  string    `json:"guardianName" gorm:"size:128"`
	GuardianPhone string    `json:"guardianPhone" gorm:"size:32"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Associations
	User   User   `json:"user" gorm:"constraint:OnDelete:CASCADE"`
	Hostel Hostel `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

package model

import "time"

// Hostel is the tenant partition that rooms, students, fees and inventory belong to.
type Hostel struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:128;not null"`
	Active    bool      `json:"active" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

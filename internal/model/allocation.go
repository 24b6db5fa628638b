package model

import "time"

// Allocation binds one student to one bed of one room.
// Inactive allocations are kept as history.
type Allocation struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	HostelID    int64      `json:"hostelId" gorm:"index;not null"`
	StudentID   int64      `json:"studentId" gorm:"index;not null"`
	RoomID      int64      `json:"roomId" gorm:"index;not null"`
	BedNumber   int        `json:"bedNumber" gorm:"not null"`
	Active      bool       `json:"active" gorm:"index;not null"`
	AllocatedAt time.Time  `json:"allocatedAt" gorm:"not null"`
	ReleasedAt  *time.Time `json:"releasedAt,omitempty"`

	// Associations
	Student Student `json:"student" gorm:"constraint:OnDelete:CASCADE"`
	Room    Room    `json:"room" gorm:"constraint:OnDelete:CASCADE"`
}

// AllocationCount is the number of active allocations in a hostel.
type AllocationCount struct {
	Active int64 `json:"active"`
}

package model

import "time"

// Room is a bookable room with a fixed number of beds.
type Room struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	HostelID   int64     `json:"hostelId" gorm:"index;not null;uniqueIndex:idx_room_label"`
	Block      string    `json:"block" gorm:"size:32;not null;uniqueIndex:idx_room_label"`
	RoomNumber string    `json:"roomNumber" gorm:"size:32;not null;uniqueIndex:idx_room_label"`
	Capacity   int       `json:"capacity" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Associations
	Hostel Hostel `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Label renders the room as "Block-Number".
func (r Room) Label() string {
	if r.Block == "" {
		return r.RoomNumber
	}
	return r.Block + "-" + r.RoomNumber
}

// RoomStatus summarises bed usage for one room.
type RoomStatus struct {
	RoomID    int64 `json:"roomId"`
	Capacity  int   `json:"capacity"`
	Occupied  int   `json:"occupied"`
	Available int   `json:"available"`
}

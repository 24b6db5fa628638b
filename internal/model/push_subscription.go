package model

import "time"

// PushSubscription holds the information for a browser push subscription
// that receives low-stock alerts for one hostel.
type PushSubscription struct {
	Endpoint  string    `json:"endpoint" gorm:"primaryKey"`
	HostelID  int64     `json:"hostelId" gorm:"index;not null"`
	P256DH    string    `json:"p256dh" gorm:"column:p256dh;not null"`
	Auth      string    `json:"auth" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}

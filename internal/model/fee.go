package model

import "time"

// FeeStatus is the payment state of a fee.
type FeeStatus string

const (
	FeeUnpaid FeeStatus = "UNPAID"
	FeePaid   FeeStatus = "PAID"
)

// Fee is a monthly charge raised against a student.
type Fee struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	HostelID      int64      `json:"hostelId" gorm:"index;not null"`
	StudentID     int64      `json:"studentId" gorm:"index;not null"`
	Month         string     `json:"month" gorm:"size:16;not null"` // YYYY-MM
	Amount        float64    `json:"amount" gorm:"not null"`
	DueDate       time.Time  `json:"dueDate" gorm:"not null"`
	Status        FeeStatus  `json:"status" gorm:"size:8;not null;default:UNPAID"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	ReceiptNumber string     `json:"receiptNumber,omitempty" gorm:"size:64"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	// Associations
	Student Student `json:"student" gorm:"constraint:OnDelete:CASCADE"`
}

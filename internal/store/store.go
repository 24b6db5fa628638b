package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"hostel-admin/internal/model"
)

// Errors returned by the store. Handlers map them onto HTTP status codes.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid")
)

// FeeFilter narrows ListFees. Zero values match everything.
type FeeFilter struct {
	StudentID int64
	Status    model.FeeStatus
}

// Store defines the interface for all database operations.
// Every hostel-scoped method takes the hostel ID first and never returns rows of another hostel.
type Store interface {
	DB() *gorm.DB

	CountUsers(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, u *model.User) error

	ListHostels(ctx context.Context, activeOnly bool) ([]model.Hostel, error)
	GetHostel(ctx context.Context, id int64) (*model.Hostel, error)
	CreateHostel(ctx context.Context, h *model.Hostel) error
	UpdateHostel(ctx context.Context, h *model.Hostel) error
	DeleteHostel(ctx context.Context, id int64) error

	ListRooms(ctx context.Context, hostelID int64) ([]model.Room, error)
	GetRoom(ctx context.Context, hostelID, id int64) (*model.Room, error)
	CreateRoom(ctx context.Context, r *model.Room) error
	UpdateRoom(ctx context.Context, r *model.Room) error
	DeleteRoom(ctx context.Context, hostelID, id int64) error
	RoomStatus(ctx context.Context, hostelID, id int64) (*model.RoomStatus, error)

	ListStudents(ctx context.Context, hostelID int64) ([]model.Student, error)
	GetStudent(ctx context.Context, hostelID, id int64) (*model.Student, error)
	StudentByUser(ctx context.Context, userID int64) (*model.Student, error)
	CreateStudent(ctx context.Context, st *model.Student) error
	UpdateStudent(ctx context.Context, st *model.Student) error
	DeleteStudent(ctx context.Context, hostelID, id int64) error

	Allocate(ctx context.Context, hostelID, studentID, roomID int64, bed int) (*model.Allocation, error)
	Deallocate(ctx context.Context, hostelID, allocationID int64) (*model.Allocation, error)
	ActiveAllocationsByRoom(ctx context.Context, hostelID, roomID int64) ([]model.Allocation, error)
	ActiveAllocationsByStudent(ctx context.Context, hostelID, studentID int64) ([]model.Allocation, error)
	AllocationHistory(ctx context.Context, hostelID, studentID int64) ([]model.Allocation, error)
	CountActiveAllocations(ctx context.Context, hostelID int64) (int64, error)

	ListFees(ctx context.Context, hostelID int64, filter FeeFilter) ([]model.Fee, error)
	GetFee(ctx context.Context, hostelID, id int64) (*model.Fee, error)
	CreateFee(ctx context.Context, f *model.Fee) error
	UpdateFee(ctx context.Context, f *model.Fee) error
	DeleteFee(ctx context.Context, hostelID, id int64) error
	MarkFeePaid(ctx context.Context, hostelID, id int64, paidAt time.Time, receipt string) (*model.Fee, error)

	ListInventory(ctx context.Context, hostelID int64) ([]model.InventoryItem, error)
	SearchInventory(ctx context.Context, hostelID int64, query string) ([]model.InventoryItem, error)
	LowStock(ctx context.Context, hostelID int64, threshold float64) ([]model.InventoryItem, error)
	CreateItem(ctx context.Context, item *model.InventoryItem) error
	UpdateItem(ctx context.Context, item *model.InventoryItem) error
	DeleteItem(ctx context.Context, hostelID, id int64) error

	PutSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForHostel(ctx context.Context, hostelID int64) ([]model.PushSubscription, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for components that run their own queries.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func notFound(err error, what string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// deleteScoped removes one hostel-scoped row and reports ErrNotFound when nothing matched.
func deleteScoped(tx *gorm.DB, value any, what string, hostelID, id int64) error {
	res := tx.Where("hostel_id = ?", hostelID).Delete(value, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s %d: %w", what, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
	}
	return nil
}

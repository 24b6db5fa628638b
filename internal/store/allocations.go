package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hostel-admin/internal/model"
)

// Allocate binds a student to a bed. The bed must lie in 1..capacity, must not be
// occupied, and the student must not already hold an active allocation.
func (s *gormStore) Allocate(ctx context.Context, hostelID, studentID, roomID int64, bed int) (*model.Allocation, error) {
	var alloc model.Allocation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room model.Room
		if err := tx.Where("hostel_id = ?", hostelID).First(&room, roomID).Error; err != nil {
			return notFound(err, "room", roomID)
		}
		if bed < 1 || bed > room.Capacity {
			return fmt.Errorf("%w: bed %d is outside 1..%d for room %s", ErrInvalid, bed, room.Capacity, room.Label())
		}

		var student model.Student
		if err := tx.Where("hostel_id = ?", hostelID).First(&student, studentID).Error; err != nil {
			return notFound(err, "student", studentID)
		}

		var n int64
		if err := tx.Model(&model.Allocation{}).
			Where("room_id = ? AND bed_number = ? AND active = ?", roomID, bed, true).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: bed %d of room %s is already occupied", ErrConflict, bed, room.Label())
		}

		if err := tx.Model(&model.Allocation{}).
			Where("student_id = ? AND active = ?", studentID, true).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: student %s already holds an active allocation", ErrConflict, student.RollNumber)
		}

		alloc = model.Allocation{
			HostelID:    hostelID,
			StudentID:   studentID,
			RoomID:      roomID,
			BedNumber:   bed,
			Active:      true,
			AllocatedAt: time.Now().UTC(),
		}
		if err := tx.Omit(clause.Associations).Create(&alloc).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: bed %d of room %s was taken concurrently", ErrConflict, bed, room.Label())
			}
			return fmt.Errorf("failed to create allocation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.getAllocation(ctx, hostelID, alloc.ID)
}

// Deallocate marks an allocation inactive and stamps the release time. The row is kept as history.
func (s *gormStore) Deallocate(ctx context.Context, hostelID, allocationID int64) (*model.Allocation, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var alloc model.Allocation
		if err := tx.Where("hostel_id = ?", hostelID).First(&alloc, allocationID).Error; err != nil {
			return notFound(err, "allocation", allocationID)
		}
		if !alloc.Active {
			return fmt.Errorf("%w: allocation %d is already inactive", ErrConflict, allocationID)
		}
		now := time.Now().UTC()
		return tx.Model(&model.Allocation{}).
			Where("id = ?", allocationID).
			Updates(map[string]any{"active": false, "released_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.getAllocation(ctx, hostelID, allocationID)
}

func (s *gormStore) getAllocation(ctx context.Context, hostelID, id int64) (*model.Allocation, error) {
	var alloc model.Allocation
	if err := s.preloaded(ctx).Where("allocations.hostel_id = ?", hostelID).First(&alloc, id).Error; err != nil {
		return nil, notFound(err, "allocation", id)
	}
	return &alloc, nil
}

func (s *gormStore) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Student.User").Preload("Room")
}

func (s *gormStore) ActiveAllocationsByRoom(ctx context.Context, hostelID, roomID int64) ([]model.Allocation, error) {
	var allocs []model.Allocation
	if err := s.preloaded(ctx).
		Where("hostel_id = ? AND room_id = ? AND active = ?", hostelID, roomID, true).
		Order("bed_number").
		Find(&allocs).Error; err != nil {
		return nil, fmt.Errorf("failed to list allocations of room %d: %w", roomID, err)
	}
	return allocs, nil
}

func (s *gormStore) ActiveAllocationsByStudent(ctx context.Context, hostelID, studentID int64) ([]model.Allocation, error) {
	var allocs []model.Allocation
	if err := s.preloaded(ctx).
		Where("hostel_id = ? AND student_id = ? AND active = ?", hostelID, studentID, true).
		Find(&allocs).Error; err != nil {
		return nil, fmt.Errorf("failed to list allocations of student %d: %w", studentID, err)
	}
	return allocs, nil
}

// AllocationHistory returns every allocation of a student, newest first, including inactive ones.
func (s *gormStore) AllocationHistory(ctx context.Context, hostelID, studentID int64) ([]model.Allocation, error) {
	var allocs []model.Allocation
	if err := s.preloaded(ctx).
		Where("hostel_id = ? AND student_id = ?", hostelID, studentID).
		Order("allocated_at DESC, id DESC").
		Find(&allocs).Error; err != nil {
		return nil, fmt.Errorf("failed to load allocation history of student %d: %w", studentID, err)
	}
	return allocs, nil
}

func (s *gormStore) CountActiveAllocations(ctx context.Context, hostelID int64) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Allocation{}).
		Where("hostel_id = ? AND active = ?", hostelID, true).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count allocations: %w", err)
	}
	return n, nil
}

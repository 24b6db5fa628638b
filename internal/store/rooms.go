package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hostel-admin/internal/model"
)

func (s *gormStore) ListRooms(ctx context.Context, hostelID int64) ([]model.Room, error) {
	var rooms []model.Room
	if err := s.db.WithContext(ctx).
		Where("hostel_id = ?", hostelID).
		Order("block, room_number").
		Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *gormStore) GetRoom(ctx context.Context, hostelID, id int64) (*model.Room, error) {
	var r model.Room
	if err := s.db.WithContext(ctx).Where("hostel_id = ?", hostelID).First(&r, id).Error; err != nil {
		return nil, notFound(err, "room", id)
	}
	return &r, nil
}

func validateRoom(r *model.Room) error {
	r.Block = strings.TrimSpace(r.Block)
	r.RoomNumber = strings.TrimSpace(r.RoomNumber)
	if r.RoomNumber == "" {
		return fmt.Errorf("%w: room number is required", ErrInvalid)
	}
	if r.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", ErrInvalid)
	}
	return nil
}

func (s *gormStore) CreateRoom(ctx context.Context, r *model.Room) error {
	if err := validateRoom(r); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: room %s already exists", ErrConflict, r.Label())
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// UpdateRoom edits a room. Lowering capacity does not evict existing allocations.
func (s *gormStore) UpdateRoom(ctx context.Context, r *model.Room) error {
	if err := validateRoom(r); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&model.Room{}).
		Where("id = ? AND hostel_id = ?", r.ID, r.HostelID).
		Updates(map[string]any{"block": r.Block, "room_number": r.RoomNumber, "capacity": r.Capacity})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("%w: room %s already exists", ErrConflict, r.Label())
		}
		return fmt.Errorf("failed to update room %d: %w", r.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: room %d", ErrNotFound, r.ID)
	}
	return nil
}

// DeleteRoom removes a room that never housed anyone. Rooms with active
// allocations or allocation history are kept so student histories stay whole.
func (s *gormStore) DeleteRoom(ctx context.Context, hostelID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active, total int64
		if err := tx.Model(&model.Allocation{}).
			Where("room_id = ? AND active = ?", id, true).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("%w: room %d still has %d active allocation(s)", ErrConflict, id, active)
		}
		if err := tx.Model(&model.Allocation{}).
			Where("room_id = ?", id).
			Count(&total).Error; err != nil {
			return err
		}
		if total > 0 {
			return fmt.Errorf("%w: room %d has allocation history and cannot be deleted", ErrConflict, id)
		}
		return deleteScoped(tx, &model.Room{}, "room", hostelID, id)
	})
}

func (s *gormStore) RoomStatus(ctx context.Context, hostelID, id int64) (*model.RoomStatus, error) {
	room, err := s.GetRoom(ctx, hostelID, id)
	if err != nil {
		return nil, err
	}
	var occupied int64
	if err := s.db.WithContext(ctx).Model(&model.Allocation{}).
		Where("room_id = ? AND active = ?", id, true).
		Count(&occupied).Error; err != nil {
		return nil, fmt.Errorf("failed to count allocations of room %d: %w", id, err)
	}
	available := room.Capacity - int(occupied)
	if available < 0 {
		available = 0
	}
	return &model.RoomStatus{
		RoomID:    room.ID,
		Capacity:  room.Capacity,
		Occupied:  int(occupied),
		Available: available,
	}, nil
}

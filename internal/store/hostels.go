package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"hostel-admin/internal/model"
)

func (s *gormStore) ListHostels(ctx context.Context, activeOnly bool) ([]model.Hostel, error) {
	q := s.db.WithContext(ctx).Order("name")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var hostels []model.Hostel
	if err := q.Find(&hostels).Error; err != nil {
		return nil, fmt.Errorf("failed to list hostels: %w", err)
	}
	return hostels, nil
}

func (s *gormStore) GetHostel(ctx context.Context, id int64) (*model.Hostel, error) {
	var h model.Hostel
	if err := s.db.WithContext(ctx).First(&h, id).Error; err != nil {
		return nil, notFound(err, "hostel", id)
	}
	return &h, nil
}

func (s *gormStore) CreateHostel(ctx context.Context, h *model.Hostel) error {
	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" {
		return fmt.Errorf("%w: hostel name is required", ErrInvalid)
	}
	if err := s.db.WithContext(ctx).Create(h).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: hostel %q already exists", ErrConflict, h.Name)
		}
		return fmt.Errorf("failed to create hostel: %w", err)
	}
	return nil
}

func (s *gormStore) UpdateHostel(ctx context.Context, h *model.Hostel) error {
	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" {
		return fmt.Errorf("%w: hostel name is required", ErrInvalid)
	}
	res := s.db.WithContext(ctx).Model(&model.Hostel{ID: h.ID}).
		Updates(map[string]any{"name": h.Name, "active": h.Active})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("%w: hostel %q already exists", ErrConflict, h.Name)
		}
		return fmt.Errorf("failed to update hostel %d: %w", h.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: hostel %d", ErrNotFound, h.ID)
	}
	return nil
}

// DeleteHostel removes a hostel together with everything scoped to it.
func (s *gormStore) DeleteHostel(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, v := range []any{
			&model.Allocation{}, &model.Fee{}, &model.InventoryItem{},
			&model.PushSubscription{}, &model.Student{}, &model.Room{},
		} {
			if err := tx.Where("hostel_id = ?", id).Delete(v).Error; err != nil {
				return fmt.Errorf("failed to clear hostel %d: %w", id, err)
			}
		}
		res := tx.Delete(&model.Hostel{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete hostel %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: hostel %d", ErrNotFound, id)
		}
		return nil
	})
}

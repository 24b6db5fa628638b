package store

import (
	"context"
	"fmt"
	"strings"

	"hostel-admin/internal/model"
)

func validateItem(item *model.InventoryItem) error {
	item.ItemName = strings.TrimSpace(item.ItemName)
	if item.ItemName == "" {
		return fmt.Errorf("%w: item name is required", ErrInvalid)
	}
	if item.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalid)
	}
	return nil
}

func (s *gormStore) ListInventory(ctx context.Context, hostelID int64) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if err := s.db.WithContext(ctx).
		Where("hostel_id = ?", hostelID).
		Order("item_name").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// SearchInventory matches item names case-insensitively.
func (s *gormStore) SearchInventory(ctx context.Context, hostelID int64, query string) ([]model.InventoryItem, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var items []model.InventoryItem
	if err := s.db.WithContext(ctx).
		Where("hostel_id = ? AND LOWER(item_name) LIKE ?", hostelID, pattern).
		Order("item_name").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to search inventory: %w", err)
	}
	return items, nil
}

// LowStock returns items whose quantity is at or below threshold.
func (s *gormStore) LowStock(ctx context.Context, hostelID int64, threshold float64) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if err := s.db.WithContext(ctx).
		Where("hostel_id = ? AND quantity <= ?", hostelID, threshold).
		Order("quantity, item_name").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to query low stock: %w", err)
	}
	return items, nil
}

func (s *gormStore) CreateItem(ctx context.Context, item *model.InventoryItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

func (s *gormStore) UpdateItem(ctx context.Context, item *model.InventoryItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&model.InventoryItem{}).
		Where("id = ? AND hostel_id = ?", item.ID, item.HostelID).
		Updates(map[string]any{"item_name": item.ItemName, "quantity": item.Quantity, "unit": item.Unit})
	if res.Error != nil {
		return fmt.Errorf("failed to update inventory item %d: %w", item.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: inventory item %d", ErrNotFound, item.ID)
	}
	return s.db.WithContext(ctx).First(item, item.ID).Error
}

func (s *gormStore) DeleteItem(ctx context.Context, hostelID, id int64) error {
	return deleteScoped(s.db.WithContext(ctx), &model.InventoryItem{}, "inventory item", hostelID, id)
}

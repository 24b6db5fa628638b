package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/collection"
	"hostel-admin/internal/model"
)

// ErrThresholdRange rejects thresholds outside 0..model.MaxLowStockThreshold.
var ErrThresholdRange = errors.New("threshold out of range")

// CheckThreshold validates a low-stock threshold.
func CheckThreshold(threshold float64) error {
	if threshold < 0 || threshold > model.MaxLowStockThreshold {
		return fmt.Errorf("%w: %g is not within 0..%d", ErrThresholdRange, threshold, model.MaxLowStockThreshold)
	}
	return nil
}

// InventoryAPI is implemented by *apiclient.Client.
type InventoryAPI interface {
	ListInventory(ctx context.Context) ([]model.InventoryItem, error)
	CreateItem(ctx context.Context, in apiclient.ItemInput) (*model.InventoryItem, error)
	UpdateItem(ctx context.Context, id int64, in apiclient.ItemInput) (*model.InventoryItem, error)
	DeleteItem(ctx context.Context, id int64) error
	LowStock(ctx context.Context, threshold float64) ([]model.InventoryItem, error)
}

// InventoryPage lists kitchen stock with local search and a local low-stock filter.
type InventoryPage struct {
	*collection.List[model.InventoryItem, apiclient.ItemInput]
	api InventoryAPI
}

func NewInventoryPage(api InventoryAPI) *InventoryPage {
	return &InventoryPage{
		List: collection.New(collection.Source[model.InventoryItem, apiclient.ItemInput]{
			List:   api.ListInventory,
			Create: api.CreateItem,
			Update: api.UpdateItem,
			Delete: api.DeleteItem,
			ID:     func(i model.InventoryItem) int64 { return i.ID },
		}),
		api: api,
	}
}

// Search matches item names case-insensitively.
func (p *InventoryPage) Search(query string) []model.InventoryItem {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []model.InventoryItem
	for _, it := range p.Items() {
		if q == "" || strings.Contains(strings.ToLower(it.ItemName), q) {
			out = append(out, it)
		}
	}
	return out
}

// LowStock filters the loaded list to items at or below threshold.
func (p *InventoryPage) LowStock(threshold float64) ([]model.InventoryItem, error) {
	if err := CheckThreshold(threshold); err != nil {
		return nil, err
	}
	return FilterLowStock(p.Items(), threshold), nil
}

// FilterLowStock keeps items with quantity <= threshold.
func FilterLowStock(items []model.InventoryItem, threshold float64) []model.InventoryItem {
	var out []model.InventoryItem
	for _, it := range items {
		if it.IsLowStock(threshold) {
			out = append(out, it)
		}
	}
	return out
}

// ServerLowStock asks the backend instead of filtering the loaded list.
func (p *InventoryPage) ServerLowStock(ctx context.Context, threshold float64) ([]model.InventoryItem, error) {
	if err := CheckThreshold(threshold); err != nil {
		return nil, err
	}
	items, err := p.api.LowStock(ctx, threshold)
	if err != nil {
		if ctx.Err() == nil {
			p.Fail(err)
		}
		return nil, err
	}
	return items, nil
}

package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"hostel-admin/internal/model"
)

// ItemInput is the writable part of an inventory item.
type ItemInput struct {
	ItemName string  `json:"itemName"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

func (c *Client) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	return c.items(ctx, request{method: http.MethodGet, path: "/inventory", scoped: true})
}

// SearchInventory matches item names case-insensitively on the server.
func (c *Client) SearchInventory(ctx context.Context, q string) ([]model.InventoryItem, error) {
	return c.items(ctx, request{method: http.MethodGet, path: "/inventory/search", scoped: true,
		query: map[string][]string{"q": {q}}})
}

// LowStock asks the server for items at or below threshold.
func (c *Client) LowStock(ctx context.Context, threshold float64) ([]model.InventoryItem, error) {
	return c.items(ctx, request{method: http.MethodGet, path: "/inventory/low-stock", scoped: true,
		query: map[string][]string{"threshold": {strconv.FormatFloat(threshold, 'f', -1, 64)}}})
}

func (c *Client) items(ctx context.Context, r request) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateItem(ctx context.Context, in ItemInput) (*model.InventoryItem, error) {
	var out model.InventoryItem
	if err := c.do(ctx, request{method: http.MethodPost, path: "/inventory", scoped: true, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateItem(ctx context.Context, id int64, in ItemInput) (*model.InventoryItem, error) {
	var out model.InventoryItem
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/inventory/%d", id), scoped: true, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/inventory/%d", id), scoped: true}, nil)
}

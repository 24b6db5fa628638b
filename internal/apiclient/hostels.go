package apiclient

import (
	"context"
	"net/http"

	"hostel-admin/internal/model"
)

// HostelInput is the writable part of a hostel.
type HostelInput struct {
	Name   string `json:"name"`
	Active *bool  `json:"active,omitempty"`
}

func (c *Client) ListHostels(ctx context.Context, activeOnly bool) ([]model.Hostel, error) {
	r := request{method: http.MethodGet, path: "/hostels"}
	if activeOnly {
		r.query = map[string][]string{"active": {"true"}}
	}
	var out []model.Hostel
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetHostel(ctx context.Context, id int64) (*model.Hostel, error) {
	var out model.Hostel
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/hostels/%d", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateHostel(ctx context.Context, in HostelInput) (*model.Hostel, error) {
	var out model.Hostel
	if err := c.do(ctx, request{method: http.MethodPost, path: "/hostels", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateHostel(ctx context.Context, id int64, in HostelInput) (*model.Hostel, error) {
	var out model.Hostel
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/hostels/%d", id), body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteHostel(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/hostels/%d", id)}, nil)
}

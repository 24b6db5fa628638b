package apiclient

import (
	"context"
	"net/http"

	"hostel-admin/internal/model"
)

// RoomInput is the writable part of a room.
type RoomInput struct {
	Block      string `json:"block"`
	RoomNumber string `json:"roomNumber"`
	Capacity   int    `json:"capacity"`
}

func (c *Client) ListRooms(ctx context.Context) ([]model.Room, error) {
	var out []model.Room
	if err := c.do(ctx, request{method: http.MethodGet, path: "/rooms", scoped: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetRoom(ctx context.Context, id int64) (*model.Room, error) {
	var out model.Room
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/rooms/%d", id), scoped: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRoom(ctx context.Context, in RoomInput) (*model.Room, error) {
	var out model.Room
	if err := c.do(ctx, request{method: http.MethodPost, path: "/rooms", scoped: true, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRoom(ctx context.Context, id int64, in RoomInput) (*model.Room, error) {
	var out model.Room
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/rooms/%d", id), scoped: true, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRoom(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/rooms/%d", id), scoped: true}, nil)
}

// RoomStatus returns capacity and occupancy counts for one room.
func (c *Client) RoomStatus(ctx context.Context, id int64) (*model.RoomStatus, error) {
	var out model.RoomStatus
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/rooms/%d/status", id), scoped: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

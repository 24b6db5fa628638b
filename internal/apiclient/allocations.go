package apiclient

import (
	"context"
	"net/http"

	"hostel-admin/internal/model"
)

type allocateBody struct {
	StudentID int64 `json:"studentId"`
	RoomID    int64 `json:"roomId"`
	BedNumber int   `json:"bedNumber"`
}

// Allocate binds a student to a bed. The server rejects occupied beds and students already housed.
func (c *Client) Allocate(ctx context.Context, studentID, roomID int64, bed int) (*model.Allocation, error) {
	var out model.Allocation
	body := allocateBody{StudentID: studentID, RoomID: roomID, BedNumber: bed}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/allocations", scoped: true, body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Deallocate marks an allocation inactive.
func (c *Client) Deallocate(ctx context.Context, allocationID int64) (*model.Allocation, error) {
	var out model.Allocation
	r := request{method: http.MethodPost, path: idPath("/allocations/%d/deallocate", allocationID), scoped: true}
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllocationsByRoom lists the active allocations of a room.
func (c *Client) AllocationsByRoom(ctx context.Context, roomID int64) ([]model.Allocation, error) {
	return c.allocations(ctx, idPath("/allocations/room/%d", roomID))
}

// AllocationsByStudent lists the active allocations of a student (zero or one).
func (c *Client) AllocationsByStudent(ctx context.Context, studentID int64) ([]model.Allocation, error) {
	return c.allocations(ctx, idPath("/allocations/student/%d", studentID))
}

// AllocationHistory lists every allocation a student ever held, newest first.
func (c *Client) AllocationHistory(ctx context.Context, studentID int64) ([]model.Allocation, error) {
	return c.allocations(ctx, idPath("/allocations/history/%d", studentID))
}

func (c *Client) allocations(ctx context.Context, path string) ([]model.Allocation, error) {
	var out []model.Allocation
	if err := c.do(ctx, request{method: http.MethodGet, path: path, scoped: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllocationCount returns the number of active allocations in the hostel.
func (c *Client) AllocationCount(ctx context.Context) (int64, error) {
	var out model.AllocationCount
	if err := c.do(ctx, request{method: http.MethodGet, path: "/allocations/count", scoped: true}, &out); err != nil {
		return 0, err
	}
	return out.Active, nil
}

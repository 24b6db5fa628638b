package apiclient

import (
	"context"
	"net/http"

	"hostel-admin/internal/model"
)

// StudentInput is the writable part of a student. UserID is only read on create.
type StudentInput struct {
	UserID        int64  `json:"userId,omitempty"`
	RollNumber    string `json:"rollNumber"`
	Phone         string `json:"phone"`
	GuardianName  string `json:"guardianName"`
	GuardianPhone string `json:"guardianPhone"`
}

func (c *Client) ListStudents(ctx context.Context) ([]model.Student, error) {
	var out []model.Student
	if err := c.do(ctx, request{method: http.MethodGet, path: "/students", scoped: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetStudent(ctx context.Context, id int64) (*model.Student, error) {
	var out model.Student
	if err := c.do(ctx, request{method: http.MethodGet, path: idPath("/students/%d", id), scoped: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateStudent(ctx context.Context, in StudentInput) (*model.Student, error) {
	var out model.Student
	if err := c.do(ctx, request{method: http.MethodPost, path: "/students", scoped: true, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateStudent(ctx context.Context, id int64, in StudentInput) (*model.Student, error) {
	var out model.Student
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/students/%d", id), scoped: true, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteStudent(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/students/%d", id), scoped: true}, nil)
}

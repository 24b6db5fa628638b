package apiclient

import (
	"context"
	"net/http"

	"hostel-admin/internal/model"
)

// TokenResponse carries the bearer token and role issued at signup or login.
type TokenResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/signup", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe renames the signed-in user.
func (c *Client) UpdateMe(ctx context.Context, name string) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, request{method: http.MethodPut, path: "/me", body: map[string]string{"name": name}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StudentProfile holds the fields a student may edit about themselves.
type StudentProfile struct {
	Phone         string `json:"phone"`
	GuardianName  string `json:"guardianName"`
	GuardianPhone string `json:"guardianPhone"`
}

// MyStudent returns the student record of the signed-in user.
func (c *Client) MyStudent(ctx context.Context) (*model.Student, error) {
	var out model.Student
	if err := c.do(ctx, request{method: http.MethodGet, path: "/me/student"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMyStudent(ctx context.Context, p StudentProfile) (*model.Student, error) {
	var out model.Student
	if err := c.do(ctx, request{method: http.MethodPut, path: "/me/student", body: p}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindUser looks up an account by email. Admin only.
func (c *Client) FindUser(ctx context.Context, email string) (*model.User, error) {
	var out model.User
	r := request{method: http.MethodGet, path: "/users", query: map[string][]string{"email": {email}}}
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

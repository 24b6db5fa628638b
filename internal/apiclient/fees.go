package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"hostel-admin/internal/model"
)

// FeeInput is the writable part of a fee.
type FeeInput struct {
	StudentID int64           `json:"studentId"`
	Month     string          `json:"month"`
	Amount    float64         `json:"amount"`
	DueDate   time.Time       `json:"dueDate"`
	Status    model.FeeStatus `json:"status,omitempty"`
}

// FeeQuery narrows the server-side fee list. Zero values match everything.
type FeeQuery struct {
	StudentID int64
	Status    model.FeeStatus
}

func (c *Client) ListFees(ctx context.Context, q FeeQuery) ([]model.Fee, error) {
	r := request{method: http.MethodGet, path: "/fees", scoped: true, query: map[string][]string{}}
	if q.StudentID != 0 {
		r.query.Set("studentId", strconv.FormatInt(q.StudentID, 10))
	}
	if q.Status != "" {
		r.query.Set("status", string(q.Status))
	}
	var out []model.Fee
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateFee(ctx context.Context, in FeeInput) (*model.Fee, error) {
	var out model.Fee
	if err := c.do(ctx, request{method: http.MethodPost, path: "/fees", scoped: true, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateFee(ctx context.Context, id int64, in FeeInput) (*model.Fee, error) {
	var out model.Fee
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/fees/%d", id), scoped: true, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFee(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/fees/%d", id), scoped: true}, nil)
}

// MarkFeePaid settles a fee; the response carries the receipt number.
func (c *Client) MarkFeePaid(ctx context.Context, id int64) (*model.Fee, error) {
	var out model.Fee
	if err := c.do(ctx, request{method: http.MethodPost, path: idPath("/fees/%d/pay", id), scoped: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadReceipt copies the plain-text receipt of a paid fee into w.
func (c *Client) DownloadReceipt(ctx context.Context, id int64, w io.Writer) error {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: idPath("/fees/%d/receipt", id), scoped: true})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if _, err := io.Copy(w, resp.Body); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("failed to read receipt %d: %w", id, err)
	}
	return nil
}

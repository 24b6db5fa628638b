package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"hostel-admin/internal/apiclient"
	"hostel-admin/internal/collection"
	"hostel-admin/internal/model"
)

// FeesAPI is implemented by *apiclient.Client.
type FeesAPI interface {
	ListFees(ctx context.Context, q apiclient.FeeQuery) ([]model.Fee, error)
	CreateFee(ctx context.Context, in apiclient.FeeInput) (*model.Fee, error)
	UpdateFee(ctx context.Context, id int64, in apiclient.FeeInput) (*model.Fee, error)
	DeleteFee(ctx context.Context, id int64) error
	MarkFeePaid(ctx context.Context, id int64) (*model.Fee, error)
	DownloadReceipt(ctx context.Context, id int64, w io.Writer) error
}

// FeeFilter narrows the fee list. Every non-empty field must match.
type FeeFilter struct {
	Roll   string
	Name   string
	Status model.FeeStatus
}

// Match reports whether f passes every set criterion. Text criteria are
// case-insensitive substrings of the student's roll number and name.
func (ff FeeFilter) Match(f model.Fee) bool {
	if roll := strings.TrimSpace(ff.Roll); roll != "" &&
		!strings.Contains(strings.ToLower(f.Student.RollNumber), strings.ToLower(roll)) {
		return false
	}
	if name := strings.TrimSpace(ff.Name); name != "" &&
		!strings.Contains(strings.ToLower(f.Student.User.Name), strings.ToLower(name)) {
		return false
	}
	if ff.Status != "" && !strings.EqualFold(string(ff.Status), string(f.Status)) {
		return false
	}
	return true
}

// FilterFees keeps the fees matching ff, preserving order.
func FilterFees(fees []model.Fee, ff FeeFilter) []model.Fee {
	var out []model.Fee
	for _, f := range fees {
		if ff.Match(f) {
			out = append(out, f)
		}
	}
	return out
}

// FeesPage lists every fee of the hostel and filters locally.
type FeesPage struct {
	*collection.List[model.Fee, apiclient.FeeInput]
	api FeesAPI
}

func NewFeesPage(api FeesAPI) *FeesPage {
	return &FeesPage{
		List: collection.New(collection.Source[model.Fee, apiclient.FeeInput]{
			List: func(ctx context.Context) ([]model.Fee, error) {
				return api.ListFees(ctx, apiclient.FeeQuery{})
			},
			Create: api.CreateFee,
			Update: api.UpdateFee,
			Delete: api.DeleteFee,
			ID:     func(f model.Fee) int64 { return f.ID },
		}),
		api: api,
	}
}

func (p *FeesPage) Filtered(ff FeeFilter) []model.Fee {
	return FilterFees(p.Items(), ff)
}

// MarkPaid settles a fee and swaps in the paid record.
func (p *FeesPage) MarkPaid(ctx context.Context, id int64) (*model.Fee, error) {
	return p.Mutate(ctx, id, func(ctx context.Context) (*model.Fee, error) {
		return p.api.MarkFeePaid(ctx, id)
	}, "Payment recorded", fmt.Sprintf("Fee %d was marked as paid.", id))
}

// DownloadReceipt writes the receipt of a paid fee to w.
func (p *FeesPage) DownloadReceipt(ctx context.Context, id int64, w io.Writer) error {
	if err := p.api.DownloadReceipt(ctx, id, w); err != nil {
		if ctx.Err() == nil {
			p.Fail(err)
		}
		return err
	}
	return nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hostel-admin/internal/model"
)

const monthLayout = "2006-01"

func validateFee(f *model.Fee) error {
	if _, err := time.Parse(monthLayout, f.Month); err != nil {
		return fmt.Errorf("%w: month must be YYYY-MM, got %q", ErrInvalid, f.Month)
	}
	if f.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}
	if f.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", ErrInvalid)
	}
	switch f.Status {
	case "":
		f.Status = model.FeeUnpaid
	case model.FeeUnpaid, model.FeePaid:
	default:
		return fmt.Errorf("%w: unknown fee status %q", ErrInvalid, f.Status)
	}
	return nil
}

func (s *gormStore) ListFees(ctx context.Context, hostelID int64, filter FeeFilter) ([]model.Fee, error) {
	q := s.db.WithContext(ctx).Preload("Student.User").Where("hostel_id = ?", hostelID)
	if filter.StudentID != 0 {
		q = q.Where("student_id = ?", filter.StudentID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	var fees []model.Fee
	if err := q.Order("due_date DESC, id DESC").Find(&fees).Error; err != nil {
		return nil, fmt.Errorf("failed to list fees: %w", err)
	}
	return fees, nil
}

func (s *gormStore) GetFee(ctx context.Context, hostelID, id int64) (*model.Fee, error) {
	var f model.Fee
	if err := s.db.WithContext(ctx).Preload("Student.User").
		Where("hostel_id = ?", hostelID).
		First(&f, id).Error; err != nil {
		return nil, notFound(err, "fee", id)
	}
	return &f, nil
}

func (s *gormStore) CreateFee(ctx context.Context, f *model.Fee) error {
	if err := validateFee(f); err != nil {
		return err
	}
	if _, err := s.GetStudent(ctx, f.HostelID, f.StudentID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error; err != nil {
		return fmt.Errorf("failed to create fee: %w", err)
	}
	created, err := s.GetFee(ctx, f.HostelID, f.ID)
	if err != nil {
		return err
	}
	*f = *created
	return nil
}

func (s *gormStore) UpdateFee(ctx context.Context, f *model.Fee) error {
	if err := validateFee(f); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&model.Fee{}).
		Where("id = ? AND hostel_id = ?", f.ID, f.HostelID).
		Updates(map[string]any{
			"month":    f.Month,
			"amount":   f.Amount,
			"due_date": f.DueDate,
			"status":   f.Status,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update fee %d: %w", f.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: fee %d", ErrNotFound, f.ID)
	}
	updated, err := s.GetFee(ctx, f.HostelID, f.ID)
	if err != nil {
		return err
	}
	*f = *updated
	return nil
}

func (s *gormStore) DeleteFee(ctx context.Context, hostelID, id int64) error {
	return deleteScoped(s.db.WithContext(ctx), &model.Fee{}, "fee", hostelID, id)
}

// MarkFeePaid flips an unpaid fee to PAID and records the receipt number.
func (s *gormStore) MarkFeePaid(ctx context.Context, hostelID, id int64, paidAt time.Time, receipt string) (*model.Fee, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f model.Fee
		if err := tx.Where("hostel_id = ?", hostelID).First(&f, id).Error; err != nil {
			return notFound(err, "fee", id)
		}
		if f.Status == model.FeePaid {
			return fmt.Errorf("%w: fee %d is already paid", ErrConflict, id)
		}
		return tx.Model(&model.Fee{}).Where("id = ?", id).Updates(map[string]any{
			"status":         model.FeePaid,
			"paid_at":        paidAt,
			"receipt_number": receipt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetFee(ctx, hostelID, id)
}

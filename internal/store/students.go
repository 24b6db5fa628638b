package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hostel-admin/internal/model"
)

func (s *gormStore) ListStudents(ctx context.Context, hostelID int64) ([]model.Student, error) {
	var students []model.Student
	if err := s.db.WithContext(ctx).Preload("User").
		Where("hostel_id = ?", hostelID).
		Order("roll_number").
		Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *gormStore) GetStudent(ctx context.Context, hostelID, id int64) (*model.Student, error) {
	var st model.Student
	if err := s.db.WithContext(ctx).Preload("User").
		Where("hostel_id = ?", hostelID).
		First(&st, id).Error; err != nil {
		return nil, notFound(err, "student", id)
	}
	return &st, nil
}

func (s *gormStore) StudentByUser(ctx context.Context, userID int64) (*model.Student, error) {
	var st model.Student
	if err := s.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		First(&st).Error; err != nil {
		return nil, notFound(err, "student for user", userID)
	}
	return &st, nil
}

// CreateStudent links an existing user account to a new student record.
func (s *gormStore) CreateStudent(ctx context.Context, st *model.Student) error {
	st.RollNumber = strings.TrimSpace(st.RollNumber)
	if st.RollNumber == "" {
		return fmt.Errorf("%w: roll number is required", ErrInvalid)
	}
	if _, err := s.GetUser(ctx, st.UserID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(st).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %d is already linked to a student", ErrConflict, st.UserID)
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	created, err := s.GetStudent(ctx, st.HostelID, st.ID)
	if err != nil {
		return err
	}
	*st = *created
	return nil
}

// UpdateStudent edits contact details. The linked user cannot be changed.
func (s *gormStore) UpdateStudent(ctx context.Context, st *model.Student) error {
	st.RollNumber = strings.TrimSpace(st.RollNumber)
	if st.RollNumber == "" {
		return fmt.Errorf("%w: roll number is required", ErrInvalid)
	}
	res := s.db.WithContext(ctx).Model(&model.Student{}).
		Where("id = ? AND hostel_id = ?", st.ID, st.HostelID).
		Updates(map[string]any{
			"roll_number":    st.RollNumber,
			"phone":          st.Phone,
			"guardian_name":  st.GuardianName,
			"guardian_phone": st.GuardianPhone,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update student %d: %w", st.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: student %d", ErrNotFound, st.ID)
	}
	updated, err := s.GetStudent(ctx, st.HostelID, st.ID)
	if err != nil {
		return err
	}
	*st = *updated
	return nil
}

// DeleteStudent removes a student, their allocation history and fees.
// Students holding an active allocation must be deallocated first.
func (s *gormStore) DeleteStudent(ctx context.Context, hostelID, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&model.Allocation{}).
			Where("student_id = ? AND active = ?", id, true).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("%w: student %d holds an active allocation", ErrConflict, id)
		}
		for _, v := range []any{&model.Allocation{}, &model.Fee{}} {
			if err := tx.Where("student_id = ? AND hostel_id = ?", id, hostelID).Delete(v).Error; err != nil {
				return fmt.Errorf("failed to delete records of student %d: %w", id, err)
			}
		}
		return deleteScoped(tx, &model.Student{}, "student", hostelID, id)
	})
}

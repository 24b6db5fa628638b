package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"hostel-admin/internal/model"
)

func (s *gormStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email == "" || strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: name and email are required", ErrInvalid)
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email %s is already registered", ErrConflict, u.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *gormStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &u, nil
}

func (s *gormStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, email)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gormStore) UpdateUser(ctx context.Context, u *model.User) error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	res := s.db.WithContext(ctx).Model(&model.User{ID: u.ID}).Updates(map[string]any{"name": u.Name})
	if res.Error != nil {
		return fmt.Errorf("failed to update user %d: %w", u.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d", ErrNotFound, u.ID)
	}
	return nil
}

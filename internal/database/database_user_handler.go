package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mailroom/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

func GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

func GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

func CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := DB.WithContext(ctx).Model(&domain.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func CreateUser(ctx context.Context, user *domain.User) error {
	if err := DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"authapi/model"

	"gorm.io/gorm"
)

type OtpRepository interface {
	// Replace removes any outstanding codes for the user before saving the
	// new one, so at most one usable code exists per user.
	Replace(ctx context.Context, userID uint, code string, expiresAt time.Time) error
	FindByUserAndCode(ctx context.Context, userID uint, code string) (*model.Otp, error)
	// DeleteByID removes a single row and reports whether it was still
	// present. A false result means a concurrent call consumed it first.
	DeleteByID(ctx context.Context, id uint) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type otpRepository struct {
	db *gorm.DB
}

func NewOtpRepository(db *gorm.DB) OtpRepository {
	return &otpRepository{db}
}

func (r *otpRepository) Replace(ctx context.Context, userID uint, code string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Otp{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		return tx.Create(&model.Otp{UserID: userID, Code: code, ExpiresAt: expiresAt}).Error
	})
}

func (r *otpRepository) FindByUserAndCode(ctx context.Context, userID uint, code string) (*model.Otp, error) {
	var entry model.Otp
	err := r.db.WithContext(ctx).First(&entry, "user_id = ? AND code = ?", userID, code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *otpRepository) DeleteByID(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Otp{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *otpRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&model.Otp{}, "expires_at < ?", now)
	return result.RowsAffected, result.Error
}

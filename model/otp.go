package model

import (
	"time"
)

// Otp is a single-use numeric verification code. Rows are deleted on first
// successful verification, on expiry during verification, or by the
// periodic sweep.
type Otp struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Code      string `gorm:"type:varchar(6);not null"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

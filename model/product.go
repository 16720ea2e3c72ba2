package model

import (
	"time"
)

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`
	Price       float64
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

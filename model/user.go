package model

import (
	"time"
)

const (
	ProviderLocal    = "local"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

const (
	RoleClient   = "client"
	RoleAdmin    = "admin"
	RoleDelivery = "delivery"
)

// User rows carry both local and social accounts. Local users have a bcrypt
// hash in Password and no ProviderID; social users have Provider/ProviderID
// and an empty Password. PhoneNumber and ProviderID are pointers so the
// unique indexes skip rows where they are absent.
type User struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"type:varchar(255);not null"`
	Email       string  `gorm:"type:varchar(191);uniqueIndex;not null"`
	Password    string  `gorm:"type:varchar(255)" json:"-"`
	PhoneNumber *string `gorm:"type:varchar(32);uniqueIndex"`
	Provider    string  `gorm:"type:varchar(50);default:local;uniqueIndex:idx_provider_identity"`
	ProviderID  *string `gorm:"type:varchar(191);uniqueIndex:idx_provider_identity"`
	IsVerified  bool    `gorm:"default:false"`
	Role        string  `gorm:"type:varchar(20);default:client"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *User) IsLocal() bool {
	return u.Provider == ProviderLocal
}

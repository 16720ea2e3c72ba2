package dto

import (
	"time"
)

// SocialProfile is the normalized identity assertion handed to the auth
// engine after an OAuth callback. Provider payload shapes never cross this
// boundary.
type SocialProfile struct {
	Provider   string `json:"provider"`
	ProviderID string `json:"provider_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

type Register struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type RegisterResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type Refresh struct {
	RefreshToken string `json:"refreshToken"`
}

type RequestPasswordReset struct {
	Email string `json:"email"`
}

type ResetPassword struct {
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type RequestOtp struct {
	Email string `json:"email"`
}

type VerifyOtp struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type RequestPhoneOtp struct {
	PhoneNumber string `json:"phoneNumber"`
}

type VerifyPhoneOtp struct {
	PhoneNumber string `json:"phoneNumber"`
	Otp         string `json:"otp"`
}

// UserResponse is the client-facing user shape. The password hash is never
// part of it.
type UserResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Provider    string    `json:"provider"`
	IsVerified  bool      `json:"isVerified"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UpdateProfile struct {
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

type ProductResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

package usecase

import (
	"context"
	"errors"

	"authapi/apperror"
	"authapi/dto"
	"authapi/internal/repository"
	"authapi/model"
)

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uint) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uint, input *dto.UpdateProfile) (*dto.UserResponse, error)
	DeleteAccount(ctx context.Context, userID uint) error
}

type profileUsecase struct {
	users repository.UserRepository
}

func NewProfileUsecase(users repository.UserRepository) ProfileUsecase {
	return &profileUsecase{users}
}

func (u *profileUsecase) GetProfile(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	return SanitizeUser(user), nil
}

func (u *profileUsecase) UpdateProfile(ctx context.Context, userID uint, input *dto.UpdateProfile) (*dto.UserResponse, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.PhoneNumber != "" {
		phone := input.PhoneNumber
		user.PhoneNumber = &phone
	}

	if err := u.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("phone number already in use")
		}
		return nil, err
	}
	return SanitizeUser(user), nil
}

func (u *profileUsecase) DeleteAccount(ctx context.Context, userID uint) error {
	return u.users.Delete(ctx, userID)
}

// SanitizeUser converts a stored user to its client-facing shape. The
// password hash never leaves the server.
func SanitizeUser(user *model.User) *dto.UserResponse {
	resp := &dto.UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Provider:   user.Provider,
		IsVerified: user.IsVerified,
		Role:       user.Role,
		CreatedAt:  user.CreatedAt,
	}
	if user.PhoneNumber != nil {
		resp.PhoneNumber = *user.PhoneNumber
	}
	return resp
}

// Package otp generates, stores and consumes the 6-digit one-time codes used
// by the email and phone verification flows.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"authapi/internal/repository"
)

// TTL is how long a saved code stays valid.
const TTL = 10 * time.Minute

var (
	ErrOtpInvalid = errors.New("invalid OTP")
	ErrOtpExpired = errors.New("expired OTP")
)

type Service struct {
	repo repository.OtpRepository
}

func NewService(repo repository.OtpRepository) *Service {
	return &Service{repo: repo}
}

// Generate returns a 6-digit numeric code drawn from crypto/rand.
func (s *Service) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generating OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Save persists the code for the user, replacing any outstanding code.
func (s *Service) Save(ctx context.Context, userID uint, code string) error {
	return s.repo.Replace(ctx, userID, code, time.Now().Add(TTL))
}

// VerifyAndConsume checks the code and deletes it on both the success and
// the expired path, so a code can never be spent twice. The final delete is
// conditional on the row still existing: if a concurrent call consumed it
// first, this one reports ErrOtpInvalid.
func (s *Service) VerifyAndConsume(ctx context.Context, userID uint, code string) error {
	entry, err := s.repo.FindByUserAndCode(ctx, userID, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOtpInvalid
		}
		return err
	}

	if time.Now().After(entry.ExpiresAt) {
		if _, err := s.repo.DeleteByID(ctx, entry.ID); err != nil {
			return err
		}
		return ErrOtpExpired
	}

	consumed, err := s.repo.DeleteByID(ctx, entry.ID)
	if err != nil {
		return err
	}
	if !consumed {
		return ErrOtpInvalid
	}
	return nil
}

// SweepExpired deletes every expired code and returns how many were removed.
// It is idempotent and safe to run concurrently with verification.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, time.Now())
}

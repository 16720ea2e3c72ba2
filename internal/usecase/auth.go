package usecase

import (
	"context"
	"errors"
	"fmt"

	"authapi/apperror"
	"authapi/dto"
	"authapi/internal/otp"
	"authapi/internal/repository"
	"authapi/internal/token"
	"authapi/logging"
	"authapi/model"
	"authapi/utils"
)

// Mailer delivers an HTML email. Implementations live in utils.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SmsSender delivers a text message to a phone number.
type SmsSender interface {
	Send(to, body string) error
}

type AuthUsecase interface {
	Register(ctx context.Context, input *dto.Register) (*dto.RegisterResponse, error)
	Login(ctx context.Context, input *dto.Login) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)

	RequestPasswordReset(ctx context.Context, email string) error
	ValidateResetToken(tokenString string) error
	ResetPassword(ctx context.Context, tokenString, newPassword string) error

	VerifyEmail(ctx context.Context, tokenString string) error
	RequestEmailOtp(ctx context.Context, email string) error
	VerifyEmailOtp(ctx context.Context, email, code string) error
	RequestPhoneOtp(ctx context.Context, phoneNumber string) error
	VerifyPhoneOtp(ctx context.Context, phoneNumber, code string) error

	// ResolveSocialUser links or creates an account for an external identity
	// assertion and returns the resolved user.
	ResolveSocialUser(ctx context.Context, profile *dto.SocialProfile) (*model.User, error)
	IssueSession(userID uint) (*dto.LoginResponse, error)
}

type authUsecase struct {
	users   repository.UserRepository
	otps    *otp.Service
	tokens  *token.Service
	hasher  *PasswordHasher
	mailer  Mailer
	sms     SmsSender
	baseURL string
	log     logging.Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	otps *otp.Service,
	tokens *token.Service,
	hasher *PasswordHasher,
	mailer Mailer,
	sms SmsSender,
	baseURL string,
	log logging.Logger,
) AuthUsecase {
	return &authUsecase{
		users:   users,
		otps:    otps,
		tokens:  tokens,
		hasher:  hasher,
		mailer:  mailer,
		sms:     sms,
		baseURL: baseURL,
		log:     log,
	}
}

func (u *authUsecase) Register(ctx context.Context, input *dto.Register) (*dto.RegisterResponse, error) {
	if input.Name == "" {
		return nil, apperror.BadRequest("name is required")
	}
	email := utils.NormalizeEmail(input.Email)
	if !utils.IsValidEmail(email) {
		return nil, apperror.BadRequest("invalid email")
	}
	if len(input.Password) < 8 {
		return nil, apperror.BadRequest("password must be at least 8 characters")
	}

	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("email already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Name:       input.Name,
		Email:      email,
		Password:   hashed,
		Provider:   model.ProviderLocal,
		Role:       model.RoleClient,
		IsVerified: false,
	}
	if input.PhoneNumber != "" {
		phone := input.PhoneNumber
		user.PhoneNumber = &phone
	}

	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Two concurrent registrations raced; the store rejected the
			// second write.
			return nil, apperror.Conflict("email already registered")
		}
		return nil, err
	}
	u.log.Info(ctx, "user registered", "user_id", user.ID)

	verifyToken, err := u.tokens.Issue(user.ID, token.Verify)
	if err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", u.baseURL, verifyToken)
	if err := u.mailer.Send(email, "Verify Your Email", verificationEmailBody(user.Name, link)); err != nil {
		// Roll the account back so a retry with the same email does not hit
		// the conflict check against an unverifiable ghost user.
		u.log.Error(ctx, "verification email failed, rolling back user", "user_id", user.ID, "error", err)
		if delErr := u.users.Delete(ctx, user.ID); delErr != nil {
			u.log.Error(ctx, "rollback failed", "user_id", user.ID, "error", delErr)
		}
		return nil, apperror.Wrap(500, "error sending verification email", err)
	}

	return &dto.RegisterResponse{ID: user.ID, Email: user.Email}, nil
}

func (u *authUsecase) Login(ctx context.Context, input *dto.Login) (*dto.LoginResponse, error) {
	email := utils.NormalizeEmail(input.Email)

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, err
	}

	if !user.IsLocal() {
		// The caller already asserted this email is theirs, so naming the
		// provider here reveals nothing new.
		return nil, apperror.Forbidden(fmt.Sprintf("please use %s login", user.Provider))
	}

	if !u.hasher.Verify(input.Password, user.Password) {
		u.log.Warn(ctx, "invalid password attempt", "user_id", user.ID)
		return nil, apperror.Unauthorized("invalid email or password")
	}

	if !user.IsVerified {
		return nil, apperror.Forbidden("please verify your email before logging in")
	}

	return u.IssueSession(user.ID)
}

func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	userID, err := u.tokens.Verify(refreshToken, token.Refresh)
	if err != nil {
		return nil, apperror.Wrap(401, "invalid refresh token", err)
	}

	if _, err := u.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid refresh token")
		}
		return nil, err
	}

	return u.IssueSession(userID)
}

func (u *authUsecase) IssueSession(userID uint) (*dto.LoginResponse, error) {
	accessToken, err := u.tokens.Issue(userID, token.Access)
	if err != nil {
		return nil, err
	}
	refreshToken, err := u.tokens.Issue(userID, token.Refresh)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: accessToken, RefreshToken: refreshToken}, nil
}

func (u *authUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Succeed silently so responses never reveal whether an account
			// exists.
			u.log.Warn(ctx, "password reset requested for unknown email")
			return nil
		}
		return err
	}

	resetToken, err := u.tokens.Issue(user.ID, token.Reset)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", u.baseURL, resetToken)
	if err := u.mailer.Send(user.Email, "Password Reset Request", passwordResetEmailBody(user.Name, link)); err != nil {
		return apperror.Wrap(500, "error sending password reset email", err)
	}

	u.log.Info(ctx, "password reset email sent", "user_id", user.ID)
	return nil
}

func (u *authUsecase) ValidateResetToken(tokenString string) error {
	if tokenString == "" {
		return apperror.BadRequest("token is missing")
	}
	if _, err := u.tokens.Verify(tokenString, token.Reset); err != nil {
		return mapTokenError(err)
	}
	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	if tokenString == "" {
		return apperror.BadRequest("token is missing")
	}
	if len(newPassword) < 8 {
		return apperror.BadRequest("password must be at least 8 characters")
	}

	userID, err := u.tokens.Verify(tokenString, token.Reset)
	if err != nil {
		return mapTokenError(err)
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}

	hashed, err := u.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := u.users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}

	u.log.Info(ctx, "password reset", "user_id", user.ID)
	return nil
}

func (u *authUsecase) VerifyEmail(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return apperror.BadRequest("token is missing")
	}

	userID, err := u.tokens.Verify(tokenString, token.Verify)
	if err != nil {
		return mapTokenError(err)
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}
	if user.IsVerified {
		return apperror.BadRequest("email already verified")
	}

	if err := u.users.MarkVerified(ctx, user.ID); err != nil {
		return err
	}
	u.log.Info(ctx, "email verified", "user_id", user.ID)
	return nil
}

func (u *authUsecase) RequestEmailOtp(ctx context.Context, email string) error {
	user, err := u.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}

	code, err := u.otps.Generate()
	if err != nil {
		return err
	}
	if err := u.otps.Save(ctx, user.ID, code); err != nil {
		return err
	}
	if err := u.mailer.Send(user.Email, "Your OTP Code", otpEmailBody(code)); err != nil {
		return apperror.Wrap(500, "error sending OTP email", err)
	}

	u.log.Info(ctx, "OTP emailed", "user_id", user.ID)
	return nil
}

func (u *authUsecase) VerifyEmailOtp(ctx context.Context, email, code string) error {
	user, err := u.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}
	return u.consumeOtpAndVerify(ctx, user, code)
}

func (u *authUsecase) RequestPhoneOtp(ctx context.Context, phoneNumber string) error {
	user, err := u.users.FindByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}

	code, err := u.otps.Generate()
	if err != nil {
		return err
	}
	if err := u.otps.Save(ctx, user.ID, code); err != nil {
		return err
	}
	if err := u.sms.Send(phoneNumber, otpSmsBody(code)); err != nil {
		return apperror.Wrap(500, "error sending OTP SMS", err)
	}

	u.log.Info(ctx, "OTP sent by SMS", "user_id", user.ID)
	return nil
}

func (u *authUsecase) VerifyPhoneOtp(ctx context.Context, phoneNumber, code string) error {
	user, err := u.users.FindByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}
	return u.consumeOtpAndVerify(ctx, user, code)
}

func (u *authUsecase) consumeOtpAndVerify(ctx context.Context, user *model.User, code string) error {
	if err := u.otps.VerifyAndConsume(ctx, user.ID, code); err != nil {
		switch {
		case errors.Is(err, otp.ErrOtpInvalid):
			return apperror.BadRequest("invalid OTP")
		case errors.Is(err, otp.ErrOtpExpired):
			return apperror.BadRequest("expired OTP")
		}
		return err
	}

	if err := u.users.MarkVerified(ctx, user.ID); err != nil {
		return err
	}
	u.log.Info(ctx, "user verified by OTP", "user_id", user.ID)
	return nil
}

func (u *authUsecase) ResolveSocialUser(ctx context.Context, profile *dto.SocialProfile) (*model.User, error) {
	email := utils.NormalizeEmail(profile.Email)
	if email == "" || profile.ProviderID == "" {
		return nil, apperror.BadRequest("incomplete social profile")
	}

	user, err := u.users.FindBySocialIdentity(ctx, profile.Provider, profile.ProviderID, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		providerID := profile.ProviderID
		user = &model.User{
			Name:       profile.Name,
			Email:      email,
			Provider:   profile.Provider,
			ProviderID: &providerID,
			Role:       model.RoleClient,
			IsVerified: true,
		}
		if err := u.users.Create(ctx, user); err != nil {
			return nil, err
		}
		u.log.Info(ctx, "social user created", "user_id", user.ID, "provider", profile.Provider)
		return user, nil
	}

	if user.ProviderID == nil {
		// A local account with the same email: link it to the social
		// identity instead of creating a duplicate.
		providerID := profile.ProviderID
		user.Provider = profile.Provider
		user.ProviderID = &providerID
		if err := u.users.Update(ctx, user); err != nil {
			return nil, err
		}
		u.log.Info(ctx, "local account linked to social identity", "user_id", user.ID, "provider", profile.Provider)
	}

	return user, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrTokenExpired):
		return apperror.Wrap(400, "token expired", err)
	case errors.Is(err, token.ErrTokenInvalid):
		return apperror.Wrap(400, "invalid token", err)
	}
	return err
}

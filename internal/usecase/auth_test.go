package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"authapi/dto"
	"authapi/internal/otp"
	"authapi/internal/repository"
	"authapi/internal/token"
	"authapi/logging"
	"authapi/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent []sentMail
	fail bool
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

type fakeSms struct {
	sent []sentMail
	fail bool
}

func (s *fakeSms) Send(to, body string) error {
	if s.fail {
		return errors.New("twilio unreachable")
	}
	s.sent = append(s.sent, sentMail{To: to, Body: body})
	return nil
}

type authFixture struct {
	uc     AuthUsecase
	db     *gorm.DB
	users  repository.UserRepository
	tokens *token.Service
	mailer *fakeMailer
	sms    *fakeSms
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Otp{}))

	users := repository.NewUserRepository(db)
	tokens := token.NewService(token.DefaultConfig("test-secret", "test-reset-secret"))
	mailer := &fakeMailer{}
	sms := &fakeSms{}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	uc := NewAuthUsecase(
		users,
		otp.NewService(repository.NewOtpRepository(db)),
		tokens,
		NewPasswordHasher(),
		mailer, sms,
		"http://localhost:8080",
		logger,
	)
	return &authFixture{uc: uc, db: db, users: users, tokens: tokens, mailer: mailer, sms: sms}
}

var tokenInLink = regexp.MustCompile(`token=([A-Za-z0-9._-]+)`)

func (f *authFixture) lastMailToken(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.mailer.sent)
	match := tokenInLink.FindStringSubmatch(f.mailer.sent[len(f.mailer.sent)-1].Body)
	require.Len(t, match, 2)
	return match[1]
}

func registerInput() *dto.Register {
	return &dto.Register{
		Name:        "Ann",
		Email:       "ann@x.com",
		Password:    "Secr3t!pw",
		PhoneNumber: "+21612345678",
	}
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.uc.Register(ctx, registerInput())
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", resp.Email)
	assert.NotZero(t, resp.ID)

	stored, err := f.users.FindByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.False(t, stored.IsVerified)
	assert.Equal(t, model.ProviderLocal, stored.Provider)
	assert.Equal(t, model.RoleClient, stored.Role)

	// Never stored in plaintext, but still verifies against the raw input.
	assert.NotEqual(t, "Secr3t!pw", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Secr3t!pw")))

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "ann@x.com", f.mailer.sent[0].To)
	assert.Contains(t, f.mailer.sent[0].Body, "/verify-email?token=")
}

func TestRegisterNormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)
	input := registerInput()
	input.Email = "  Ann@X.COM "

	resp, err := f.uc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", resp.Email)
}

func TestRegisterValidation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	missingName := registerInput()
	missingName.Name = ""
	_, err := f.uc.Register(ctx, missingName)
	assert.EqualError(t, err, "name is required")

	badEmail := registerInput()
	badEmail.Email = "not-an-email"
	_, err = f.uc.Register(ctx, badEmail)
	assert.EqualError(t, err, "invalid email")

	shortPassword := registerInput()
	shortPassword.Password = "short"
	_, err = f.uc.Register(ctx, shortPassword)
	assert.EqualError(t, err, "password must be at least 8 characters")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.uc.Register(ctx, registerInput())
	require.NoError(t, err)

	input := registerInput()
	input.PhoneNumber = "+21687654321"
	_, err = f.uc.Register(ctx, input)
	assert.EqualError(t, err, "email already registered")

	var count int64
	require.NoError(t, f.db.Model(&model.User{}).Where("email = ?", "ann@x.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterRollsBackOnMailFailure(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	f.mailer.fail = true
	_, err := f.uc.Register(ctx, registerInput())
	require.EqualError(t, err, "error sending verification email")

	// No ghost account: the same email registers cleanly once mail works.
	_, err = f.users.FindByEmail(ctx, "ann@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	f.mailer.fail = false
	_, err = f.uc.Register(ctx, registerInput())
	assert.NoError(t, err)
}

func TestLoginLifecycle(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.uc.Register(ctx, registerInput())
	require.NoError(t, err)

	// Correct credentials before verification.
	_, err = f.uc.Login(ctx, &dto.Login{Email: "ann@x.com", Password: "Secr3t!pw"})
	assert.EqualError(t, err, "please verify your email before logging in")

	require.NoError(t, f.uc.VerifyEmail(ctx, f.lastMailToken(t)))

	session, err := f.uc.Login(ctx, &dto.Login{Email: "ann@x.com", Password: "Secr3t!pw"})
	require.NoError(t, err)

	userID, err := f.tokens.Verify(session.Token, token.Access)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, userID)

	userID, err = f.tokens.Verify(session.RefreshToken, token.Refresh)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, userID)
}

func TestLoginGenericFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.uc.Register(ctx, registerInput())
	require.NoError(t, err)

	// Unknown account and wrong password must be indistinguishable.
	_, errUnknown := f.uc.Login(ctx, &dto.Login{Email: "nobody@x.com", Password: "whatever1"})
	_, errWrongPw := f.uc.Login(ctx, &dto.Login{Email: "ann@x.com", Password: "wrong-password"})
	assert.EqualError(t, errUnknown, "invalid email or password")
	assert.EqualError(t, errWrongPw, "invalid email or password")
}

func TestLoginSocialAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.uc.ResolveSocialUser(ctx, &dto.SocialProfile{
		Provider:   model.ProviderGoogle,
		ProviderID: "g-123",
		Email:      "sam@x.com",
		Name:       "Sam",
	})
	require.NoError(t, err)

	_, err = f.uc.Login(ctx, &dto.Login{Email: "sam@x.com", Password: "whatever1"})
	assert.EqualError(t, err, "please use google login")
}

func TestRefresh(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.uc.Register(ctx, registerInput())
	require.NoError(t, err)
	require.NoError(t, f.uc.VerifyEmail(ctx, f.lastMailToken(t)))

	session, err := f.uc.Login(ctx, &dto.Login{Email: "ann@x.com", Password: "Secr3t!pw"})
	require.NoError(t, err)

	renewed, err := f.uc.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	userID, err := f.tokens.Verify(renewed.Token, token.Access)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, userID)

	// An access token is not usable as a refresh token.
	_, err = f.uc.Refresh(ctx, session.Token)
	assert.EqualError(t, err, "invalid refresh token")
}

func TestRequestPasswordResetAntiEnumeration(t *testing.T) {
	f := newAuthFixture(t)

	err := f.uc.RequestPasswordReset(context.Background(), "unknown@x.com")
	assert.NoError(t, err)
	assert.Empty(t, f.mailer.sent)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.uc.Register(ctx, registerInput())
	require.NoError(t, err)
	require.NoError(t, f.uc.VerifyEmail(ctx, f.lastMailToken(t)))

	require.NoError(t, f.uc.RequestPasswordReset(ctx, "ann@x.com"))
	resetToken := f.lastMailToken(t)

	require.NoError(t, f.uc.ValidateResetToken(resetToken))
	require.NoError(t, f.uc.ResetPassword(ctx, resetToken, "NewSecr3t!pw"))

	_, err = f.uc.Login(ctx, &dto.Login{Email: "ann@x.com", Password: "Secr3t!pw"})
	assert.EqualError(t, err, "invalid email or password")

	_, err = f.uc.Login(ctx, &dto.Login{Email: "ann@x.com", Password: "NewSecr3t!pw"})
	assert.NoError(t, err)
}

func TestResetPasswordTokenChecks(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	err := f.uc.ResetPassword(ctx, "", "NewSecr3t!pw")
	assert.EqualError(t, err, "token is missing")

	err = f.uc.ResetPassword(ctx, "garbage", "NewSecr3t!pw")
	assert.EqualError(t, err, "invalid token")

	// A verify-type token must not authorize a password reset.
	_, regErr := f.uc.Register(ctx, registerInput())
	require.NoError(t, regErr)
	err = f.uc.ResetPassword(ctx, f.lastMailToken(t), "NewSecr3t!pw")
	assert.EqualError(t, err, "invalid token")
}

func TestVerifyEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.uc.Register(ctx, registerInput())
	require.NoError(t, err)
	verifyToken := f.lastMailToken(t)

	require.NoError(t, f.uc.VerifyEmail(ctx, verifyToken))

	stored, err := f.users.FindByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)

	err = f.uc.VerifyEmail(ctx, verifyToken)
	assert.EqualError(t, err, "email already verified")
}

func TestEmailOtpFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.uc.Register(ctx, registerInput())
	require.NoError(t, err)

	require.NoError(t, f.uc.RequestEmailOtp(ctx, "ann@x.com"))
	require.Len(t, f.mailer.sent, 2)
	code := regexp.MustCompile(`[0-9]{6}`).FindString(f.mailer.sent[1].Body)
	require.NotEmpty(t, code)

	assert.EqualError(t, f.uc.VerifyEmailOtp(ctx, "ann@x.com", "000000"), "invalid OTP")

	require.NoError(t, f.uc.VerifyEmailOtp(ctx, "ann@x.com", code))
	stored, err := f.users.FindByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)

	// Single use.
	assert.EqualError(t, f.uc.VerifyEmailOtp(ctx, "ann@x.com", code), "invalid OTP")
}

func TestEmailOtpUnknownUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	assert.EqualError(t, f.uc.RequestEmailOtp(ctx, "nobody@x.com"), "user not found")
	assert.EqualError(t, f.uc.VerifyEmailOtp(ctx, "nobody@x.com", "123456"), "user not found")
}

func TestPhoneOtpFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.uc.Register(ctx, registerInput())
	require.NoError(t, err)

	require.NoError(t, f.uc.RequestPhoneOtp(ctx, "+21612345678"))
	require.Len(t, f.sms.sent, 1)
	assert.Equal(t, "+21612345678", f.sms.sent[0].To)
	code := regexp.MustCompile(`[0-9]{6}`).FindString(f.sms.sent[0].Body)
	require.NotEmpty(t, code)

	require.NoError(t, f.uc.VerifyPhoneOtp(ctx, "+21612345678", code))
	stored, err := f.users.FindByPhone(ctx, "+21612345678")
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)
}

func TestPhoneOtpSmsFailure(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.uc.Register(ctx, registerInput())
	require.NoError(t, err)

	f.sms.fail = true
	assert.EqualError(t, f.uc.RequestPhoneOtp(ctx, "+21612345678"), "error sending OTP SMS")
}

func TestResolveSocialUserCreates(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, err := f.uc.ResolveSocialUser(ctx, &dto.SocialProfile{
		Provider:   model.ProviderGoogle,
		ProviderID: "g-123",
		Email:      "sam@x.com",
		Name:       "Sam",
	})
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.Equal(t, model.ProviderGoogle, user.Provider)
	require.NotNil(t, user.ProviderID)
	assert.Equal(t, "g-123", *user.ProviderID)
	assert.Empty(t, user.Password)
}

func TestResolveSocialUserLinksLocalAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.uc.Register(ctx, registerInput())
	require.NoError(t, err)

	user, err := f.uc.ResolveSocialUser(ctx, &dto.SocialProfile{
		Provider:   model.ProviderGoogle,
		ProviderID: "g-123",
		Email:      "ann@x.com",
		Name:       "Ann",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.ID, user.ID)
	assert.Equal(t, model.ProviderGoogle, user.Provider)
	require.NotNil(t, user.ProviderID)
	assert.Equal(t, "g-123", *user.ProviderID)

	// No second account was created.
	var count int64
	require.NoError(t, f.db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Subsequent logins resolve by (provider, providerId).
	again, err := f.uc.ResolveSocialUser(ctx, &dto.SocialProfile{
		Provider:   model.ProviderGoogle,
		ProviderID: "g-123",
		Email:      "ann@x.com",
		Name:       "Ann",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

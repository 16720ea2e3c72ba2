package config

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/coreos/go-oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port    string
	BaseURL string

	DatabaseDSN string

	JWTSecret      string
	JWTResetSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
}

func Load() *Config {
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		smtpPort = 587
	}

	return &Config{
		Port:    getEnv("PORT", "8080"),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),
		DatabaseDSN: fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "3306"),
			os.Getenv("DB_NAME"),
		),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTResetSecret:    os.Getenv("JWT_RESET_SECRET"),
		SMTPHost:          getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:          smtpPort,
		SMTPUsername:      os.Getenv("EMAIL_SENDER"),
		SMTPPassword:      os.Getenv("APP_PASSWORD"),
		EmailFrom:         getEnv("EMAIL_FROM", os.Getenv("EMAIL_SENDER")),
		TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// OAuth bundles the external identity provider configurations.
type OAuth struct {
	Google         *oauth2.Config
	Facebook       *oauth2.Config
	GoogleVerifier *oidc.IDTokenVerifier
}

// NewOAuth builds the provider configs. The OIDC verifier fetches Google's
// discovery document, so this needs outbound network access.
func NewOAuth(ctx context.Context, baseURL string) (*OAuth, error) {
	googleConfig := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  baseURL + "/google/callback",
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	facebookConfig := &oauth2.Config{
		ClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
		ClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
		RedirectURL:  baseURL + "/facebook/callback",
		Scopes:       []string{"email", "public_profile"},
		Endpoint:     facebook.Endpoint,
	}

	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, fmt.Errorf("initializing google OIDC provider: %w", err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: os.Getenv("GOOGLE_CLIENT_ID_MOBILE")})

	return &OAuth{
		Google:         googleConfig,
		Facebook:       facebookConfig,
		GoogleVerifier: verifier,
	}, nil
}

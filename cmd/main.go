package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"authapi/cmd/config"
	"authapi/cmd/database"
	"authapi/cmd/route"
	"authapi/internal/handler"
	"authapi/internal/otp"
	"authapi/internal/repository"
	"authapi/internal/token"
	"authapi/internal/usecase"
	"authapi/logging"
	"authapi/middleware"
	"authapi/utils"

	"github.com/joho/godotenv"
)

const otpSweepInterval = 5 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	logger := logging.NewDefault()
	ctx := context.Background()

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	oauth, err := config.NewOAuth(ctx, cfg.BaseURL)
	if err != nil {
		log.Fatalf("oauth setup failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOtpRepository(db)
	productRepo := repository.NewProductRepository(db)

	tokenService := token.NewService(token.DefaultConfig(cfg.JWTSecret, cfg.JWTResetSecret))
	otpService := otp.NewService(otpRepo)
	mailer := utils.NewSmtpMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
	sms := utils.NewTwilioSmsSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)

	authUsecase := usecase.NewAuthUsecase(
		userRepo, otpService, tokenService, usecase.NewPasswordHasher(),
		mailer, sms, cfg.BaseURL, logger,
	)
	profileUsecase := usecase.NewProfileUsecase(userRepo)
	productUsecase := usecase.NewProductUsecase(productRepo)

	authHandler := handler.NewAuthHandler(authUsecase, oauth)
	profileHandler := handler.NewProfileHandler(profileUsecase)
	productHandler := handler.NewProductHandler(productUsecase)
	guard := middleware.NewAuth(tokenService, userRepo, logger)

	// Expired OTPs pile up between verifications; sweep them periodically.
	go func() {
		ticker := time.NewTicker(otpSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			removed, err := otpService.SweepExpired(ctx)
			if err != nil {
				logger.Error(ctx, "OTP sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Info(ctx, "expired OTPs removed", "count", removed)
			}
		}
	}()

	r := route.Setup(authHandler, profileHandler, productHandler, guard, logger)

	logger.Info(ctx, "server starting", "port", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}

package route

import (
	"net/http"

	"authapi/internal/handler"
	"authapi/logging"
	"authapi/middleware"
	"authapi/model"

	"github.com/gorilla/mux"
)

func Setup(
	auth *handler.AuthHandler,
	profile *handler.ProfileHandler,
	product *handler.ProductHandler,
	guard *middleware.Auth,
	log logging.Logger,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID(log))

	// registration + credentials
	r.HandleFunc("/signup", auth.Signup).Methods(http.MethodPost)
	r.HandleFunc("/login", auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/refresh-token", auth.Refresh).Methods(http.MethodPost)
	r.HandleFunc("/verify-email", auth.VerifyEmail).Methods(http.MethodGet)

	// OTP verification
	r.HandleFunc("/request-otp", auth.RequestOtp).Methods(http.MethodPost)
	r.HandleFunc("/verify-otp", auth.VerifyOtp).Methods(http.MethodPost)
	r.HandleFunc("/request-phone-otp", auth.RequestPhoneOtp).Methods(http.MethodPost)
	r.HandleFunc("/verify-phone-otp", auth.VerifyPhoneOtp).Methods(http.MethodPost)

	// password reset
	r.HandleFunc("/request-password-reset", auth.RequestPasswordReset).Methods(http.MethodPost)
	r.HandleFunc("/reset-password", auth.ValidateResetToken).Methods(http.MethodGet)
	r.HandleFunc("/reset-password", auth.ResetPassword).Methods(http.MethodPost)

	// social login
	r.HandleFunc("/google/login", auth.GoogleLogin).Methods(http.MethodGet)
	r.HandleFunc("/google/callback", auth.GoogleCallback).Methods(http.MethodGet)
	r.HandleFunc("/google/mobile/login", auth.GoogleMobileLogin).Methods(http.MethodPost)
	r.HandleFunc("/facebook/login", auth.FacebookLogin).Methods(http.MethodGet)
	r.HandleFunc("/facebook/callback", auth.FacebookCallback).Methods(http.MethodGet)

	// catalog, public reads
	r.HandleFunc("/products", product.List).Methods(http.MethodGet)
	r.HandleFunc("/products/{id:[0-9]+}", product.Get).Methods(http.MethodGet)

	// profile, any authenticated user
	me := r.PathPrefix("/me").Subrouter()
	me.Use(guard.Authenticated)
	me.HandleFunc("", profile.Me).Methods(http.MethodGet)
	me.HandleFunc("", profile.Update).Methods(http.MethodPut)
	me.HandleFunc("", profile.Delete).Methods(http.MethodDelete)

	// catalog writes, admin only
	admin := r.PathPrefix("/products").Subrouter()
	admin.Use(guard.Authenticated, guard.Authorized(model.RoleAdmin))
	admin.HandleFunc("", product.Create).Methods(http.MethodPost)
	admin.HandleFunc("/{id:[0-9]+}", product.Update).Methods(http.MethodPut)
	admin.HandleFunc("/{id:[0-9]+}", product.Delete).Methods(http.MethodDelete)

	return r
}

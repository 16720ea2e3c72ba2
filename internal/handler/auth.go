package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"authapi/apperror"
	"authapi/cmd/config"
	"authapi/dto"
	"authapi/internal/usecase"
	"authapi/utils"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	oauth       *config.OAuth
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, oauth *config.OAuth) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, oauth: oauth}
}

// writeError maps usecase failures onto the response envelope. Errors
// without an explicit status are reported as a generic 500 so internals
// never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		utils.WriteError(w, appErr.Code, appErr.Message)
		return
	}
	utils.WriteError(w, http.StatusInternalServerError, "internal server error")
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input dto.Register
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	response, err := h.authUsecase.Register(r.Context(), &input)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, response)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input dto.Login
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	response, err := h.authUsecase.Login(r.Context(), &input)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"token":        response.Token,
		"refreshToken": response.RefreshToken,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input dto.Refresh
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	response, err := h.authUsecase.Refresh(r.Context(), input.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"token":        response.Token,
		"refreshToken": response.RefreshToken,
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.authUsecase.VerifyEmail(r.Context(), r.URL.Query().Get("token")); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "email verified successfully")
}

func (h *AuthHandler) RequestOtp(w http.ResponseWriter, r *http.Request) {
	var input dto.RequestOtp
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.authUsecase.RequestEmailOtp(r.Context(), input.Email); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "OTP sent")
}

func (h *AuthHandler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var input dto.VerifyOtp
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.authUsecase.VerifyEmailOtp(r.Context(), input.Email, input.Otp); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "email verified successfully")
}

func (h *AuthHandler) RequestPhoneOtp(w http.ResponseWriter, r *http.Request) {
	var input dto.RequestPhoneOtp
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.authUsecase.RequestPhoneOtp(r.Context(), input.PhoneNumber); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "OTP sent")
}

func (h *AuthHandler) VerifyPhoneOtp(w http.ResponseWriter, r *http.Request) {
	var input dto.VerifyPhoneOtp
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.authUsecase.VerifyPhoneOtp(r.Context(), input.PhoneNumber, input.Otp); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "phone number verified successfully")
}

func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var input dto.RequestPasswordReset
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if err := h.authUsecase.RequestPasswordReset(r.Context(), input.Email); err != nil {
		writeError(w, err)
		return
	}
	// The response is the same whether or not the account exists.
	utils.WriteMessage(w, http.StatusOK, "if the email is registered, a reset link has been sent")
}

func (h *AuthHandler) ValidateResetToken(w http.ResponseWriter, r *http.Request) {
	if err := h.authUsecase.ValidateResetToken(r.URL.Query().Get("token")); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "token is valid")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input dto.ResetPassword
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if input.NewPassword != input.ConfirmPassword {
		utils.WriteError(w, http.StatusBadRequest, "passwords do not match")
		return
	}

	if err := h.authUsecase.ResetPassword(r.Context(), r.URL.Query().Get("token"), input.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "password reset successfully")
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := utils.GenerateState()
	http.Redirect(w, r, h.oauth.Google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		utils.WriteError(w, http.StatusBadRequest, "no code provided")
		return
	}
	if !utils.ValidateState(r.URL.Query().Get("state")) {
		utils.WriteError(w, http.StatusBadRequest, "invalid state")
		return
	}

	oauthToken, err := h.oauth.Google.Exchange(r.Context(), code)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "failed to exchange token")
		return
	}

	client := h.oauth.Google.Client(r.Context(), oauthToken)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to get user info")
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to read user info")
		return
	}

	profile, err := utils.ParseGoogleUserInfo(body)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to parse user info")
		return
	}

	h.finishSocialLogin(w, r, profile)
}

// GoogleMobileLogin accepts an id_token obtained by a native client and
// verifies it against Google's OIDC keys instead of running the redirect
// flow.
func (h *AuthHandler) GoogleMobileLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
		utils.WriteError(w, http.StatusBadRequest, "invalid id_token")
		return
	}

	idToken, err := h.oauth.GoogleVerifier.Verify(r.Context(), req.IDToken)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "invalid or expired id_token")
		return
	}

	var claims map[string]interface{}
	if err := idToken.Claims(&claims); err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to parse claims")
		return
	}
	payload, _ := json.Marshal(claims)

	profile, err := utils.ParseGoogleUserInfo(payload)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to parse user info")
		return
	}

	h.finishSocialLogin(w, r, profile)
}

func (h *AuthHandler) FacebookLogin(w http.ResponseWriter, r *http.Request) {
	state := utils.GenerateState()
	http.Redirect(w, r, h.oauth.Facebook.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) FacebookCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		utils.WriteError(w, http.StatusBadRequest, "no code provided")
		return
	}
	if !utils.ValidateState(r.URL.Query().Get("state")) {
		utils.WriteError(w, http.StatusBadRequest, "invalid state")
		return
	}

	oauthToken, err := h.oauth.Facebook.Exchange(r.Context(), code)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "failed to exchange token")
		return
	}

	client := h.oauth.Facebook.Client(r.Context(), oauthToken)
	resp, err := client.Get("https://graph.facebook.com/me?fields=id,name,email")
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to get user info")
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to read user info")
		return
	}

	profile, err := utils.ParseFacebookUserInfo(body)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "failed to parse user info")
		return
	}

	h.finishSocialLogin(w, r, profile)
}

func (h *AuthHandler) finishSocialLogin(w http.ResponseWriter, r *http.Request, profile *dto.SocialProfile) {
	user, err := h.authUsecase.ResolveSocialUser(r.Context(), profile)
	if err != nil {
		writeError(w, err)
		return
	}

	session, err := h.authUsecase.IssueSession(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"token":        session.Token,
		"refreshToken": session.RefreshToken,
		"data":         usecase.SanitizeUser(user),
	})
}

package utils

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"authapi/dto"
	"authapi/model"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, map[string]any{"success": true, "data": data})
}

func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{"success": true, "message": message})
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]any{"success": false, "message": message})
}

// GenerateState returns a random URL-safe OAuth state value.
func GenerateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func ValidateState(state string) bool {
	if len(state) != 22 {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(state)
	return err == nil
}

// ParseGoogleUserInfo normalizes a Google userinfo or id_token claims payload
// into a SocialProfile. Google uses "sub" in OIDC claims and "id" in the
// legacy userinfo response.
func ParseGoogleUserInfo(data []byte) (*dto.SocialProfile, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	providerID := ""
	if val, ok := raw["sub"]; ok {
		providerID = fmt.Sprint(val)
	} else if val, ok := raw["id"]; ok {
		providerID = fmt.Sprint(val)
	}

	return &dto.SocialProfile{
		Provider:   model.ProviderGoogle,
		ProviderID: providerID,
		Email:      stringField(raw, "email"),
		Name:       stringField(raw, "name"),
	}, nil
}

// ParseFacebookUserInfo normalizes a Facebook Graph API /me payload.
func ParseFacebookUserInfo(data []byte) (*dto.SocialProfile, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	return &dto.SocialProfile{
		Provider:   model.ProviderFacebook,
		ProviderID: stringField(raw, "id"),
		Email:      stringField(raw, "email"),
		Name:       stringField(raw, "name"),
	}, nil
}

func stringField(raw map[string]interface{}, key string) string {
	val, ok := raw[key]
	if !ok || val == nil {
		return ""
	}
	return fmt.Sprint(val)
}
